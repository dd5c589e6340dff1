package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeAfterFuncFiresOnAdvance(t *testing.T) {
	t.Parallel()
	c := Fake(epoch)

	fired := 0
	c.AfterFunc(1500*time.Millisecond, func() { fired++ })

	c.Advance(time.Second)
	if fired != 0 {
		t.Fatalf("fired after 1s: got %d, want 0", fired)
	}

	c.Advance(500 * time.Millisecond)
	if fired != 1 {
		t.Fatalf("fired after 1.5s: got %d, want 1", fired)
	}

	c.Advance(time.Hour)
	if fired != 1 {
		t.Errorf("fired twice: got %d, want 1", fired)
	}
}

func TestFakeStopPreventsFire(t *testing.T) {
	t.Parallel()
	c := Fake(epoch)

	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	if !timer.Stop() {
		t.Fatal("Stop on pending timer returned false")
	}
	if timer.Stop() {
		t.Error("second Stop returned true")
	}

	c.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if c.Pending() != 0 {
		t.Errorf("Pending: got %d, want 0", c.Pending())
	}
}

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	t.Parallel()
	c := Fake(epoch)

	var order []int
	c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	c.AfterFunc(time.Second, func() { order = append(order, 1) })
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	c.Advance(5 * time.Second)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order: got %v, want [1 2 3]", order)
	}
	if !c.Now().Equal(epoch.Add(5 * time.Second)) {
		t.Errorf("Now: got %v", c.Now())
	}
}
