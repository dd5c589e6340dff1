package viewer

import "math"

// SwipeThreshold is the minimum horizontal displacement, in device pixels,
// that counts as a navigation swipe.
const SwipeThreshold = 50

// Direction is the navigation a swipe asks for.
type Direction int

const (
	SwipeNone Direction = iota
	SwipeNext
	SwipePrev
)

// SwipeDirection classifies a touch displacement. Mostly-vertical movement
// is a scroll and never navigates. Bounds are checked by the caller.
func SwipeDirection(dx, dy float64) Direction {
	if math.Abs(dy) > math.Abs(dx) {
		return SwipeNone
	}

	switch {
	case dx <= -SwipeThreshold:
		return SwipeNext
	case dx >= SwipeThreshold:
		return SwipePrev
	default:
		return SwipeNone
	}
}
