package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quizdeck/internal/domain/entities"
	"github.com/aliskhannn/quizdeck/internal/repository"
)

func testEntries() []entities.CatalogEntry {
	return []entities.CatalogEntry{
		{Filename: "missing.csv", Title: "Missing", Icon: "❓"},
		{Filename: "small.csv", Title: "Small", Icon: "🏥"},
		{Filename: "big.csv", Title: "Big", Icon: "🫀"},
	}
}

func TestCatalogTilesBeforeRefresh(t *testing.T) {
	t.Parallel()
	svc := NewCatalogService(testEntries(), newStubSource(nil), repository.NewRecordRepository(), "", zap.NewNop())

	tiles := svc.Tiles()
	if len(tiles) != 3 {
		t.Fatalf("tiles: got %d, want 3", len(tiles))
	}
	for i, tile := range tiles {
		if tile.Index != i || tile.Label != LabelLoading || tile.Count != nil {
			t.Errorf("tile %d: %+v", i, tile)
		}
	}
	if tiles[1].Entry.Title != "Small" {
		t.Errorf("tile order: got %q", tiles[1].Entry.Title)
	}
}

func TestCatalogRefresh(t *testing.T) {
	t.Parallel()
	source := newStubSource(map[string]string{
		"small.csv": csvHeader + "t,q1,a,b,c,d,A\nt,q2,a,b,c,d,B",
		"big.csv":   rows(40),
	})
	svc := NewCatalogService(testEntries(), source, repository.NewRecordRepository(), "", zap.NewNop())

	svc.Refresh(context.Background())

	tiles := svc.Tiles()
	want := []string{LabelStart, "2 Questions", "40 Questions"}
	for i, tile := range tiles {
		if tile.Label != want[i] {
			t.Errorf("tile %d label: got %q, want %q", i, tile.Label, want[i])
		}
	}
	if tiles[0].Count != nil {
		t.Errorf("failed tile has count %d", *tiles[0].Count)
	}
	if tiles[1].Count == nil || *tiles[1].Count != 2 {
		t.Errorf("small tile count: %v", tiles[1].Count)
	}

	wantOrder := []string{"missing.csv", "small.csv", "big.csv"}
	for i, locator := range source.fetched {
		if locator != wantOrder[i] {
			t.Errorf("fetch %d: got %s, want %s", i, locator, wantOrder[i])
		}
	}
}

func TestCatalogRefreshRecovers(t *testing.T) {
	t.Parallel()
	source := newStubSource(map[string]string{})
	svc := NewCatalogService(testEntries()[:1], source, repository.NewRecordRepository(), "", zap.NewNop())

	svc.Refresh(context.Background())
	if got := svc.Tiles()[0].Label; got != LabelStart {
		t.Fatalf("label: got %q", got)
	}

	source.set("missing.csv", rows(3))
	svc.Refresh(context.Background())
	if got := svc.Tiles()[0].Label; got != "3 Questions" {
		t.Errorf("label after recovery: got %q", got)
	}
}

func TestCatalogEntry(t *testing.T) {
	t.Parallel()
	svc := NewCatalogService(testEntries(), newStubSource(nil), repository.NewRecordRepository(), "", zap.NewNop())

	entry, err := svc.Entry(2)
	if err != nil || entry.Filename != "big.csv" {
		t.Errorf("Entry(2): got %+v, %v", entry, err)
	}
	for _, index := range []int{-1, 3} {
		if _, err := svc.Entry(index); !errors.Is(err, ErrUnknownEntry) {
			t.Errorf("Entry(%d): got %v, want ErrUnknownEntry", index, err)
		}
	}
}

func TestCatalogStartCountsImmediately(t *testing.T) {
	t.Parallel()
	source := newStubSource(map[string]string{"small.csv": rows(2)})
	svc := NewCatalogService(testEntries()[1:2], source, repository.NewRecordRepository(), "@every 1h", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	deadline := time.After(5 * time.Second)
	for svc.Tiles()[0].Label == LabelLoading {
		select {
		case <-deadline:
			t.Fatal("catalog not counted after Start")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; err != nil {
		t.Errorf("Start: %v", err)
	}
	if got := svc.Tiles()[0].Label; got != "2 Questions" {
		t.Errorf("label: got %q", got)
	}
}

func TestCatalogStartRejectsBadSchedule(t *testing.T) {
	t.Parallel()
	svc := NewCatalogService(nil, newStubSource(nil), repository.NewRecordRepository(), "every so often", zap.NewNop())

	if err := svc.Start(context.Background()); err == nil {
		t.Error("Start accepted an invalid schedule")
	}
}
