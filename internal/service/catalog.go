package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/quizdeck/internal/domain/entities"
)

var ErrUnknownEntry = errors.New("unknown catalog entry")

// Catalog tile labels.
const (
	LabelLoading = "Loading..."
	LabelStart   = "Click to start"
)

type countState struct {
	done  bool
	count *int
}

// CatalogService owns the static catalog and the informational question
// counts shown on its tiles.
type CatalogService struct {
	entries  []entities.CatalogEntry
	source   SourceRepository
	records  RecordRepository
	schedule string
	logger   *zap.Logger

	mu     sync.RWMutex
	counts []countState
}

// NewCatalogService creates a CatalogService. schedule is a cron spec for
// recounting; an empty schedule counts once at Start.
func NewCatalogService(
	entries []entities.CatalogEntry,
	source SourceRepository,
	records RecordRepository,
	schedule string,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		entries:  entries,
		source:   source,
		records:  records,
		schedule: schedule,
		logger:   logger,
		counts:   make([]countState, len(entries)),
	}
}

// Tiles returns one tile per entry in declaration order.
func (s *CatalogService) Tiles() []entities.CatalogTile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tiles := make([]entities.CatalogTile, len(s.entries))
	for i, entry := range s.entries {
		tiles[i] = entities.CatalogTile{
			Index: i,
			Entry: entry,
			Count: s.counts[i].count,
			Label: label(s.counts[i]),
		}
	}
	return tiles
}

// Entry returns the entry at index.
func (s *CatalogService) Entry(index int) (entities.CatalogEntry, error) {
	if index < 0 || index >= len(s.entries) {
		return entities.CatalogEntry{}, fmt.Errorf("%w: %d", ErrUnknownEntry, index)
	}
	return s.entries[index], nil
}

// Refresh recounts every entry, one at a time in declaration order. A
// failing entry is labelled "Click to start" and never stops the others.
func (s *CatalogService) Refresh(ctx context.Context) {
	for i, entry := range s.entries {
		if ctx.Err() != nil {
			return
		}

		state := countState{done: true}
		count, err := s.count(ctx, entry)
		if err != nil {
			s.logger.Warn("failed to count catalog entry",
				zap.String("filename", entry.Filename),
				zap.Error(err),
			)
		} else {
			state.count = &count
		}

		s.mu.Lock()
		s.counts[i] = state
		s.mu.Unlock()
	}
}

func (s *CatalogService) count(ctx context.Context, entry entities.CatalogEntry) (int, error) {
	raw, err := s.source.Fetch(ctx, entry.Filename)
	if err != nil {
		return 0, err
	}
	return s.records.Count(entry.Filename, raw)
}

// Start counts the catalog right away and then on the configured cron
// schedule until ctx is done.
func (s *CatalogService) Start(ctx context.Context) error {
	s.logger.Info("catalog service started", zap.Int("entries", len(s.entries)))
	defer s.logger.Info("catalog service stopped")

	s.Refresh(ctx)

	if s.schedule == "" {
		<-ctx.Done()
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(s.schedule, func() {
		s.logger.Debug("cron triggered: refreshing catalog counts")
		s.Refresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule catalog refresh: %w", err)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	return nil
}

func label(state countState) string {
	switch {
	case !state.done:
		return LabelLoading
	case state.count == nil:
		return LabelStart
	default:
		return fmt.Sprintf("%d Questions", *state.count)
	}
}
