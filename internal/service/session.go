package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/quizdeck/internal/clock"
	"github.com/aliskhannn/quizdeck/internal/domain/entities"
	"github.com/aliskhannn/quizdeck/internal/viewer"
)

// DefaultRevealDelay is how long a card stays on its front face after an
// answer before it flips to show the answer.
const DefaultRevealDelay = 1500 * time.Millisecond

type DeckLoader interface {
	Load(ctx context.Context, locator string) ([]entities.Record, error)
}

type CatalogProvider interface {
	Entry(index int) (entities.CatalogEntry, error)
}

// RevealFunc receives the screen after a deferred reveal flipped the card.
type RevealFunc func(screen viewer.Screen)

// SessionConfig configures a SessionService.
type SessionConfig struct {
	RevealDelay   time.Duration
	IdleTTL       time.Duration // sessions untouched for longer are evicted
	EvictSchedule string        // cron spec for eviction; empty disables it
}

// SessionService drives one viewer per session key: a Telegram chat or a
// browser cookie.
type SessionService struct {
	store   SessionStorage
	catalog CatalogProvider
	decks   DeckLoader
	clock   clock.Clock
	cfg     SessionConfig
	logger  *zap.Logger
}

func NewSessionService(
	store SessionStorage,
	catalog CatalogProvider,
	decks DeckLoader,
	clk clock.Clock,
	cfg SessionConfig,
	logger *zap.Logger,
) *SessionService {
	if cfg.RevealDelay <= 0 {
		cfg.RevealDelay = DefaultRevealDelay
	}
	return &SessionService{
		store:   store,
		catalog: catalog,
		decks:   decks,
		clock:   clk,
		cfg:     cfg,
		logger:  logger,
	}
}

// RevealDelay returns the configured reveal delay.
func (s *SessionService) RevealDelay() time.Duration { return s.cfg.RevealDelay }

// Open loads the catalog entry at entryIndex into the session. On error the
// session keeps whatever it showed before.
func (s *SessionService) Open(ctx context.Context, key string, entryIndex int) (viewer.Screen, error) {
	entry, err := s.catalog.Entry(entryIndex)
	if err != nil {
		return viewer.Screen{}, err
	}

	records, err := s.decks.Load(ctx, entry.Filename)
	if err != nil {
		s.logger.Info("failed to open deck",
			zap.String("session", key),
			zap.String("filename", entry.Filename),
			zap.Error(err),
		)
		return viewer.Screen{}, err
	}

	var screen viewer.Screen
	err = s.store.With(key, func(v *viewer.Viewer) error {
		if _, err := v.Handle(viewer.Loaded{Records: records}); err != nil {
			return err
		}
		screen = v.Screen()
		return nil
	})
	if err != nil {
		return viewer.Screen{}, err
	}

	s.logger.Debug("deck opened",
		zap.String("session", key),
		zap.String("filename", entry.Filename),
		zap.Int("records", len(records)),
	)

	return screen, nil
}

// Dispatch applies ev to the session. When the event schedules a reveal,
// onReveal is called with the new screen once the reveal has flipped the
// card; it is not called if the user moved on before that.
func (s *SessionService) Dispatch(key string, ev viewer.Event, onReveal RevealFunc) (viewer.Screen, viewer.Effect, error) {
	var (
		screen viewer.Screen
		effect viewer.Effect
	)
	err := s.store.With(key, func(v *viewer.Viewer) error {
		var err error
		effect, err = v.Handle(ev)
		screen = v.Screen()
		return err
	})
	if err != nil {
		return screen, effect, err
	}

	if effect.Reveal != nil {
		s.scheduleReveal(key, *effect.Reveal, onReveal)
	}

	return screen, effect, nil
}

func (s *SessionService) scheduleReveal(key string, reveal viewer.Reveal, onReveal RevealFunc) {
	s.clock.AfterFunc(s.cfg.RevealDelay, func() {
		var (
			screen viewer.Screen
			effect viewer.Effect
		)
		// Peek: an evicted session stays gone and a reveal is not activity.
		s.store.Peek(key, func(v *viewer.Viewer) {
			effect, _ = v.Handle(reveal)
			screen = v.Screen()
		})

		if effect.Render && onReveal != nil {
			onReveal(screen)
		}
	})
}

// Screen returns the current screen of the session. Unknown keys show the
// catalog.
func (s *SessionService) Screen(key string) viewer.Screen {
	screen := viewer.Screen{View: viewer.ViewCatalog}
	s.store.Peek(key, func(v *viewer.Viewer) {
		screen = v.Screen()
	})
	return screen
}

// EvictIdle drops sessions idle for longer than the configured TTL.
func (s *SessionService) EvictIdle() int {
	if s.cfg.IdleTTL <= 0 {
		return 0
	}
	return s.store.EvictIdle(s.clock.Now().Add(-s.cfg.IdleTTL))
}

// Start evicts idle sessions on the configured schedule until ctx is done.
func (s *SessionService) Start(ctx context.Context) error {
	if s.cfg.EvictSchedule == "" || s.cfg.IdleTTL <= 0 {
		<-ctx.Done()
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(s.cfg.EvictSchedule, func() {
		if n := s.EvictIdle(); n > 0 {
			s.logger.Info("evicted idle sessions", zap.Int("count", n))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule session eviction: %w", err)
	}

	s.logger.Info("session janitor started", zap.Duration("idle_ttl", s.cfg.IdleTTL))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("session janitor stopped")

	return nil
}
