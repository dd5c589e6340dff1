package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/quizdeck/internal/domain/entities"
)

// Load failures. Each leaves the caller's session untouched.
var (
	ErrFetchFailed  = errors.New("failed to load data file")
	ErrDecodeFailed = errors.New("failed to parse data file")
	ErrNoData       = errors.New("no data found in data file")
)

// DeckService fetches and decodes a data file into records.
type DeckService struct {
	source  SourceRepository
	records RecordRepository
	logger  *zap.Logger
}

func NewDeckService(source SourceRepository, records RecordRepository, logger *zap.Logger) *DeckService {
	return &DeckService{source: source, records: records, logger: logger}
}

// Load returns the records of the data file at locator.
func (s *DeckService) Load(ctx context.Context, locator string) ([]entities.Record, error) {
	raw, err := s.source.Fetch(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFetchFailed, locator, err)
	}

	records, err := s.records.Decode(locator, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	if len(records) == 0 {
		return nil, ErrNoData
	}

	s.logger.Debug("deck loaded",
		zap.String("locator", locator),
		zap.Int("records", len(records)),
	)

	return records, nil
}
