package service

import (
	"context"
	"time"

	"github.com/aliskhannn/quizdeck/internal/domain/entities"
	"github.com/aliskhannn/quizdeck/internal/viewer"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user *entities.User) error
	UserExists(ctx context.Context, userID int64) (bool, error)
}

// SourceRepository retrieves the raw text of a data file.
type SourceRepository interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// RecordRepository decodes and counts raw data files.
type RecordRepository interface {
	Decode(locator string, raw []byte) ([]entities.Record, error)
	Count(locator string, raw []byte) (int, error)
}

// SessionStorage keeps one viewer per session key.
type SessionStorage interface {
	With(key string, fn func(v *viewer.Viewer) error) error
	Peek(key string, fn func(v *viewer.Viewer))
	EvictIdle(olderThan time.Time) int
}
