package trainer

import (
	"context"

	"github.com/example/phrasebot/pkg/models"
)

// Bounds for the history ring. The cap is configurable between the two
// limits via HISTORY_LIMIT.
const (
	DefaultHistoryLimit = 300
	MaxHistoryLimit     = 500
)

// ProgressRepository persists scheduling state between sessions. The
// database package provides the real implementation; tests use in-memory
// fakes.
type ProgressRepository interface {
	GetByUser(ctx context.Context, userID int64) ([]models.Progress, error)
	Save(ctx context.Context, progress *models.Progress) error
	DeleteByUser(ctx context.Context, userID int64) error
}

// HistoryRepository keeps the capped, newest-first attempt log
type HistoryRepository interface {
	Append(ctx context.Context, entry *models.HistoryEntry) error
	Recent(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error)
	DeleteByUser(ctx context.Context, userID int64) error
}
