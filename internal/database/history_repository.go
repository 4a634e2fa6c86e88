package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/phrasebot/pkg/models"
)

// HistoryRepository handles the capped attempt log. The log is append-only;
// inserting past the cap evicts the oldest entries.
type HistoryRepository struct {
	limit int
}

// NewHistoryRepository creates a repository with the given ring size
func NewHistoryRepository(limit int) *HistoryRepository {
	if limit <= 0 {
		limit = 300
	}
	return &HistoryRepository{limit: limit}
}

// Append inserts a new attempt record and trims the user's log to the cap,
// oldest entries first
func (r *HistoryRepository) Append(ctx context.Context, entry *models.HistoryEntry) error {
	query := DB.Rebind(`
		INSERT INTO history (
			user_id, sentence_id, english_text, user_answer,
			expected, correct, skipped, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	result, err := DB.ExecContext(ctx, query,
		entry.UserID,
		entry.SentenceID,
		entry.EnglishText,
		entry.UserAnswer,
		entry.Expected,
		entry.Correct,
		entry.Skipped,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append history: %v", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}

	// Evict everything older than the newest `limit` entries
	trim := DB.Rebind(`
		DELETE FROM history
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM history WHERE user_id = ? ORDER BY id DESC LIMIT ?
		)
	`)
	if _, err := DB.ExecContext(ctx, trim, entry.UserID, entry.UserID, r.limit); err != nil {
		return fmt.Errorf("failed to trim history: %v", err)
	}
	return nil
}

// Recent returns the user's latest attempts, newest first
func (r *HistoryRepository) Recent(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 || limit > r.limit {
		limit = r.limit
	}
	var entries []models.HistoryEntry
	query := DB.Rebind("SELECT * FROM history WHERE user_id = ? ORDER BY id DESC LIMIT ?")
	err := DB.SelectContext(ctx, &entries, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %v", err)
	}
	return entries, nil
}

// DeleteByUser removes all history for a user (full reset)
func (r *HistoryRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := DB.ExecContext(ctx, DB.Rebind("DELETE FROM history WHERE user_id = ?"), userID)
	if err != nil {
		return fmt.Errorf("failed to delete history: %v", err)
	}
	return nil
}

// TodayCounts returns how many of today's attempts were correct and wrong
func (r *HistoryRepository) TodayCounts(ctx context.Context, userID int64, now time.Time) (correct, wrong int, err error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	query := DB.Rebind("SELECT COUNT(*) FROM history WHERE user_id = ? AND created_at >= ? AND correct")
	if err = DB.GetContext(ctx, &correct, query, userID, dayStart); err != nil {
		return 0, 0, fmt.Errorf("failed to count today's correct answers: %v", err)
	}

	query = DB.Rebind("SELECT COUNT(*) FROM history WHERE user_id = ? AND created_at >= ? AND NOT correct")
	if err = DB.GetContext(ctx, &wrong, query, userID, dayStart); err != nil {
		return 0, 0, fmt.Errorf("failed to count today's wrong answers: %v", err)
	}

	return correct, wrong, nil
}
