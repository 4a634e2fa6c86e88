package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/phrasebot/pkg/models"
)

// ProgressRepository handles database operations for per-sentence progress
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

// GetByUser returns all progress entries for a user
func (r *ProgressRepository) GetByUser(ctx context.Context, userID int64) ([]models.Progress, error) {
	var progress []models.Progress
	query := DB.Rebind("SELECT * FROM progress WHERE user_id = ?")
	err := DB.SelectContext(ctx, &progress, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress for user: %v", err)
	}
	return progress, nil
}

// Save creates or updates the progress entry for a user/sentence pair
func (r *ProgressRepository) Save(ctx context.Context, p *models.Progress) error {
	// Проверяем, существует ли запись
	var existingID int64
	err := DB.QueryRowContext(ctx,
		DB.Rebind("SELECT id FROM progress WHERE user_id = ? AND sentence_id = ?"),
		p.UserID, p.SentenceID).Scan(&existingID)

	if err == nil {
		p.ID = existingID
		query := DB.Rebind(`
			UPDATE progress SET
				repetitions = ?,
				ease_factor = ?,
				interval_days = ?,
				lapses = ?,
				corrects = ?,
				wrongs = ?,
				due_date = ?,
				last_answered_at = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`)
		_, err = DB.ExecContext(ctx, query,
			p.Repetitions,
			p.EaseFactor,
			p.IntervalDays,
			p.Lapses,
			p.Corrects,
			p.Wrongs,
			p.DueDate,
			p.LastAnsweredAt,
			p.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update progress: %v", err)
		}
		return nil
	}

	// Запись не существует, создаем новую
	query := DB.Rebind(`
		INSERT INTO progress (
			user_id, sentence_id, repetitions, ease_factor, interval_days,
			lapses, corrects, wrongs, due_date, last_answered_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	result, err := DB.ExecContext(ctx, query,
		p.UserID,
		p.SentenceID,
		p.Repetitions,
		p.EaseFactor,
		p.IntervalDays,
		p.Lapses,
		p.Corrects,
		p.Wrongs,
		p.DueDate,
		p.LastAnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create progress: %v", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		p.ID = id
	}
	return nil
}

// DeleteByUser removes all progress entries for a user (full reset)
func (r *ProgressRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := DB.ExecContext(ctx, DB.Rebind("DELETE FROM progress WHERE user_id = ?"), userID)
	if err != nil {
		return fmt.Errorf("failed to delete progress: %v", err)
	}
	return nil
}

// CountDueForUser returns how many sentences are due for review as of today
func (r *ProgressRepository) CountDueForUser(ctx context.Context, userID int64, now time.Time) (int, error) {
	var count int
	query := DB.Rebind("SELECT COUNT(*) FROM progress WHERE user_id = ? AND due_date <= ?")
	err := DB.GetContext(ctx, &count, query, userID, now.Format(models.DateLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to count due sentences: %v", err)
	}
	return count, nil
}

// GetUserStatistics returns aggregate statistics about a user's progress
func (r *ProgressRepository) GetUserStatistics(ctx context.Context, userID int64, now time.Time) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalCount int
	err := DB.GetContext(ctx, &totalCount,
		DB.Rebind("SELECT COUNT(*) FROM progress WHERE user_id = ?"), userID)
	if err != nil {
		return nil, err
	}
	stats["total_sentences"] = totalCount

	dueToday, err := r.CountDueForUser(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	stats["due_today"] = dueToday

	// Mastered: at least 5 correct in a row and a month-long interval
	var mastered int
	err = DB.GetContext(ctx, &mastered,
		DB.Rebind("SELECT COUNT(*) FROM progress WHERE user_id = ? AND repetitions >= 5 AND interval_days >= 30"),
		userID)
	if err != nil {
		return nil, err
	}
	stats["mastered"] = mastered

	var avgEase float64
	err = DB.GetContext(ctx, &avgEase,
		DB.Rebind("SELECT COALESCE(AVG(ease_factor), 2.5) FROM progress WHERE user_id = ?"), userID)
	if err != nil {
		return nil, err
	}
	stats["avg_ease_factor"] = avgEase

	var totalLapses int
	err = DB.GetContext(ctx, &totalLapses,
		DB.Rebind("SELECT COALESCE(SUM(lapses), 0) FROM progress WHERE user_id = ?"), userID)
	if err != nil {
		return nil, err
	}
	stats["total_lapses"] = totalLapses

	return stats, nil
}
