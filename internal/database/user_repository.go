package database

import (
	"context"
	"fmt"

	"github.com/example/phrasebot/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// GetByTelegramID returns a user by their Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	query := DB.Rebind(`
		SELECT telegram_id, username, first_name, last_name, level,
		       notification_enabled, notification_hour, sentences_per_day,
		       is_admin, created_at, updated_at
		FROM users WHERE telegram_id = ?
	`)
	err := DB.GetContext(ctx, &user, query, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return &user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if !user.Level.IsValid() {
		user.Level = models.LevelA1
	}
	if user.SentencesPerDay == 0 {
		user.SentencesPerDay = 20
	}
	query := DB.Rebind(`
		INSERT INTO users (
			telegram_id, username, first_name, last_name, level,
			notification_enabled, notification_hour, sentences_per_day, is_admin
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := DB.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		string(user.Level),
		user.NotificationEnabled,
		user.NotificationHour,
		user.SentencesPerDay,
		user.IsAdmin,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %v", err)
	}
	return nil
}

// Update modifies an existing user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := DB.Rebind(`
		UPDATE users SET
			username = ?,
			first_name = ?,
			last_name = ?,
			level = ?,
			notification_enabled = ?,
			notification_hour = ?,
			sentences_per_day = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE telegram_id = ?
	`)
	_, err := DB.ExecContext(ctx, query,
		user.Username,
		user.FirstName,
		user.LastName,
		string(user.Level),
		user.NotificationEnabled,
		user.NotificationHour,
		user.SentencesPerDay,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %v", err)
	}
	return nil
}

// UpdateLevel stores a new CEFR level for the user
func (r *UserRepository) UpdateLevel(ctx context.Context, telegramID int64, level models.Level) error {
	query := DB.Rebind("UPDATE users SET level = ?, updated_at = CURRENT_TIMESTAMP WHERE telegram_id = ?")
	_, err := DB.ExecContext(ctx, query, string(level), telegramID)
	if err != nil {
		return fmt.Errorf("failed to update user level: %v", err)
	}
	return nil
}

// GetUsersForNotification returns users who want reminders at the given hour
func (r *UserRepository) GetUsersForNotification(ctx context.Context, hour int) ([]models.User, error) {
	var users []models.User
	query := DB.Rebind(`
		SELECT telegram_id, username, first_name, last_name, level,
		       notification_enabled, notification_hour, sentences_per_day,
		       is_admin, created_at, updated_at
		FROM users
		WHERE notification_enabled AND notification_hour = ?
	`)
	err := DB.SelectContext(ctx, &users, query, hour)
	if err != nil {
		return nil, fmt.Errorf("failed to get users for notification: %v", err)
	}
	return users, nil
}
