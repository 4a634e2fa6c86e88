package database

import (
	"context"
	"fmt"

	"github.com/example/phrasebot/pkg/models"
)

// SentenceRepository handles database operations for sentences
type SentenceRepository struct{}

// NewSentenceRepository creates a new repository instance
func NewSentenceRepository() *SentenceRepository {
	return &SentenceRepository{}
}

// GetAll returns all sentences in insertion order
func (r *SentenceRepository) GetAll(ctx context.Context) ([]models.Sentence, error) {
	var sentences []models.Sentence
	err := DB.SelectContext(ctx, &sentences, "SELECT * FROM sentences ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get sentences: %v", err)
	}
	return sentences, nil
}

// GetByID returns a sentence by ID
func (r *SentenceRepository) GetByID(ctx context.Context, id int64) (*models.Sentence, error) {
	var sentence models.Sentence
	err := DB.GetContext(ctx, &sentence, DB.Rebind("SELECT * FROM sentences WHERE id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sentence by ID: %v", err)
	}
	return &sentence, nil
}

// GetByLevel returns sentences tagged with the given CEFR level, in
// insertion order. Sentences without a level tag are included for every
// level so that untagged datasets still work.
func (r *SentenceRepository) GetByLevel(ctx context.Context, level models.Level) ([]models.Sentence, error) {
	var sentences []models.Sentence
	query := DB.Rebind("SELECT * FROM sentences WHERE level = ? OR level = '' ORDER BY id")
	err := DB.SelectContext(ctx, &sentences, query, string(level))
	if err != nil {
		return nil, fmt.Errorf("failed to get sentences by level: %v", err)
	}
	return sentences, nil
}

// Count returns the total number of sentences
func (r *SentenceRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM sentences")
	if err != nil {
		return 0, fmt.Errorf("failed to count sentences: %v", err)
	}
	return count, nil
}

// Create inserts a new sentence
func (r *SentenceRepository) Create(ctx context.Context, sentence *models.Sentence) error {
	query := DB.Rebind(`
		INSERT INTO sentences (english_text, translation, level)
		VALUES (?, ?, ?)
	`)
	result, err := DB.ExecContext(ctx, query, sentence.EnglishText, sentence.Translation, string(sentence.Level))
	if err != nil {
		return fmt.Errorf("failed to create sentence: %v", err)
	}
	id, err := result.LastInsertId()
	if err == nil {
		sentence.ID = id
	}
	return nil
}

// Update modifies an existing sentence
func (r *SentenceRepository) Update(ctx context.Context, sentence *models.Sentence) error {
	query := DB.Rebind(`
		UPDATE sentences SET
			english_text = ?,
			translation = ?,
			level = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	_, err := DB.ExecContext(ctx, query, sentence.EnglishText, sentence.Translation, string(sentence.Level), sentence.ID)
	if err != nil {
		return fmt.Errorf("failed to update sentence: %v", err)
	}
	return nil
}

// GetByEnglishText returns a sentence by its exact English text
func (r *SentenceRepository) GetByEnglishText(ctx context.Context, text string) (*models.Sentence, error) {
	var sentence models.Sentence
	err := DB.GetContext(ctx, &sentence, DB.Rebind("SELECT * FROM sentences WHERE english_text = ?"), text)
	if err != nil {
		return nil, fmt.Errorf("failed to get sentence by text: %v", err)
	}
	return &sentence, nil
}

// Delete removes a sentence
func (r *SentenceRepository) Delete(ctx context.Context, id int64) error {
	_, err := DB.ExecContext(ctx, DB.Rebind("DELETE FROM sentences WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete sentence: %v", err)
	}
	return nil
}
