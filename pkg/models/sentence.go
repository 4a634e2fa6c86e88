package models

import "time"

// Sentence represents an English sentence to be translated into Portuguese
type Sentence struct {
	ID          int64     `json:"id" db:"id"`
	EnglishText string    `json:"english_text" db:"english_text"`
	Translation string    `json:"translation" db:"translation"` // Reference Portuguese translation
	Level       Level     `json:"level" db:"level"`             // Optional CEFR level (A1-C1)
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
