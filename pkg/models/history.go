package models

import "time"

// HistoryEntry is one immutable record of an answered or skipped sentence
type HistoryEntry struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	SentenceID  int64     `json:"sentence_id" db:"sentence_id"`
	EnglishText string    `json:"english_text" db:"english_text"`
	UserAnswer  string    `json:"user_answer" db:"user_answer"`
	Expected    string    `json:"expected" db:"expected"` // Reference translation shown as feedback
	Correct     bool      `json:"correct" db:"correct"`
	Skipped     bool      `json:"skipped" db:"skipped"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
