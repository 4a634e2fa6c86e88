package models

import "time"

// DateLayout is the day-granularity format used for due dates
const DateLayout = "2006-01-02"

// Progress tracks a user's scheduling state for one sentence using a simplified SM-2 algorithm
type Progress struct {
	ID             int64      `json:"id" db:"id"`
	UserID         int64      `json:"user_id" db:"user_id"`
	SentenceID     int64      `json:"sentence_id" db:"sentence_id"`
	Repetitions    int        `json:"repetitions" db:"repetitions"`       // Consecutive correct answers since the last lapse
	EaseFactor     float64    `json:"ease_factor" db:"ease_factor"`       // Interval growth multiplier, never below 1.3
	IntervalDays   int        `json:"interval_days" db:"interval_days"`   // Days until the next review; 0 means due today
	Lapses         int        `json:"lapses" db:"lapses"`                 // Cumulative incorrect/skip count
	Corrects       int        `json:"corrects" db:"corrects"`             // Cumulative correct count
	Wrongs         int        `json:"wrongs" db:"wrongs"`                 // Cumulative wrong count
	DueDate        string     `json:"due_date" db:"due_date"`             // ISO date (YYYY-MM-DD); due when <= today
	LastAnsweredAt *time.Time `json:"last_answered_at" db:"last_answered_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
