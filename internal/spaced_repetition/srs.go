package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/phrasebot/pkg/models"
)

// SRS implements the simplified SM-2 style algorithm for sentence reviews
type SRS struct {
	// Интервалы после первого и второго правильного ответа
	FirstInterval  int
	SecondInterval int
	// Ease adjustments applied after each answer
	EaseBonus   float64
	EasePenalty float64
	// Hard floor for the ease factor
	MinEase float64
	// Starting ease for sentences never reviewed
	InitialEase float64
	// Максимальный интервал повторения в днях
	MaxInterval int
}

// New создает новый экземпляр SRS с настройками по умолчанию
func New() *SRS {
	return &SRS{
		FirstInterval:  1,
		SecondInterval: 3,
		EaseBonus:      0.03,
		EasePenalty:    0.15,
		MinEase:        1.3,
		InitialEase:    2.5,
		MaxInterval:    365, // Максимальный интервал - 1 год
	}
}

// Apply updates a progress entry in place for one answered sentence. A skip
// is always scored as incorrect. The function is total: malformed metadata
// is defaulted before use and no input can make it fail.
//
// On a correct answer the interval sequence is 1 day, 3 days, then
// round(previous interval * ease) - the growth multiplies the interval that
// was in force before this answer. A lapse resets repetitions and interval
// to zero together; there is no partial credit.
func (s *SRS) Apply(progress *models.Progress, correct bool, now time.Time) {
	if progress.EaseFactor < s.MinEase {
		// Defaults for entries restored from missing or partial data
		progress.EaseFactor = s.InitialEase
	}
	if progress.Repetitions < 0 {
		progress.Repetitions = 0
	}
	if progress.IntervalDays < 0 {
		progress.IntervalDays = 0
	}

	if correct {
		progress.Repetitions++
		progress.Corrects++

		switch progress.Repetitions {
		case 1:
			progress.IntervalDays = s.FirstInterval
		case 2:
			progress.IntervalDays = s.SecondInterval
		default:
			progress.IntervalDays = int(math.Round(float64(progress.IntervalDays) * progress.EaseFactor))
		}
		if progress.IntervalDays > s.MaxInterval {
			progress.IntervalDays = s.MaxInterval
		}

		progress.EaseFactor = math.Max(s.MinEase, progress.EaseFactor+s.EaseBonus)
	} else {
		progress.Lapses++
		progress.Wrongs++
		progress.Repetitions = 0
		progress.IntervalDays = 0
		progress.EaseFactor = math.Max(s.MinEase, progress.EaseFactor-s.EasePenalty)
	}

	// Calendar-day addition, not 24h-exact
	progress.DueDate = now.AddDate(0, 0, progress.IntervalDays).Format(models.DateLayout)
	answered := now
	progress.LastAnsweredAt = &answered
}

// IsMastered determines if a sentence is considered learned: reviewed at
// least 5 times in a row with an interval of a month or more
func (s *SRS) IsMastered(progress *models.Progress) bool {
	return progress.Repetitions >= 5 && progress.IntervalDays >= 30
}
