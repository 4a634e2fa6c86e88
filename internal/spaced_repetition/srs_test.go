package spaced_repetition

import (
	"testing"
	"time"

	"github.com/example/phrasebot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func newEntry() *models.Progress {
	return &models.Progress{
		UserID:     1,
		SentenceID: 42,
		EaseFactor: 2.5,
		DueDate:    testNow.Format(models.DateLayout),
	}
}

func TestApplyCorrectSequence(t *testing.T) {
	srs := New()
	p := newEntry()

	// First correct: interval 1 day, ease 2.5 -> 2.53
	srs.Apply(p, true, testNow)
	assert.Equal(t, 1, p.Repetitions)
	assert.Equal(t, 1, p.IntervalDays)
	assert.InDelta(t, 2.53, p.EaseFactor, 1e-9)
	assert.Equal(t, "2024-03-11", p.DueDate)

	// Second correct: interval 3 days, ease -> 2.56
	srs.Apply(p, true, testNow)
	assert.Equal(t, 2, p.Repetitions)
	assert.Equal(t, 3, p.IntervalDays)
	assert.InDelta(t, 2.56, p.EaseFactor, 1e-9)
	assert.Equal(t, "2024-03-13", p.DueDate)

	// Third correct: interval round(3*2.56)=8, ease -> 2.59. The growth
	// uses the ease before this answer's bonus.
	srs.Apply(p, true, testNow)
	assert.Equal(t, 3, p.Repetitions)
	assert.Equal(t, 8, p.IntervalDays)
	assert.InDelta(t, 2.59, p.EaseFactor, 1e-9)
	assert.Equal(t, "2024-03-18", p.DueDate)

	assert.Equal(t, 3, p.Corrects)
	assert.Equal(t, 0, p.Wrongs)
	require.NotNil(t, p.LastAnsweredAt)
	assert.Equal(t, testNow, *p.LastAnsweredAt)
}

func TestApplyLapseResets(t *testing.T) {
	srs := New()
	p := newEntry()

	srs.Apply(p, true, testNow)
	srs.Apply(p, true, testNow)
	srs.Apply(p, false, testNow)

	// Full reset, no partial credit
	assert.Equal(t, 0, p.Repetitions)
	assert.Equal(t, 0, p.IntervalDays)
	assert.Equal(t, 1, p.Lapses)
	assert.Equal(t, 1, p.Wrongs)
	assert.Equal(t, 2, p.Corrects)
	assert.InDelta(t, 2.41, p.EaseFactor, 1e-9) // 2.56 - 0.15
	assert.Equal(t, "2024-03-10", p.DueDate)    // due immediately
}

func TestApplyEaseFloor(t *testing.T) {
	srs := New()
	p := newEntry()
	p.EaseFactor = 1.35

	srs.Apply(p, false, testNow)

	// 1.35 - 0.15 would be 1.2; the floor holds at 1.3
	assert.InDelta(t, 1.3, p.EaseFactor, 1e-9)

	srs.Apply(p, false, testNow)
	assert.InDelta(t, 1.3, p.EaseFactor, 1e-9)
}

func TestApplyDefaultsMalformedEntry(t *testing.T) {
	srs := New()
	p := &models.Progress{SentenceID: 7, Repetitions: -2, IntervalDays: -5}

	srs.Apply(p, true, testNow)

	assert.Equal(t, 1, p.Repetitions)
	assert.Equal(t, 1, p.IntervalDays)
	assert.InDelta(t, 2.53, p.EaseFactor, 1e-9)
}

func TestApplyMaxInterval(t *testing.T) {
	srs := New()
	p := newEntry()
	p.Repetitions = 10
	p.IntervalDays = 300

	srs.Apply(p, true, testNow)

	// round(300*2.5)=750 is capped at a year
	assert.Equal(t, srs.MaxInterval, p.IntervalDays)
}

func TestIsMastered(t *testing.T) {
	srs := New()

	assert.False(t, srs.IsMastered(&models.Progress{Repetitions: 5, IntervalDays: 10}))
	assert.False(t, srs.IsMastered(&models.Progress{Repetitions: 2, IntervalDays: 60}))
	assert.True(t, srs.IsMastered(&models.Progress{Repetitions: 5, IntervalDays: 30}))
}
