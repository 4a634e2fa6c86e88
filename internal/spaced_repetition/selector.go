package spaced_repetition

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/example/phrasebot/pkg/models"
)

// ProgressLookup resolves the scheduling state for a sentence, creating a
// default entry when the sentence has never been seen
type ProgressLookup func(sentenceID int64) *models.Progress

// Selector picks the next sentence to present. Selection is randomized, so
// the random source is injected to keep tests deterministic.
type Selector struct {
	rng *rand.Rand
	// Weight added per recorded lapse
	LapseWeight int
	// Extra weight for sentences with no successful review yet
	FreshWeight int
}

// NewSelector creates a selector drawing from the given source
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{
		rng:         rng,
		LapseWeight: 3,
		FreshWeight: 2,
	}
}

// Next returns the sentence to review as of now. Due sentences are drawn at
// random with weight 1 + LapseWeight*lapses (+ FreshWeight when the interval
// is still zero), so trouble sentences and fresh sentences come up more
// often while every due sentence stays reachable. When nothing is due the
// soonest-due sentence is returned, ties broken by input order, so a session
// always makes forward progress.
//
// An empty sentence slice is a caller error.
func (s *Selector) Next(sentences []models.Sentence, lookup ProgressLookup, now time.Time) (*models.Sentence, error) {
	if len(sentences) == 0 {
		return nil, fmt.Errorf("no sentences to select from")
	}

	today := now.Format(models.DateLayout)

	type candidate struct {
		sentence *models.Sentence
		weight   int
	}
	var due []candidate
	total := 0

	for i := range sentences {
		progress := lookup(sentences[i].ID)
		if progress.DueDate > today {
			continue
		}
		weight := 1 + s.LapseWeight*progress.Lapses
		if progress.IntervalDays == 0 {
			weight += s.FreshWeight
		}
		due = append(due, candidate{sentence: &sentences[i], weight: weight})
		total += weight
	}

	if len(due) == 0 {
		earliest := &sentences[0]
		for i := 1; i < len(sentences); i++ {
			if lookup(sentences[i].ID).DueDate < lookup(earliest.ID).DueDate {
				earliest = &sentences[i]
			}
		}
		return earliest, nil
	}

	r := s.rng.Float64() * float64(total)
	for _, c := range due {
		r -= float64(c.weight)
		if r <= 0 {
			return c.sentence, nil
		}
	}
	return due[len(due)-1].sentence, nil
}

// CountDue returns how many sentences are due for review as of now
func (s *Selector) CountDue(sentences []models.Sentence, lookup ProgressLookup, now time.Time) int {
	today := now.Format(models.DateLayout)
	count := 0
	for i := range sentences {
		if lookup(sentences[i].ID).DueDate <= today {
			count++
		}
	}
	return count
}
