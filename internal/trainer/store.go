package trainer

import (
	"time"

	"github.com/example/phrasebot/pkg/models"
)

// Defaults for entries created on first encounter
const (
	defaultEaseFactor = 2.5
)

// ProgressStore maps sentence IDs to scheduling state for a single user.
// Entries are created lazily on first lookup and never deleted except by a
// full reset. All access happens from one update flow at a time; the store
// itself does no locking.
type ProgressStore struct {
	userID  int64
	entries map[int64]*models.Progress
	now     func() time.Time
}

// NewProgressStore creates an empty store for the user
func NewProgressStore(userID int64, now func() time.Time) *ProgressStore {
	if now == nil {
		now = time.Now
	}
	return &ProgressStore{
		userID:  userID,
		entries: make(map[int64]*models.Progress),
		now:     now,
	}
}

// Get returns the entry for a sentence, creating a default one (ease 2.5,
// due today) if the sentence has never been seen
func (s *ProgressStore) Get(sentenceID int64) *models.Progress {
	if p, ok := s.entries[sentenceID]; ok {
		return p
	}
	p := &models.Progress{
		UserID:     s.userID,
		SentenceID: sentenceID,
		EaseFactor: defaultEaseFactor,
		DueDate:    s.now().Format(models.DateLayout),
	}
	s.entries[sentenceID] = p
	return p
}

// Hydrate loads persisted entries into the store. Each field of a restored
// entry is defaulted independently, so partial rows from older versions
// never break the session.
func (s *ProgressStore) Hydrate(entries []models.Progress) {
	for i := range entries {
		p := entries[i]
		if p.SentenceID == 0 {
			continue
		}
		if p.EaseFactor < 1.3 {
			p.EaseFactor = defaultEaseFactor
		}
		if p.Repetitions < 0 {
			p.Repetitions = 0
		}
		if p.IntervalDays < 0 {
			p.IntervalDays = 0
		}
		if p.Lapses < 0 {
			p.Lapses = 0
		}
		if _, err := time.Parse(models.DateLayout, p.DueDate); err != nil {
			p.DueDate = s.now().Format(models.DateLayout)
		}
		s.entries[p.SentenceID] = &p
	}
}

// All returns every entry in the store
func (s *ProgressStore) All() []*models.Progress {
	all := make([]*models.Progress, 0, len(s.entries))
	for _, p := range s.entries {
		all = append(all, p)
	}
	return all
}

// Len returns the number of entries
func (s *ProgressStore) Len() int {
	return len(s.entries)
}

// Reset drops every entry
func (s *ProgressStore) Reset() {
	s.entries = make(map[int64]*models.Progress)
}
