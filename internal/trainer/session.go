package trainer

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/example/phrasebot/internal/spaced_repetition"
	"github.com/example/phrasebot/internal/textmatch"
	"github.com/example/phrasebot/pkg/models"
)

// Outcome is what the front end needs to render feedback after an answer
// or a skip
type Outcome struct {
	WasCorrect   bool
	WasSkipped   bool
	Expected     string       // Reference translation
	DueDate      string       // Updated due date of the sentence
	Level        models.Level // Level after this attempt
	LevelChanged bool         // True when the accuracy window closed and moved the level
}

// Options configures a session
type Options struct {
	Matcher      textmatch.Config
	HistoryLimit int
	Rand         *rand.Rand       // Source for the queue selector; defaults to a time-seeded one
	Now          func() time.Time // Clock override for tests
}

// Session drives one user's review loop: it picks due sentences, scores
// free-text answers against the reference translation and reschedules the
// sentence. All state is held here instead of in package globals, so
// concurrent users each get their own session.
type Session struct {
	userID       int64
	sentences    []models.Sentence
	store        *ProgressStore
	matcher      *textmatch.Matcher
	srs          *spaced_repetition.SRS
	selector     *spaced_repetition.Selector
	levels       *spaced_repetition.LevelController
	progressRepo ProgressRepository
	historyRepo  HistoryRepository
	historyLimit int
	current      *models.Sentence
	now          func() time.Time
}

// NewSession builds a session for the user over a fixed sentence set. The
// persisted progress is hydrated from the repository; when loading fails the
// session starts from an empty store rather than failing, and every sentence
// gets a default entry on its first encounter.
func NewSession(ctx context.Context, userID int64, level models.Level, sentences []models.Sentence,
	progressRepo ProgressRepository, historyRepo HistoryRepository, opts Options) *Session {

	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Now().UnixNano()))
	}
	if opts.Matcher == (textmatch.Config{}) {
		opts.Matcher = textmatch.LenientConfig()
	}
	if opts.HistoryLimit == 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}

	store := NewProgressStore(userID, opts.Now)
	persisted, err := progressRepo.GetByUser(ctx, userID)
	if err != nil {
		log.Printf("Failed to load progress for user %d, starting empty: %v", userID, err)
	} else {
		store.Hydrate(persisted)
	}
	for i := range sentences {
		store.Get(sentences[i].ID)
	}

	return &Session{
		userID:       userID,
		sentences:    sentences,
		store:        store,
		matcher:      textmatch.NewMatcher(opts.Matcher),
		srs:          spaced_repetition.New(),
		selector:     spaced_repetition.NewSelector(opts.Rand),
		levels:       spaced_repetition.NewLevelController(level),
		progressRepo: progressRepo,
		historyRepo:  historyRepo,
		historyLimit: opts.HistoryLimit,
		now:          opts.Now,
	}
}

// Next picks the sentence to present and makes it current
func (s *Session) Next() (*models.Sentence, error) {
	if len(s.sentences) == 0 {
		return nil, fmt.Errorf("no sentences loaded for user %d", s.userID)
	}
	sentence, err := s.selector.Next(s.sentences, s.store.Get, s.now())
	if err != nil {
		return nil, err
	}
	s.current = sentence
	return sentence, nil
}

// Current returns the sentence being reviewed, or nil between reviews
func (s *Session) Current() *models.Sentence {
	return s.current
}

// Answer scores the user's translation of the current sentence and
// reschedules it
func (s *Session) Answer(ctx context.Context, text string) (*Outcome, error) {
	if s.current == nil {
		return nil, fmt.Errorf("no sentence is being reviewed")
	}
	correct := s.matcher.IsAcceptable(text, s.current.Translation)
	return s.grade(ctx, text, correct, false), nil
}

// Skip scores the current sentence as a lapse without an answer
func (s *Session) Skip(ctx context.Context) (*Outcome, error) {
	if s.current == nil {
		return nil, fmt.Errorf("no sentence is being reviewed")
	}
	return s.grade(ctx, "", false, true), nil
}

// grade applies the outcome to the schedule, the adaptive level window and
// the history log. Persistence failures degrade to "not saved this round"
// so the review session is never interrupted.
func (s *Session) grade(ctx context.Context, userAnswer string, correct, skipped bool) *Outcome {
	sentence := s.current
	progress := s.store.Get(sentence.ID)
	now := s.now()

	s.srs.Apply(progress, correct, now)
	levelChanged := s.levels.Record(correct)

	if err := s.progressRepo.Save(ctx, progress); err != nil {
		log.Printf("Progress for user %d not saved this round: %v", s.userID, err)
	}

	entry := &models.HistoryEntry{
		UserID:      s.userID,
		SentenceID:  sentence.ID,
		EnglishText: sentence.EnglishText,
		UserAnswer:  userAnswer,
		Expected:    sentence.Translation,
		Correct:     correct,
		Skipped:     skipped,
		CreatedAt:   now,
	}
	if err := s.historyRepo.Append(ctx, entry); err != nil {
		log.Printf("History for user %d not saved this round: %v", s.userID, err)
	}

	s.current = nil

	return &Outcome{
		WasCorrect:   correct,
		WasSkipped:   skipped,
		Expected:     sentence.Translation,
		DueDate:      progress.DueDate,
		Level:        s.levels.Level(),
		LevelChanged: levelChanged,
	}
}

// DueCount returns how many sentences are due for review right now
func (s *Session) DueCount() int {
	return s.selector.CountDue(s.sentences, s.store.Get, s.now())
}

// Total returns the size of the sentence set
func (s *Session) Total() int {
	return len(s.sentences)
}

// Level returns the current CEFR level
func (s *Session) Level() models.Level {
	return s.levels.Level()
}

// Window returns the fill of the current accuracy window
func (s *Session) Window() (attempts, correct int) {
	return s.levels.Window()
}

// History returns the user's most recent attempts, newest first
func (s *Session) History(ctx context.Context) ([]models.HistoryEntry, error) {
	return s.historyRepo.Recent(ctx, s.userID, s.historyLimit)
}

// Reset wipes the user's progress and history, in storage and in memory.
// This is the only path that deletes schedule entries.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.progressRepo.DeleteByUser(ctx, s.userID); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	if err := s.historyRepo.DeleteByUser(ctx, s.userID); err != nil {
		return fmt.Errorf("failed to reset history: %w", err)
	}
	s.store.Reset()
	for i := range s.sentences {
		s.store.Get(s.sentences[i].ID)
	}
	s.current = nil
	return nil
}
