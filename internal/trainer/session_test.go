package trainer

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/example/phrasebot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repositories for driving sessions without a database

type fakeProgressRepo struct {
	entries map[int64]models.Progress // keyed by sentence ID
	loadErr error
	saveErr error
	saves   int
	resets  int
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{entries: make(map[int64]models.Progress)}
}

func (r *fakeProgressRepo) GetByUser(_ context.Context, _ int64) ([]models.Progress, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	var out []models.Progress
	for _, p := range r.entries {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProgressRepo) Save(_ context.Context, p *models.Progress) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.entries[p.SentenceID] = *p
	r.saves++
	return nil
}

func (r *fakeProgressRepo) DeleteByUser(_ context.Context, _ int64) error {
	r.entries = make(map[int64]models.Progress)
	r.resets++
	return nil
}

type fakeHistoryRepo struct {
	entries   []models.HistoryEntry
	appendErr error
}

func (r *fakeHistoryRepo) Append(_ context.Context, e *models.HistoryEntry) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeHistoryRepo) Recent(_ context.Context, _ int64, limit int) ([]models.HistoryEntry, error) {
	var out []models.HistoryEntry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *fakeHistoryRepo) DeleteByUser(_ context.Context, _ int64) error {
	r.entries = nil
	return nil
}

var sessionNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func testSentences() []models.Sentence {
	return []models.Sentence{
		{ID: 1, EnglishText: "I am going to the market", Translation: "Eu vou ao mercado", Level: models.LevelA1},
		{ID: 2, EnglishText: "Thank you very much", Translation: "Muito obrigado", Level: models.LevelA1},
	}
}

func newTestSession(progressRepo ProgressRepository, historyRepo HistoryRepository) *Session {
	return NewSession(context.Background(), 7, models.LevelA1, testSentences(), progressRepo, historyRepo, Options{
		Rand: rand.New(rand.NewSource(1)),
		Now:  func() time.Time { return sessionNow },
	})
}

func TestSessionAnswerCorrect(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	historyRepo := &fakeHistoryRepo{}
	s := newTestSession(progressRepo, historyRepo)

	assert.Equal(t, 2, s.DueCount(), "fresh sentences are all due")

	answers := map[int64]string{
		1: "eu vou ao mercado!",
		2: "MUITO OBRIGADO",
	}

	sentence, err := s.Next()
	require.NoError(t, err)
	require.NotNil(t, s.Current())

	// Diacritics, case and punctuation do not matter
	outcome, err := s.Answer(context.Background(), answers[sentence.ID])
	require.NoError(t, err)
	assert.True(t, outcome.WasCorrect)
	assert.False(t, outcome.WasSkipped)
	assert.Equal(t, "2024-03-11", outcome.DueDate, "first correct answer schedules one day out")
	assert.Nil(t, s.Current(), "grading clears the current sentence")

	assert.Equal(t, 1, progressRepo.saves)
	require.Len(t, historyRepo.entries, 1)
	assert.True(t, historyRepo.entries[0].Correct)
	assert.Equal(t, sentence.EnglishText, historyRepo.entries[0].EnglishText)
}

func TestSessionAnswerWrong(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	historyRepo := &fakeHistoryRepo{}
	s := newTestSession(progressRepo, historyRepo)

	sentence, err := s.Next()
	require.NoError(t, err)

	outcome, err := s.Answer(context.Background(), "completely unrelated words here")
	require.NoError(t, err)
	assert.False(t, outcome.WasCorrect)
	assert.Equal(t, sentence.Translation, outcome.Expected)
	assert.Equal(t, "2024-03-10", outcome.DueDate, "lapses stay due today")

	saved := progressRepo.entries[sentence.ID]
	assert.Equal(t, 1, saved.Lapses)
	assert.Equal(t, 0, saved.Repetitions)
}

func TestSessionSkipCountsAsLapse(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	historyRepo := &fakeHistoryRepo{}
	s := newTestSession(progressRepo, historyRepo)

	sentence, err := s.Next()
	require.NoError(t, err)

	outcome, err := s.Skip(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.WasSkipped)
	assert.False(t, outcome.WasCorrect)

	saved := progressRepo.entries[sentence.ID]
	assert.Equal(t, 1, saved.Lapses)

	require.Len(t, historyRepo.entries, 1)
	assert.True(t, historyRepo.entries[0].Skipped)
	assert.Empty(t, historyRepo.entries[0].UserAnswer)
}

func TestSessionAnswerWithoutCurrent(t *testing.T) {
	s := newTestSession(newFakeProgressRepo(), &fakeHistoryRepo{})

	_, err := s.Answer(context.Background(), "anything")
	assert.Error(t, err)
	_, err = s.Skip(context.Background())
	assert.Error(t, err)
}

func TestSessionHydratesPersistedProgress(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	progressRepo.entries[1] = models.Progress{
		UserID: 7, SentenceID: 1, Repetitions: 2, EaseFactor: 2.56,
		IntervalDays: 3, DueDate: "2024-04-01",
	}
	s := newTestSession(progressRepo, &fakeHistoryRepo{})

	// Sentence 1 is scheduled out; only sentence 2 is due
	assert.Equal(t, 1, s.DueCount())

	sentence, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(2), sentence.ID)
}

func TestSessionStartsEmptyWhenLoadFails(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	progressRepo.loadErr = fmt.Errorf("connection refused")
	s := newTestSession(progressRepo, &fakeHistoryRepo{})

	// Load failure degrades to a fresh store; the session still works
	assert.Equal(t, 2, s.DueCount())
	_, err := s.Next()
	require.NoError(t, err)
}

func TestSessionSurvivesPersistenceFailures(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	progressRepo.saveErr = fmt.Errorf("disk full")
	historyRepo := &fakeHistoryRepo{appendErr: fmt.Errorf("disk full")}
	s := newTestSession(progressRepo, historyRepo)

	_, err := s.Next()
	require.NoError(t, err)

	// The answer is still graded and the in-memory schedule still advances
	outcome, err := s.Answer(context.Background(), "eu vou ao mercado")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Empty(t, historyRepo.entries)
}

func TestSessionLevelWindow(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	s := newTestSession(progressRepo, &fakeHistoryRepo{})

	answers := map[int64]string{
		1: "eu vou ao mercado",
		2: "muito obrigado",
	}

	var last *Outcome
	for i := 0; i < 12; i++ {
		sentence, err := s.Next()
		require.NoError(t, err)
		last, err = s.Answer(context.Background(), answers[sentence.ID])
		require.NoError(t, err)
		if i < 11 {
			assert.False(t, last.LevelChanged)
			assert.Equal(t, models.LevelA1, last.Level)
		}
	}

	// 12/12 correct closes the window and promotes
	assert.True(t, last.LevelChanged)
	assert.Equal(t, models.LevelA2, last.Level)
	assert.Equal(t, models.LevelA2, s.Level())

	attempts, correct := s.Window()
	assert.Equal(t, 0, attempts)
	assert.Equal(t, 0, correct)
}

func TestSessionReset(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	historyRepo := &fakeHistoryRepo{}
	s := newTestSession(progressRepo, historyRepo)

	_, err := s.Next()
	require.NoError(t, err)
	_, err = s.Answer(context.Background(), "muito obrigado")
	require.NoError(t, err)

	require.NoError(t, s.Reset(context.Background()))

	assert.Equal(t, 1, progressRepo.resets)
	assert.Empty(t, progressRepo.entries)
	assert.Empty(t, historyRepo.entries)
	assert.Nil(t, s.Current())
	assert.Equal(t, 2, s.DueCount(), "every sentence is due again after a reset")
}

func TestSessionHistoryNewestFirst(t *testing.T) {
	progressRepo := newFakeProgressRepo()
	historyRepo := &fakeHistoryRepo{}
	s := newTestSession(progressRepo, historyRepo)

	for i := 0; i < 3; i++ {
		_, err := s.Next()
		require.NoError(t, err)
		_, err = s.Skip(context.Background())
		require.NoError(t, err)
	}

	recent, err := s.History(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, historyRepo.entries[2].SentenceID, recent[0].SentenceID)
}
