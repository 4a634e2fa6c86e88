package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/example/phrasebot/internal/database"
	"github.com/example/phrasebot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	calls map[int64]int // userID -> last advertised due count
}

func (n *fakeNotifier) SendReminders(userID int64, dueCount int) error {
	if n.calls == nil {
		n.calls = make(map[int64]int)
	}
	n.calls[userID] = dueCount
	return nil
}

func setupTestDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_PATH", ":memory:")
	require.NoError(t, database.Connect())
	t.Cleanup(func() {
		_ = database.Close()
		database.DB = nil
	})
}

func TestHourFromEnv(t *testing.T) {
	t.Setenv("TEST_HOUR", "")
	assert.Equal(t, 8, hourFromEnv("TEST_HOUR", 8))

	t.Setenv("TEST_HOUR", "21")
	assert.Equal(t, 21, hourFromEnv("TEST_HOUR", 8))

	t.Setenv("TEST_HOUR", "25")
	assert.Equal(t, 8, hourFromEnv("TEST_HOUR", 8), "out-of-range hours fall back")

	t.Setenv("TEST_HOUR", "night")
	assert.Equal(t, 8, hourFromEnv("TEST_HOUR", 8))
}

func TestRunManualCheck(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	sentence := &models.Sentence{EnglishText: "One", Translation: "Um"}
	require.NoError(t, database.NewSentenceRepository().Create(ctx, sentence))

	progressRepo := database.NewProgressRepository()
	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateLayout)
	require.NoError(t, progressRepo.Save(ctx, &models.Progress{
		UserID: 7, SentenceID: sentence.ID, EaseFactor: 2.5, DueDate: yesterday,
	}))

	notifier := &fakeNotifier{}
	s := New(notifier)

	require.NoError(t, s.RunManualCheck(7))
	assert.Equal(t, 1, notifier.calls[7])

	// A user with nothing due gets no reminder
	require.NoError(t, s.RunManualCheck(8))
	_, called := notifier.calls[8]
	assert.False(t, called)
}
