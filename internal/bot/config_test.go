package bot

import (
	"testing"

	"github.com/example/phrasebot/internal/textmatch"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, "lenient", config.MatchPreset)
	assert.Equal(t, 300, config.HistoryLimit)
	assert.Equal(t, textmatch.LenientConfig(), config.MatcherConfig())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("MATCH_PRESET", "strict")
	t.Setenv("HISTORY_LIMIT", "450")
	t.Setenv("SENTENCES_PER_DAY", "15")

	config := ConfigFromEnv()
	assert.Equal(t, "strict", config.MatchPreset)
	assert.Equal(t, 450, config.HistoryLimit)
	assert.Equal(t, 15, config.DefaultSentencesPerDay)
	assert.Equal(t, textmatch.StrictConfig(), config.MatcherConfig())
}

func TestConfigFromEnvClampsAndIgnoresGarbage(t *testing.T) {
	t.Setenv("MATCH_PRESET", "medium")
	t.Setenv("HISTORY_LIMIT", "10000")
	t.Setenv("SENTENCES_PER_DAY", "-5")

	config := ConfigFromEnv()
	assert.Equal(t, "lenient", config.MatchPreset, "unknown preset falls back")
	assert.Equal(t, 500, config.HistoryLimit, "ring size is capped")
	assert.Equal(t, 20, config.DefaultSentencesPerDay)

	t.Setenv("HISTORY_LIMIT", "10")
	config = ConfigFromEnv()
	assert.Equal(t, 300, config.HistoryLimit, "ring size has a floor")
}
