package bot

import (
	"os"
	"strconv"

	"github.com/example/phrasebot/internal/textmatch"
	"github.com/example/phrasebot/internal/trainer"
)

// DrillConfig holds the tunables of the review loop
type DrillConfig struct {
	// Matcher preset name: "lenient" (default) or "strict"
	MatchPreset string
	// Ring size of the attempt history, clamped to [300, 500]
	HistoryLimit int
	// Default daily quota advertised in reminders
	DefaultSentencesPerDay int
}

// DefaultConfig returns the default drill configuration
func DefaultConfig() *DrillConfig {
	return &DrillConfig{
		MatchPreset:            "lenient",
		HistoryLimit:           trainer.DefaultHistoryLimit,
		DefaultSentencesPerDay: 20,
	}
}

// ConfigFromEnv builds the configuration from environment variables,
// falling back to defaults for anything unset or invalid
func ConfigFromEnv() *DrillConfig {
	config := DefaultConfig()

	if preset := os.Getenv("MATCH_PRESET"); preset == "strict" || preset == "lenient" {
		config.MatchPreset = preset
	}

	if raw := os.Getenv("HISTORY_LIMIT"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			if limit < trainer.DefaultHistoryLimit {
				limit = trainer.DefaultHistoryLimit
			}
			if limit > trainer.MaxHistoryLimit {
				limit = trainer.MaxHistoryLimit
			}
			config.HistoryLimit = limit
		}
	}

	if raw := os.Getenv("SENTENCES_PER_DAY"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			config.DefaultSentencesPerDay = n
		}
	}

	return config
}

// MatcherConfig returns the threshold pair for the configured preset
func (c *DrillConfig) MatcherConfig() textmatch.Config {
	if c.MatchPreset == "strict" {
		return textmatch.StrictConfig()
	}
	return textmatch.LenientConfig()
}
