package spaced_repetition

import "github.com/example/phrasebot/pkg/models"

// Tunables for the adaptive level controller
const (
	// Number of attempts per accuracy window
	LevelWindowSize = 12
	// Accuracy at or above which the level is promoted one step
	PromoteAccuracy = 0.75
	// Accuracy at or below which the level is demoted one step
	DemoteAccuracy = 0.35
)

// LevelController tracks a rolling accuracy window and moves the user's
// CEFR level one step at each window boundary. Levels change only when the
// window fills, never mid-window.
type LevelController struct {
	level    models.Level
	attempts int
	correct  int
}

// NewLevelController creates a controller starting at the given level.
// Unknown levels fall back to A1.
func NewLevelController(level models.Level) *LevelController {
	if !level.IsValid() {
		level = models.LevelA1
	}
	return &LevelController{level: level}
}

// Record adds one outcome to the window. When the window fills, accuracy at
// or above PromoteAccuracy promotes one level and accuracy at or below
// DemoteAccuracy demotes one level (clamped at the ends of the scale), and
// both counters reset regardless of the outcome. Returns true when the
// window closed on this call.
func (c *LevelController) Record(correct bool) bool {
	c.attempts++
	if correct {
		c.correct++
	}

	if c.attempts < LevelWindowSize {
		return false
	}

	accuracy := float64(c.correct) / float64(c.attempts)
	switch {
	case accuracy >= PromoteAccuracy:
		c.level = c.level.Up()
	case accuracy <= DemoteAccuracy:
		c.level = c.level.Down()
	}

	c.attempts = 0
	c.correct = 0
	return true
}

// Level returns the current CEFR level
func (c *LevelController) Level() models.Level {
	return c.level
}

// Window returns the attempts and correct answers accumulated in the
// current (unfinished) window
func (c *LevelController) Window() (attempts, correct int) {
	return c.attempts, c.correct
}
