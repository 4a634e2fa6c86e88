package textmatch

import (
	"math"
	"strings"
)

// Config controls how tolerant the matcher is
type Config struct {
	// Minimum fraction of reference tokens that must also appear in the answer
	TokenOverlapThreshold float64
	// Allowed edit distance as a fraction of the reference length
	EditDistanceTolerance float64
}

// LenientConfig returns the default threshold pair (token overlap 0.40,
// edit distance 0.30)
func LenientConfig() Config {
	return Config{
		TokenOverlapThreshold: 0.40,
		EditDistanceTolerance: 0.30,
	}
}

// StrictConfig returns the tighter threshold pair (token overlap 0.55,
// edit distance 0.18)
func StrictConfig() Config {
	return Config{
		TokenOverlapThreshold: 0.55,
		EditDistanceTolerance: 0.18,
	}
}

// Matcher decides whether a free-text translation is close enough to the
// reference. Strict equality would punish harmless phrasing differences, so
// the decision runs through three increasingly expensive checks: exact match
// on normalized text, token overlap, then edit distance.
type Matcher struct {
	config Config
}

// NewMatcher creates a matcher with the given thresholds
func NewMatcher(config Config) *Matcher {
	return &Matcher{config: config}
}

// IsAcceptable reports whether userText is an acceptable translation given
// referenceText. An answer that normalizes to empty never matches.
func (m *Matcher) IsAcceptable(userText, referenceText string) bool {
	user := Normalize(userText)
	reference := Normalize(referenceText)

	if user == "" {
		return false
	}
	if user == reference {
		return true
	}

	if m.tokenOverlap(user, reference) >= m.config.TokenOverlapThreshold {
		return true
	}

	maxDist := int(math.Ceil(float64(len([]rune(reference))) * m.config.EditDistanceTolerance))
	return Levenshtein(user, reference) <= maxDist
}

// tokenOverlap is the fraction of reference tokens covered by answer tokens.
// A user token counts if it appears anywhere in the reference, regardless of
// position or multiplicity.
func (m *Matcher) tokenOverlap(user, reference string) float64 {
	userTokens := strings.Split(user, " ")
	referenceTokens := strings.Split(reference, " ")

	referenceSet := make(map[string]struct{}, len(referenceTokens))
	for _, t := range referenceTokens {
		referenceSet[t] = struct{}{}
	}

	common := 0
	for _, t := range userTokens {
		if _, ok := referenceSet[t]; ok {
			common++
		}
	}

	denom := len(referenceTokens)
	if denom == 0 {
		denom = 1
	}
	return float64(common) / float64(denom)
}
