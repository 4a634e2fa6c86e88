package models

// Level is a CEFR proficiency level on the ordered scale A1 < A2 < B1 < B2 < C1
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
)

var levelScale = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1}

// IsValid reports whether the level is one of the known CEFR levels
func (l Level) IsValid() bool {
	for _, known := range levelScale {
		if l == known {
			return true
		}
	}
	return false
}

// Up returns the next level on the scale, staying at C1 when already there
func (l Level) Up() Level {
	for i, known := range levelScale {
		if l == known {
			if i == len(levelScale)-1 {
				return l
			}
			return levelScale[i+1]
		}
	}
	return LevelA1
}

// Down returns the previous level on the scale, staying at A1 when already there
func (l Level) Down() Level {
	for i, known := range levelScale {
		if l == known {
			if i == 0 {
				return l
			}
			return levelScale[i-1]
		}
	}
	return LevelA1
}
