package models

// Difficulty ratings for vocabulary entries
const (
	DifficultyKnown    = 0
	DifficultyVeryEasy = 1
	DifficultyEasy     = 2
	DifficultyMedium   = 3
	DifficultyHard     = 4

	DefaultDifficulty = DifficultyMedium
)

// ValidDifficulty reports whether d is within the supported 0-4 scale
func ValidDifficulty(d int) bool {
	return d >= DifficultyKnown && d <= DifficultyHard
}

// VocabularyEntry represents a permanently stored word in its canonical
// (lemma) form
type VocabularyEntry struct {
	Word         string     `json:"word" db:"word"`
	PartOfSpeech string     `json:"pos" db:"pos"`
	IsRegular    Regularity `json:"is_regular" db:"is_regular"`
	Translation  string     `json:"translation" db:"translation"`
	Difficulty   int        `json:"difficulty" db:"difficulty"` // 0-4 scale, 0=known
}
