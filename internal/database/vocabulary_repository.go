package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/vocabharvester/pkg/models"
)

// VocabularyRepository handles database operations for the permanent
// vocabulary store
type VocabularyRepository struct {
	db  *DB
	log *zap.SugaredLogger
}

// NewVocabularyRepository creates a new repository instance
func NewVocabularyRepository(db *DB, log *zap.SugaredLogger) *VocabularyRepository {
	return &VocabularyRepository{db: db, log: log}
}

// NormalizeWord lowercases and trims a word to its canonical stored form
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// WordExists checks if a word already exists in the vocabulary
func (r *VocabularyRepository) WordExists(word string) (bool, error) {
	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM vocab WHERE word = ?")
	if err := r.db.Get(&count, query, NormalizeWord(word)); err != nil {
		return false, fmt.Errorf("failed to check word existence: %v", err)
	}
	return count > 0, nil
}

// AddWord inserts a new word. Adding a word that already exists is a
// logged no-op, not an error: the caller may be an interactive loop
// re-submitting the same word.
func (r *VocabularyRepository) AddWord(word, pos string, isRegular models.Regularity, translation string, difficulty int) error {
	word = NormalizeWord(word)
	if word == "" {
		return fmt.Errorf("word must be non-empty")
	}
	if !models.ValidDifficulty(difficulty) {
		return fmt.Errorf("difficulty must be between %d and %d, got %d", models.DifficultyKnown, models.DifficultyHard, difficulty)
	}

	exists, err := r.WordExists(word)
	if err != nil {
		return err
	}
	if exists {
		r.log.Infow("word already exists, skipping", "word", word)
		return nil
	}

	query := r.db.Rebind(`
		INSERT INTO vocab (word, pos, is_regular, translation, difficulty)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err := r.db.Exec(query, word, nullable(pos), isRegular, nullable(translation), difficulty); err != nil {
		return fmt.Errorf("failed to add word: %v", err)
	}
	r.log.Infow("added word", "word", word, "difficulty", difficulty)
	return nil
}

// QueryOptions filters GetAll results. Difficulty is an exact match,
// Search is a substring match over word or translation; the two compose
// with AND.
type QueryOptions struct {
	Difficulty    *int
	Search        string
	CaseSensitive bool
}

// GetAll returns vocabulary entries matching the options, ordered
// ascending by word
func (r *VocabularyRepository) GetAll(opts QueryOptions) ([]models.VocabularyEntry, error) {
	query := `
		SELECT word, COALESCE(pos, '') AS pos, is_regular,
		       COALESCE(translation, '') AS translation, difficulty
		FROM vocab
	`
	var clauses []string
	var args []interface{}

	if opts.Difficulty != nil {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, *opts.Difficulty)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		if opts.CaseSensitive {
			if r.db.DriverName() == "postgres" {
				clauses = append(clauses, "(word LIKE ? OR translation LIKE ?)")
			} else {
				clauses = append(clauses, "(instr(word, ?) > 0 OR instr(translation, ?) > 0)")
				pattern = opts.Search
			}
		} else {
			if r.db.DriverName() == "postgres" {
				clauses = append(clauses, "(word ILIKE ? OR translation ILIKE ?)")
			} else {
				// SQLite's LOWER() folds ASCII only, so umlauts must be
				// folded in Go. Words are stored lowercased already;
				// translations still go through LOWER() for their
				// ASCII-cased values.
				clauses = append(clauses, "(word LIKE ? OR LOWER(translation) LIKE ?)")
				pattern = "%" + strings.ToLower(opts.Search) + "%"
			}
		}
		args = append(args, pattern, pattern)
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY word"

	words := []models.VocabularyEntry{}
	if err := r.db.Select(&words, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get words: %v", err)
	}
	return words, nil
}

// Count returns the number of vocabulary entries
func (r *VocabularyRepository) Count() (int, error) {
	var count int
	if err := r.db.Get(&count, "SELECT COUNT(*) FROM vocab"); err != nil {
		return 0, fmt.Errorf("failed to count words: %v", err)
	}
	return count, nil
}
