package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/example/vocabharvester/pkg/models"
)

// TagRepository handles database operations for tags and their
// word associations
type TagRepository struct {
	db  *DB
	log *zap.SugaredLogger
}

// NewTagRepository creates a new repository instance
func NewTagRepository(db *DB, log *zap.SugaredLogger) *TagRepository {
	return &TagRepository{db: db, log: log}
}

// isUniqueViolation returns true when the error indicates a
// unique/constraint violation on either driver
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// Create inserts a tag by name, returning the existing id if the name is
// already taken. Safe against a concurrent creation of the same name: the
// unique constraint decides the winner and the loser falls back to a
// lookup.
func (r *TagRepository) Create(name, description string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("tag name must be non-empty")
	}

	query := r.db.Rebind("INSERT INTO tags (tag_name, description) VALUES (?, ?)")
	res, err := r.db.Exec(query, name, nullable(description))
	if err != nil {
		if isUniqueViolation(err) {
			id, found, err := r.idByName(name)
			if err != nil {
				return 0, err
			}
			if !found {
				return 0, fmt.Errorf("failed to create tag %q: lost conflict but no existing row", name)
			}
			return id, nil
		}
		return 0, fmt.Errorf("failed to create tag: %v", err)
	}

	if r.db.DriverName() == "postgres" {
		// lib/pq does not support LastInsertId
		id, found, err := r.idByName(name)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, fmt.Errorf("failed to create tag %q: inserted row not found", name)
		}
		return id, nil
	}
	return res.LastInsertId()
}

// idByName looks up a tag id, reporting absence without error
func (r *TagRepository) idByName(name string) (int64, bool, error) {
	var id int64
	query := r.db.Rebind("SELECT tag_id FROM tags WHERE tag_name = ?")
	err := r.db.Get(&id, query, name)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up tag: %v", err)
	}
	return id, true, nil
}

// AddToWord attaches a tag to a word, creating the tag on demand.
// Returns false if the word does not exist; tagging a word twice with the
// same tag is reported but still succeeds.
func (r *TagRepository) AddToWord(word, tagName string) (bool, error) {
	word = NormalizeWord(word)

	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM vocab WHERE word = ?")
	if err := r.db.Get(&count, query, word); err != nil {
		return false, fmt.Errorf("failed to check word existence: %v", err)
	}
	if count == 0 {
		r.log.Warnw("cannot tag missing word", "word", word, "tag", tagName)
		return false, nil
	}

	tagID, err := r.Create(tagName, "")
	if err != nil {
		return false, err
	}

	query = r.db.Rebind("INSERT INTO word_tags (word, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING")
	res, err := r.db.Exec(query, word, tagID)
	if err != nil {
		return false, fmt.Errorf("failed to tag word: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		r.log.Infow("word already has tag", "word", word, "tag", tagName)
	}
	return true, nil
}

// RemoveFromWord detaches a tag from a word. Returns false if the tag does
// not exist or the word does not carry it.
func (r *TagRepository) RemoveFromWord(word, tagName string) (bool, error) {
	tagID, found, err := r.idByName(strings.TrimSpace(tagName))
	if err != nil {
		return false, err
	}
	if !found {
		r.log.Warnw("tag does not exist", "tag", tagName)
		return false, nil
	}

	query := r.db.Rebind("DELETE FROM word_tags WHERE word = ? AND tag_id = ?")
	res, err := r.db.Exec(query, NormalizeWord(word), tagID)
	if err != nil {
		return false, fmt.Errorf("failed to remove tag from word: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %v", err)
	}
	return n > 0, nil
}

// WordTags returns all tags attached to a word
func (r *TagRepository) WordTags(word string) ([]models.Tag, error) {
	tags := []models.Tag{}
	query := r.db.Rebind(`
		SELECT t.tag_id, t.tag_name, COALESCE(t.description, '') AS description
		FROM tags t
		JOIN word_tags wt ON t.tag_id = wt.tag_id
		WHERE wt.word = ?
		ORDER BY t.tag_id
	`)
	if err := r.db.Select(&tags, query, NormalizeWord(word)); err != nil {
		return nil, fmt.Errorf("failed to get word tags: %v", err)
	}
	return tags, nil
}

// WordsWithTag returns all vocabulary entries carrying the given tag,
// ordered by word
func (r *TagRepository) WordsWithTag(tagName string) ([]models.VocabularyEntry, error) {
	words := []models.VocabularyEntry{}
	query := r.db.Rebind(`
		SELECT v.word, COALESCE(v.pos, '') AS pos, v.is_regular,
		       COALESCE(v.translation, '') AS translation, v.difficulty
		FROM vocab v
		JOIN word_tags wt ON v.word = wt.word
		JOIN tags t ON wt.tag_id = t.tag_id
		WHERE t.tag_name = ?
		ORDER BY v.word
	`)
	if err := r.db.Select(&words, query, strings.TrimSpace(tagName)); err != nil {
		return nil, fmt.Errorf("failed to get words with tag: %v", err)
	}
	return words, nil
}

// ListAll returns every tag in alphabetical order
func (r *TagRepository) ListAll() ([]models.Tag, error) {
	tags := []models.Tag{}
	query := "SELECT tag_id, tag_name, COALESCE(description, '') AS description FROM tags ORDER BY tag_name"
	if err := r.db.Select(&tags, query); err != nil {
		return nil, fmt.Errorf("failed to list tags: %v", err)
	}
	return tags, nil
}

// Delete removes a tag and cascades removal of its word associations.
// Returns false if the tag does not exist.
func (r *TagRepository) Delete(tagName string) (bool, error) {
	tagID, found, err := r.idByName(strings.TrimSpace(tagName))
	if err != nil {
		return false, err
	}
	if !found {
		r.log.Warnw("tag does not exist", "tag", tagName)
		return false, nil
	}

	query := r.db.Rebind("DELETE FROM tags WHERE tag_id = ?")
	if _, err := r.db.Exec(query, tagID); err != nil {
		return false, fmt.Errorf("failed to delete tag: %v", err)
	}
	r.log.Infow("deleted tag and its associations", "tag", tagName)
	return true, nil
}
