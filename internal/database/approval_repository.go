package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/example/vocabharvester/pkg/models"
)

// ApprovalRepository implements the review workflow that promotes a staged
// candidate into the vocabulary store or discards it. Every promotion runs
// in a single transaction so a partial approval is never observable.
type ApprovalRepository struct {
	db  *DB
	log *zap.SugaredLogger
}

// NewApprovalRepository creates a new repository instance
func NewApprovalRepository(db *DB, log *zap.SugaredLogger) *ApprovalRepository {
	return &ApprovalRepository{db: db, log: log}
}

// Approve promotes a staged candidate to the vocabulary store with the
// given difficulty and tags, then removes it from staging.
//
// Returns (false, nil) for the contract's soft failures: blank lemma or
// session id, no such candidate, or the word already existing in the
// vocabulary. In the already-exists case the candidate is still deleted so
// staging never accumulates orphaned duplicates.
func (r *ApprovalRepository) Approve(lemma, sessionID string, difficulty int, tags []string) (bool, error) {
	lemma = NormalizeWord(lemma)
	if lemma == "" || strings.TrimSpace(sessionID) == "" {
		return false, nil
	}
	if !models.ValidDifficulty(difficulty) {
		r.log.Warnw("invalid difficulty", "lemma", lemma, "difficulty", difficulty)
		return false, nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	var c models.StagedCandidate
	query := tx.Rebind(`
		SELECT surface_form, lemma, COALESCE(pos, '') AS pos,
		       COALESCE(translation, '') AS translation, is_regular,
		       session_id, created_at
		FROM staged_candidates
		WHERE lemma = ? AND session_id = ?
	`)
	if err := tx.Get(&c, query, lemma, sessionID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up staged candidate: %v", err)
	}

	var count int
	query = tx.Rebind("SELECT COUNT(*) FROM vocab WHERE word = ?")
	if err := tx.Get(&count, query, lemma); err != nil {
		return false, fmt.Errorf("failed to check word existence: %v", err)
	}
	if count > 0 {
		// Lost a race with another approval or a duplicate submission.
		// The candidate is cleaned up regardless, but the call reports
		// failure.
		query = tx.Rebind("DELETE FROM staged_candidates WHERE lemma = ? AND session_id = ?")
		if _, err := tx.Exec(query, lemma, sessionID); err != nil {
			return false, fmt.Errorf("failed to remove duplicate candidate: %v", err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("failed to commit: %v", err)
		}
		r.log.Warnw("word already in vocabulary, candidate discarded", "lemma", lemma, "session_id", sessionID)
		return false, nil
	}

	query = tx.Rebind(`
		INSERT INTO vocab (word, pos, is_regular, translation, difficulty)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err := tx.Exec(query, lemma, nullable(c.PartOfSpeech), c.IsRegular, nullable(c.Translation), difficulty); err != nil {
		return false, fmt.Errorf("failed to insert vocabulary entry: %v", err)
	}

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tagID, err := getOrCreateTag(tx, tag)
		if err != nil {
			return false, err
		}
		query = tx.Rebind("INSERT INTO word_tags (word, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING")
		if _, err := tx.Exec(query, lemma, tagID); err != nil {
			return false, fmt.Errorf("failed to tag word: %v", err)
		}
	}

	query = tx.Rebind("DELETE FROM staged_candidates WHERE lemma = ? AND session_id = ?")
	if _, err := tx.Exec(query, lemma, sessionID); err != nil {
		return false, fmt.Errorf("failed to remove staged candidate: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit approval: %v", err)
	}
	r.log.Infow("approved word", "lemma", lemma, "session_id", sessionID, "difficulty", difficulty, "tags", tags)
	return true, nil
}

// Reject deletes a staged candidate without touching the vocabulary store.
// Returns (false, nil) when the candidate is absent or the keys are blank.
func (r *ApprovalRepository) Reject(lemma, sessionID string) (bool, error) {
	lemma = NormalizeWord(lemma)
	if lemma == "" || strings.TrimSpace(sessionID) == "" {
		return false, nil
	}

	query := r.db.Rebind("DELETE FROM staged_candidates WHERE lemma = ? AND session_id = ?")
	res, err := r.db.Exec(query, lemma, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to reject candidate: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %v", err)
	}
	if n == 0 {
		return false, nil
	}
	r.log.Infow("rejected word", "lemma", lemma, "session_id", sessionID)
	return true, nil
}

// getOrCreateTag is the transactional twin of TagRepository.Create
func getOrCreateTag(tx *sqlx.Tx, name string) (int64, error) {
	var id int64
	query := tx.Rebind("SELECT tag_id FROM tags WHERE tag_name = ?")
	err := tx.Get(&id, query, name)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up tag: %v", err)
	}

	query = tx.Rebind("INSERT INTO tags (tag_name, description) VALUES (?, NULL)")
	res, err := tx.Exec(query, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create tag: %v", err)
	}
	if tx.DriverName() == "postgres" {
		if err := tx.Get(&id, tx.Rebind("SELECT tag_id FROM tags WHERE tag_name = ?"), name); err != nil {
			return 0, fmt.Errorf("failed to look up created tag: %v", err)
		}
		return id, nil
	}
	return res.LastInsertId()
}
