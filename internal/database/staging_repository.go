package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/vocabharvester/pkg/models"
)

// StagingRepository handles the ephemeral, session-partitioned staging
// table of candidates awaiting review
type StagingRepository struct {
	db  *DB
	log *zap.SugaredLogger
}

// NewStagingRepository creates a new repository instance
func NewStagingRepository(db *DB, log *zap.SugaredLogger) *StagingRepository {
	return &StagingRepository{db: db, log: log}
}

// Add upserts a candidate on its (lemma, session) key. Restaging the same
// lemma in a session overwrites the prior fields instead of erroring; the
// original creation time is kept so display order stays stable.
func (r *StagingRepository) Add(c models.StagedCandidate) error {
	c.Lemma = NormalizeWord(c.Lemma)
	if c.Lemma == "" {
		return fmt.Errorf("lemma must be non-empty")
	}
	if strings.TrimSpace(c.SessionID) == "" {
		return fmt.Errorf("session id must be non-empty")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO staged_candidates (surface_form, lemma, pos, translation, is_regular, session_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (lemma, session_id) DO UPDATE SET
			surface_form = excluded.surface_form,
			pos = excluded.pos,
			translation = excluded.translation,
			is_regular = excluded.is_regular
	`)
	_, err := r.db.Exec(query, c.SurfaceForm, c.Lemma, nullable(c.PartOfSpeech), nullable(c.Translation), c.IsRegular, c.SessionID, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to stage candidate: %v", err)
	}
	return nil
}

// Candidates returns staged candidates in creation order. An empty
// sessionID returns candidates across all sessions.
func (r *StagingRepository) Candidates(sessionID string) ([]models.StagedCandidate, error) {
	query := `
		SELECT surface_form, lemma, COALESCE(pos, '') AS pos,
		       COALESCE(translation, '') AS translation, is_regular,
		       session_id, created_at
		FROM staged_candidates
	`
	var args []interface{}
	if sessionID != "" {
		query += " WHERE session_id = ?"
		args = append(args, sessionID)
	}
	query += " ORDER BY created_at"

	candidates := []models.StagedCandidate{}
	if err := r.db.Select(&candidates, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get staged candidates: %v", err)
	}
	return candidates, nil
}

// Exists checks whether a surface form was already staged in a session.
// The pipeline uses this to avoid restaging a token it has seen earlier in
// the same batch run.
func (r *StagingRepository) Exists(surfaceForm, sessionID string) (bool, error) {
	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM staged_candidates WHERE surface_form = ? AND session_id = ?")
	if err := r.db.Get(&count, query, surfaceForm, sessionID); err != nil {
		return false, fmt.Errorf("failed to check staged candidate: %v", err)
	}
	return count > 0, nil
}

// Remove deletes one candidate by lemma, returning false when no matching
// row exists
func (r *StagingRepository) Remove(lemma, sessionID string) (bool, error) {
	query := r.db.Rebind("DELETE FROM staged_candidates WHERE lemma = ? AND session_id = ?")
	res, err := r.db.Exec(query, NormalizeWord(lemma), sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to remove staged candidate: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %v", err)
	}
	return n > 0, nil
}

// ClearSession deletes every candidate of a session and returns the count
// removed. Clearing an empty or unknown session returns 0 and is never an
// error.
func (r *StagingRepository) ClearSession(sessionID string) (int, error) {
	query := r.db.Rebind("DELETE FROM staged_candidates WHERE session_id = ?")
	res, err := r.db.Exec(query, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear session: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %v", err)
	}
	if n > 0 {
		r.log.Infow("cleared session staging data", "session_id", sessionID, "removed", n)
	}
	return int(n), nil
}

// SessionCount returns how many candidates a session currently holds
func (r *StagingRepository) SessionCount(sessionID string) (int, error) {
	var count int
	query := r.db.Rebind("SELECT COUNT(*) FROM staged_candidates WHERE session_id = ?")
	if err := r.db.Get(&count, query, sessionID); err != nil {
		return 0, fmt.Errorf("failed to count session candidates: %v", err)
	}
	return count, nil
}

// SessionSummaries returns one aggregate row per distinct session with
// staged candidates, ordered by when each session first staged a word
func (r *StagingRepository) SessionSummaries() ([]models.SessionSummary, error) {
	candidates, err := r.Candidates("")
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.SessionSummary)
	order := []string{}
	for _, c := range candidates {
		s, ok := byID[c.SessionID]
		if !ok {
			s = &models.SessionSummary{SessionID: c.SessionID, EarliestCreatedAt: c.CreatedAt}
			byID[c.SessionID] = s
			order = append(order, c.SessionID)
		}
		s.WordCount++
	}

	// candidates arrive in creation order, so first sight of a session is
	// its earliest entry
	summaries := make([]models.SessionSummary, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, *byID[id])
	}
	return summaries, nil
}
