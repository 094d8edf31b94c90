package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/vocabharvester/internal/database"
	"github.com/example/vocabharvester/internal/pipeline"
	"github.com/example/vocabharvester/pkg/models"
)

// textPreviewLimit bounds the lossy preview stored in the durable record
const textPreviewLimit = 200

// TextProcessor is the pipeline collaborator. Given cleaned text and a
// session id it tokenizes, lemmatizes, filters known words, translates and
// writes candidates to the staging store. A nil result with a nil error
// means the input contained nothing processable.
type TextProcessor interface {
	Process(ctx context.Context, text, sessionID string) (*models.ProcessingResult, error)
}

// ProcessingSession owns the identity, status and statistics of one batch
// processing run. Its metadata is durable and survives process restarts
// independent of the staging store's contents.
type ProcessingSession struct {
	mu sync.Mutex

	id           string
	status       models.SessionStatus
	createdAt    time.Time
	completedAt  *time.Time
	errorMessage string
	stats        models.Statistics
	cleanedText  string

	store     *FileStore
	staging   *database.StagingRepository
	processor TextProcessor
	log       *zap.SugaredLogger
}

// newSessionID builds a human-inspectable unique id:
// session_<timestamp>_<random suffix>
func newSessionID() string {
	return fmt.Sprintf("session_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
}

// NewSession creates a session in the Created state
func NewSession(store *FileStore, staging *database.StagingRepository, processor TextProcessor, log *zap.SugaredLogger) *ProcessingSession {
	return &ProcessingSession{
		id:        newSessionID(),
		status:    models.StatusCreated,
		createdAt: time.Now(),
		store:     store,
		staging:   staging,
		processor: processor,
		log:       log,
	}
}

// restoreSession rebuilds a session from its durable record
func restoreSession(rec models.SessionRecord, store *FileStore, staging *database.StagingRepository, processor TextProcessor, log *zap.SugaredLogger) *ProcessingSession {
	return &ProcessingSession{
		id:           rec.SessionID,
		status:       rec.Status,
		createdAt:    rec.CreatedAt,
		completedAt:  rec.CompletedAt,
		errorMessage: rec.ErrorMessage,
		stats:        rec.Statistics,
		cleanedText:  rec.TextPreview,
		store:        store,
		staging:      staging,
		processor:    processor,
		log:          log,
	}
}

// ID returns the session identifier
func (s *ProcessingSession) ID() string {
	return s.id
}

// Start runs the processing pipeline over the given text and assigns the
// session its terminal status: Failed on invalid input or a pipeline
// error, Completed when nothing new was staged, PendingReview otherwise.
// The resulting metadata is persisted before returning.
func (s *ProcessingSession) Start(ctx context.Context, text string) models.SessionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = models.StatusProcessing

	cleaned := pipeline.CleanText(text)
	if cleaned == "" {
		return s.fail("Empty or invalid text input")
	}
	s.cleanedText = cleaned

	result, err := s.processor.Process(ctx, cleaned, s.id)
	if err != nil {
		return s.fail(fmt.Sprintf("Unexpected error: %v", err))
	}
	if result == nil {
		return s.fail("Text processing failed")
	}

	s.stats.TotalWordsProcessed = result.WordsProcessed
	s.stats.WordsAdded = result.WordsStaged
	s.stats.WordsTranslated = result.WordsTranslated
	s.stats.WordsFailed = result.WordsFailed

	if s.stats.WordsAdded > 0 {
		s.status = models.StatusPendingReview
	} else {
		s.status = models.StatusCompleted
	}
	now := time.Now()
	s.completedAt = &now

	s.save()
	s.log.Infow("session finished",
		"session_id", s.id,
		"status", s.status,
		"words_processed", s.stats.TotalWordsProcessed,
		"words_staged", s.stats.WordsAdded)
	return s.buildResult(true)
}

// fail marks the session terminal-failed; callers hold the lock
func (s *ProcessingSession) fail(message string) models.SessionResult {
	s.status = models.StatusFailed
	s.errorMessage = message
	now := time.Now()
	s.completedAt = &now
	s.save()
	s.log.Warnw("session failed", "session_id", s.id, "error", message)
	return s.buildResult(false)
}

// StatusReport returns the session snapshot plus live-derived values: the
// pending count always comes fresh from the staging store, never from the
// stored status.
func (s *ProcessingSession) StatusReport() (models.StatusReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.staging.SessionCount(s.id)
	if err != nil {
		return models.StatusReport{}, err
	}

	var duration time.Duration
	if s.completedAt != nil {
		duration = s.completedAt.Sub(s.createdAt)
	} else {
		duration = time.Since(s.createdAt)
	}

	return models.StatusReport{
		SessionID:       s.id,
		Status:          s.status,
		CreatedAt:       s.createdAt,
		CompletedAt:     s.completedAt,
		DurationSeconds: duration.Seconds(),
		Statistics:      s.stats,
		PendingWords:    pending,
		ErrorMessage:    s.errorMessage,
		TextPreview:     truncate(s.cleanedText, 100),
	}, nil
}

// Words returns this session's staged candidates in creation order
func (s *ProcessingSession) Words() ([]models.StagedCandidate, error) {
	return s.staging.Candidates(s.id)
}

// ClearData removes all of the session's staged candidates. A session
// whose review queue is emptied this way no longer has anything pending,
// so a PendingReview status is demoted to Completed; this is the one place
// the stored status is retroactively adjusted.
func (s *ProcessingSession) ClearData() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.staging.ClearSession(s.id)
	if err != nil {
		return 0, err
	}
	if s.status == models.StatusPendingReview {
		s.status = models.StatusCompleted
		s.save()
	}
	return count, nil
}

func (s *ProcessingSession) buildResult(success bool) models.SessionResult {
	return models.SessionResult{
		Success:      success,
		SessionID:    s.id,
		Status:       s.status,
		Statistics:   s.stats,
		ErrorMessage: s.errorMessage,
	}
}

func (s *ProcessingSession) record() models.SessionRecord {
	return models.SessionRecord{
		SessionID:    s.id,
		Status:       s.status,
		CreatedAt:    s.createdAt,
		CompletedAt:  s.completedAt,
		ErrorMessage: s.errorMessage,
		Statistics:   s.stats,
		TextPreview:  truncate(s.cleanedText, textPreviewLimit),
	}
}

// save persists the current metadata; persistence problems are logged
// rather than failing the operation that triggered them
func (s *ProcessingSession) save() {
	if err := s.store.Save(s.record()); err != nil {
		s.log.Warnw("could not save session state", "session_id", s.id, "error", err)
	}
}

// info builds a listing row; pending is supplied by the caller
func (s *ProcessingSession) info(pending int) models.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.SessionInfo{
		SessionID:    s.id,
		Status:       s.status,
		CreatedAt:    s.createdAt,
		WordsAdded:   s.stats.WordsAdded,
		PendingWords: pending,
	}
}

func (s *ProcessingSession) currentStatus() models.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
