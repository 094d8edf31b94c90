package session

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/example/vocabharvester/internal/database"
	"github.com/example/vocabharvester/pkg/models"
)

// Manager coordinates multiple processing sessions: creation, lookup with
// disk fallback, listing, deletion and maintenance.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*ProcessingSession

	store     *FileStore
	staging   *database.StagingRepository
	processor TextProcessor
	log       *zap.SugaredLogger
}

// NewManager builds a manager and eagerly resumes every durable session
// record found on disk
func NewManager(store *FileStore, staging *database.StagingRepository, processor TextProcessor, log *zap.SugaredLogger) *Manager {
	m := &Manager{
		sessions:  make(map[string]*ProcessingSession),
		store:     store,
		staging:   staging,
		processor: processor,
		log:       log,
	}

	records, err := store.LoadAll()
	if err != nil {
		log.Warnw("could not load saved sessions", "error", err)
		return m
	}
	for _, rec := range records {
		m.sessions[rec.SessionID] = restoreSession(rec, store, staging, processor, log)
	}
	if len(records) > 0 {
		log.Infow("resumed sessions from disk", "count", len(records))
	}
	return m
}

// CreateSession creates a new session and immediately processes the text
func (m *Manager) CreateSession(ctx context.Context, text string) (*ProcessingSession, models.SessionResult) {
	s := NewSession(m.store, m.staging, m.processor, m.log)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	result := s.Start(ctx, text)
	return s, result
}

// GetSession returns a session by id, falling back to the durable record
// when the session is not in memory. Returns nil when the session is
// unknown in both places.
func (m *Manager) GetSession(sessionID string) *ProcessingSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[sessionID]; ok {
		return s
	}

	rec, found, err := m.store.Load(sessionID)
	if err != nil {
		m.log.Warnw("could not load session record", "session_id", sessionID, "error", err)
		return nil
	}
	if !found {
		return nil
	}
	s := restoreSession(rec, m.store, m.staging, m.processor, m.log)
	m.sessions[sessionID] = s
	return s
}

// ListSessions returns summary rows for all sessions, most recent first,
// optionally filtered by status. Pending counts are computed live from the
// staging store.
func (m *Manager) ListSessions(statusFilter *models.SessionStatus) ([]models.SessionInfo, error) {
	m.mu.Lock()
	all := make([]*ProcessingSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()

	infos := []models.SessionInfo{}
	for _, s := range all {
		if statusFilter != nil && s.currentStatus() != *statusFilter {
			continue
		}
		pending, err := m.staging.SessionCount(s.ID())
		if err != nil {
			return nil, err
		}
		infos = append(infos, s.info(pending))
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

// DeleteSession removes a session's staging data, its durable record and
// its in-memory entry. Deleting an unknown session is a no-op.
func (m *Manager) DeleteSession(sessionID string) error {
	if _, err := m.staging.ClearSession(sessionID); err != nil {
		return err
	}
	if err := m.store.Delete(sessionID); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	m.log.Infow("deleted session", "session_id", sessionID)
	return nil
}

// ClearCompletedSessions deletes every session whose status is Completed
// and whose live pending count is zero. The stored status is only a
// processing snapshot, so the pending count must be double-checked against
// the staging store; sessions still pending review are never touched.
func (m *Manager) ClearCompletedSessions() (int, error) {
	completed := models.StatusCompleted
	infos, err := m.ListSessions(&completed)
	if err != nil {
		return 0, err
	}

	cleared := 0
	for _, info := range infos {
		if info.PendingWords != 0 {
			continue
		}
		if err := m.DeleteSession(info.SessionID); err != nil {
			m.log.Warnw("could not delete completed session", "session_id", info.SessionID, "error", err)
			continue
		}
		cleared++
	}
	return cleared, nil
}
