package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/example/vocabharvester/pkg/models"
)

// FileStore persists one JSON record per session, keyed by session id.
// Records are independent files so concurrent sessions never contend on
// the same durable record.
type FileStore struct {
	dir string
	log *zap.SugaredLogger
}

// NewFileStore creates the sessions directory if needed
func NewFileStore(dir string, log *zap.SugaredLogger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %v", err)
	}
	return &FileStore{dir: dir, log: log}, nil
}

func (s *FileStore) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}

// validID rejects ids that would escape the sessions directory
func validID(sessionID string) bool {
	return sessionID != "" && sessionID == filepath.Base(sessionID) && !strings.HasPrefix(sessionID, ".")
}

// Save writes a session record, replacing any previous one
func (s *FileStore) Save(rec models.SessionRecord) error {
	if !validID(rec.SessionID) {
		return fmt.Errorf("invalid session id: %q", rec.SessionID)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %v", err)
	}
	if err := os.WriteFile(s.path(rec.SessionID), data, 0644); err != nil {
		return fmt.Errorf("failed to write session record: %v", err)
	}
	return nil
}

// Load reads one session record, reporting absence without error
func (s *FileStore) Load(sessionID string) (models.SessionRecord, bool, error) {
	var rec models.SessionRecord
	if !validID(sessionID) {
		return rec, false, nil
	}
	data, err := os.ReadFile(s.path(sessionID))
	if os.IsNotExist(err) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("failed to read session record: %v", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, false, fmt.Errorf("failed to parse session record: %v", err)
	}
	return rec, true, nil
}

// LoadAll reads every session record in the directory. Unreadable files
// are logged and skipped so one corrupt record cannot block resumption.
func (s *FileStore) LoadAll() ([]models.SessionRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions directory: %v", err)
	}

	records := []models.SessionRecord{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		rec, found, err := s.Load(id)
		if err != nil {
			s.log.Warnw("skipping unreadable session record", "session_id", id, "error", err)
			continue
		}
		if found {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Delete removes a session record; deleting a missing record is a no-op
func (s *FileStore) Delete(sessionID string) error {
	if !validID(sessionID) {
		return nil
	}
	err := os.Remove(s.path(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session record: %v", err)
	}
	return nil
}
