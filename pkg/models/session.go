package models

import "time"

// SessionStatus is the processing outcome of a session. It is a snapshot
// assigned when processing finishes, not a live reflection of the review
// queue: callers who need "still has pending words" must ask the staging
// store.
type SessionStatus string

const (
	StatusCreated       SessionStatus = "created"
	StatusProcessing    SessionStatus = "processing"
	StatusCompleted     SessionStatus = "completed"
	StatusFailed        SessionStatus = "failed"
	StatusPendingReview SessionStatus = "pending_review"
)

// Statistics holds counters captured from a processing run
type Statistics struct {
	TotalWordsProcessed int `json:"total_words_processed"`
	WordsAdded          int `json:"words_added"`
	WordsTranslated     int `json:"words_translated"`
	WordsFailed         int `json:"words_failed"`
}

// ProcessingResult is the record returned by the text-processing pipeline.
// A nil result means the input contained nothing processable.
type ProcessingResult struct {
	SessionID       string `json:"session_id"`
	WordsProcessed  int    `json:"words_processed"`
	WordsStaged     int    `json:"words_staged"`
	WordsTranslated int    `json:"words_translated"`
	WordsFailed     int    `json:"words_failed"`
}

// SessionResult is returned by starting a session
type SessionResult struct {
	Success      bool          `json:"success"`
	SessionID    string        `json:"session_id"`
	Status       SessionStatus `json:"status"`
	Statistics   Statistics    `json:"statistics"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// SessionRecord is the durable per-session metadata written to disk, one
// JSON file per session keyed by id
type SessionRecord struct {
	SessionID    string        `json:"session_id"`
	Status       SessionStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Statistics   Statistics    `json:"statistics"`
	TextPreview  string        `json:"text_preview"`
}

// StatusReport is a live view of a session, combining the stored snapshot
// with a freshly computed pending count
type StatusReport struct {
	SessionID       string        `json:"session_id"`
	Status          SessionStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	DurationSeconds float64       `json:"duration_seconds"`
	Statistics      Statistics    `json:"statistics"`
	PendingWords    int           `json:"pending_words"`
	ErrorMessage    string        `json:"error_message,omitempty"`
	TextPreview     string        `json:"text_preview"`
}

// SessionInfo is one row of a session listing
type SessionInfo struct {
	SessionID    string        `json:"session_id"`
	Status       SessionStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	WordsAdded   int           `json:"words_added"`
	PendingWords int           `json:"pending_words"`
}
