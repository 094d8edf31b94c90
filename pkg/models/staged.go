package models

import "time"

// StagedCandidate is a word extracted from text and held for review.
// Identity is (Lemma, SessionID); SurfaceForm records the inflected token
// actually seen in the input.
type StagedCandidate struct {
	SurfaceForm  string     `json:"surface_form" db:"surface_form"`
	Lemma        string     `json:"lemma" db:"lemma"`
	PartOfSpeech string     `json:"pos" db:"pos"`
	Translation  string     `json:"translation" db:"translation"`
	IsRegular    Regularity `json:"is_regular" db:"is_regular"`
	SessionID    string     `json:"session_id" db:"session_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// SessionSummary is one row of the grouped staging aggregate: how many
// candidates a session holds and when its first one was staged
type SessionSummary struct {
	SessionID         string    `json:"session_id" db:"session_id"`
	WordCount         int       `json:"word_count" db:"word_count"`
	EarliestCreatedAt time.Time `json:"earliest_created_at" db:"earliest_created_at"`
}
