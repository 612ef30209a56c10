package activity

import (
	"errors"
	"time"
)

// ErrInvalidInput indicates a malformed activity entry.
var ErrInvalidInput = errors.New("invalid activity input")

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeSessionStarted     ActivityType = "session_started"
	TypeSessionStopped     ActivityType = "session_stopped"
	TypeSessionInterrupted ActivityType = "session_interrupted"
	TypeSessionEdited      ActivityType = "session_edited"
	TypeSessionDeleted     ActivityType = "session_deleted"
	TypeManualEntryCreated ActivityType = "manual_entry_created"
)

// ActivityEntry records one session transition for an owner
type ActivityEntry struct {
	ID           int64        `json:"id"`
	OwnerID      string       `json:"owner_id"`
	SessionID    string       `json:"session_id"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Validate checks that the entry names a session and a transition.
func (e *ActivityEntry) Validate() error {
	if e == nil || e.SessionID == "" || e.ActivityType == "" {
		return ErrInvalidInput
	}
	return nil
}
