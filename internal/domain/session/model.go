package session

import "time"

// Session is one contiguous, attributed interval of tracked time.
// A nil EndTime means the session is still open.
type Session struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	TaskTypeID    string     `json:"task_type_id"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Interrupted   bool       `json:"interrupted"`
	IsManualEntry bool       `json:"is_manual_entry"`
	Notes         string     `json:"notes"`
	EditedByUser  bool       `json:"edited_by_user"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsOpen reports whether the session has no end yet.
func (s *Session) IsOpen() bool {
	return s.EndTime == nil
}

// Duration returns end minus start, and false while the session is open.
func (s *Session) Duration() (time.Duration, bool) {
	if s.EndTime == nil {
		return 0, false
	}
	return s.EndTime.Sub(s.StartTime), true
}

// StartRequest describes a start or interrupt.
type StartRequest struct {
	TaskTypeID string
	Notes      string
}

// InterruptResult holds the session closed by an interrupt, if any, and the
// session it opened.
type InterruptResult struct {
	Interrupted *Session `json:"interrupted_task"`
	Started     *Session `json:"new_task"`
}

// EditRequest carries the user-editable fields. Nil fields are left alone.
type EditRequest struct {
	StartTime *time.Time
	EndTime   *time.Time
	Notes     *string
}

// ManualRequest describes a closed session entered by hand.
type ManualRequest struct {
	TaskTypeID string
	StartTime  time.Time
	EndTime    time.Time
	Notes      string
}

// ListOptions filters session listings.
type ListOptions struct {
	TaskTypeID  string
	Interrupted *bool
	Manual      *bool
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// SearchResult is a session matched by a notes query.
type SearchResult struct {
	Session Session `json:"session"`
	Snippet string  `json:"snippet"`
}
