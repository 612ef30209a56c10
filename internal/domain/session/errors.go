package session

import "errors"

var (
	// ErrSessionAlreadyOpen indicates the owner already has an open session.
	ErrSessionAlreadyOpen = errors.New("a session is already open")
	// ErrNoActiveSession indicates the owner has no open session to stop.
	ErrNoActiveSession = errors.New("no active session")
	// ErrInvalidTaskType indicates an unknown or archived task type.
	ErrInvalidTaskType = errors.New("invalid task type")
	// ErrInvalidTimeRange indicates an end time before the start time.
	ErrInvalidTimeRange = errors.New("invalid time range")
	// ErrClockSkew indicates the clock reads earlier than the open session's start.
	ErrClockSkew = errors.New("clock moved backwards")
	// ErrStoreUnavailable indicates a transient store failure; callers may retry.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrSessionNotFound indicates the session doesn't exist for the owner.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionOpen indicates the operation requires a closed session.
	ErrSessionOpen = errors.New("session is still open")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
)
