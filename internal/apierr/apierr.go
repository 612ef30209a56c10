// Package apierr maps domain errors to the stable error codes returned by
// the MCP tools and the REST API.
package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rpggio/worklog/internal/domain/activity"
	"github.com/rpggio/worklog/internal/domain/analytics"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/rpggio/worklog/internal/duration"
	"github.com/rpggio/worklog/internal/repository"
)

// Error is the error shape shared by the MCP tools and the REST API.
type Error struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Retryable    bool   `json:"retryable"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	Status       int    `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// InvalidInput builds a validation error for malformed arguments.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Code: "INVALID_INPUT", Message: fmt.Sprintf(format, args...), Status: http.StatusUnprocessableEntity}
}

// Map maps domain errors to stable error codes. Business conditions and
// infrastructure failures always get different codes.
func Map(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	msg := err.Error()
	switch {
	case errors.Is(err, session.ErrSessionAlreadyOpen):
		return &Error{Code: "SESSION_ALREADY_OPEN", Message: msg, Status: http.StatusConflict, RecoveryHint: "Stop the current session or use interrupt to switch tasks"}
	case errors.Is(err, session.ErrNoActiveSession):
		return &Error{Code: "NO_ACTIVE_SESSION", Message: msg, Status: http.StatusConflict, RecoveryHint: "Start a session first"}
	case errors.Is(err, session.ErrSessionOpen):
		return &Error{Code: "SESSION_OPEN", Message: msg, Status: http.StatusConflict, RecoveryHint: "Stop the session first"}
	case errors.Is(err, session.ErrInvalidTaskType):
		return &Error{Code: "INVALID_TASK_TYPE", Message: msg, Status: http.StatusUnprocessableEntity, RecoveryHint: "Pick an active task type from list_task_types"}
	case errors.Is(err, session.ErrInvalidTimeRange):
		return &Error{Code: "INVALID_TIME_RANGE", Message: msg, Status: http.StatusUnprocessableEntity}
	case errors.Is(err, analytics.ErrInvalidRange):
		return &Error{Code: "INVALID_RANGE", Message: msg, Status: http.StatusUnprocessableEntity}
	case errors.Is(err, analytics.ErrInvalidDate):
		return &Error{Code: "INVALID_DATE", Message: msg, Status: http.StatusUnprocessableEntity}
	case errors.Is(err, duration.ErrInvalidDuration):
		return &Error{Code: "INVALID_DURATION", Message: msg, Status: http.StatusUnprocessableEntity}
	case errors.Is(err, session.ErrInvalidInput), errors.Is(err, tasktype.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return &Error{Code: "INVALID_INPUT", Message: msg, Status: http.StatusUnprocessableEntity}
	case errors.Is(err, tasktype.ErrDuplicateName):
		return &Error{Code: "DUPLICATE_NAME", Message: msg, Status: http.StatusConflict}
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, tasktype.ErrTaskTypeNotFound):
		return &Error{Code: "NOT_FOUND", Message: msg, Status: http.StatusNotFound}
	case errors.Is(err, session.ErrStoreUnavailable), errors.Is(err, repository.ErrUnavailable):
		return &Error{Code: "STORE_UNAVAILABLE", Message: msg, Status: http.StatusServiceUnavailable, Retryable: true, RecoveryHint: "Retry with backoff"}
	case errors.Is(err, session.ErrClockSkew):
		return &Error{Code: "CLOCK_ERROR", Message: msg, Status: http.StatusInternalServerError}
	default:
		return &Error{Code: "INTERNAL", Message: "internal error", Status: http.StatusInternalServerError}
	}
}
