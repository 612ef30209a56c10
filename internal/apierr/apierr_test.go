package apierr

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/rpggio/worklog/internal/domain/analytics"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/rpggio/worklog/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	require.Nil(t, Map(nil))

	apiErr := Map(session.ErrStoreUnavailable)
	require.Equal(t, "STORE_UNAVAILABLE", apiErr.Code)
	require.True(t, apiErr.Retryable)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.Status)

	apiErr = Map(session.ErrSessionAlreadyOpen)
	require.Equal(t, "SESSION_ALREADY_OPEN", apiErr.Code)
	require.False(t, apiErr.Retryable)
	require.Equal(t, http.StatusConflict, apiErr.Status)

	apiErr = Map(context.Canceled)
	require.Equal(t, "INTERNAL", apiErr.Code)
	require.Equal(t, "internal error", apiErr.Message)

	invalid := InvalidInput("bad %s", "thing")
	require.Same(t, invalid, Map(invalid))
	require.Equal(t, "INVALID_INPUT: bad thing", invalid.Error())
}

func TestMapWrappedErrors(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{fmt.Errorf("start: %w", session.ErrNoActiveSession), "NO_ACTIVE_SESSION", http.StatusConflict},
		{fmt.Errorf("start: %w", session.ErrInvalidTaskType), "INVALID_TASK_TYPE", http.StatusUnprocessableEntity},
		{session.ErrSessionOpen, "SESSION_OPEN", http.StatusConflict},
		{session.ErrClockSkew, "CLOCK_ERROR", http.StatusInternalServerError},
		{tasktype.ErrTaskTypeNotFound, "NOT_FOUND", http.StatusNotFound},
		{analytics.ErrInvalidRange, "INVALID_RANGE", http.StatusUnprocessableEntity},
		{fmt.Errorf("query: %w", repository.ErrUnavailable), "STORE_UNAVAILABLE", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			apiErr := Map(tt.err)
			require.Equal(t, tt.code, apiErr.Code)
			require.Equal(t, tt.status, apiErr.Status)
		})
	}
}
