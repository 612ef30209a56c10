package mcp

import (
	"time"

	"github.com/rpggio/worklog/internal/domain/analytics"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/rpggio/worklog/internal/duration"
)

// Tool inputs. Timestamps are RFC 3339, dates are YYYY-MM-DD.

type EmptyParams struct{}

type StartSessionParams struct {
	TaskTypeID string `json:"task_type_id" jsonschema:"ID of an active task type, see list_task_types"`
	Notes      string `json:"notes,omitempty" jsonschema:"free-text notes for the session"`
}

type EditSessionParams struct {
	SessionID string  `json:"session_id" jsonschema:"ID of the session to edit"`
	StartTime *string `json:"start_time,omitempty" jsonschema:"new start, RFC 3339"`
	EndTime   *string `json:"end_time,omitempty" jsonschema:"new end, RFC 3339; setting it on the open session closes it"`
	Notes     *string `json:"notes,omitempty" jsonschema:"replacement notes"`
}

type ListSessionsParams struct {
	TaskTypeID string `json:"task_type_id,omitempty" jsonschema:"only sessions of this task type"`
	From       string `json:"from,omitempty" jsonschema:"only sessions starting at or after this RFC 3339 instant"`
	To         string `json:"to,omitempty" jsonschema:"only sessions starting before this RFC 3339 instant"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum sessions to return"`
}

type ListTaskTypesParams struct {
	IncludeArchived bool `json:"include_archived,omitempty" jsonschema:"include archived task types"`
}

type DailySummaryParams struct {
	Date string `json:"date,omitempty" jsonschema:"day to summarize, YYYY-MM-DD; defaults to today"`
}

type DateRangeParams struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"first day, YYYY-MM-DD"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"last day inclusive, YYYY-MM-DD; defaults to today"`
}

// Tool outputs.

type SessionView struct {
	ID                string `json:"id"`
	TaskTypeID        string `json:"task_type_id"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time,omitempty"`
	Open              bool   `json:"open"`
	DurationSeconds   int64  `json:"duration_seconds"`
	DurationFormatted string `json:"duration_formatted"`
	Interrupted       bool   `json:"interrupted"`
	IsManualEntry     bool   `json:"is_manual_entry"`
	EditedByUser      bool   `json:"edited_by_user"`
	Notes             string `json:"notes,omitempty"`
}

type CurrentSessionResponse struct {
	Session *SessionView `json:"session,omitempty"`
}

type SessionResponse struct {
	Session SessionView `json:"session"`
}

type InterruptResponse struct {
	InterruptedTask *SessionView `json:"interrupted_task,omitempty"`
	NewTask         SessionView  `json:"new_task"`
}

type ListSessionsResponse struct {
	Sessions []SessionView `json:"sessions"`
}

type TaskTypeView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Emoji      string `json:"emoji"`
	Color      string `json:"color"`
	IsPinned   bool   `json:"is_pinned"`
	IsArchived bool   `json:"is_archived"`
	SortOrder  int    `json:"sort_order"`
}

type ListTaskTypesResponse struct {
	TaskTypes []TaskTypeView `json:"task_types"`
}

type SummaryResponse struct {
	Date                  string            `json:"date,omitempty"`
	StartDate             string            `json:"start_date"`
	EndDate               string            `json:"end_date"`
	TotalTrackedSeconds   int64             `json:"total_tracked_seconds"`
	TotalTrackedFormatted string            `json:"total_tracked_formatted"`
	Groups                []analytics.Group `json:"groups"`
}

type WeeklySummaryResponse struct {
	SummaryResponse
	DailyData []analytics.DailyData `json:"daily_data"`
}

type HeatmapResponse struct {
	StartDate string                 `json:"start_date"`
	EndDate   string                 `json:"end_date"`
	Days      []analytics.HeatmapDay `json:"days"`
}

// newSessionView renders a session. Open sessions report elapsed time as of
// now.
func newSessionView(sess *session.Session, now time.Time) SessionView {
	view := SessionView{
		ID:            sess.ID,
		TaskTypeID:    sess.TaskTypeID,
		StartTime:     sess.StartTime.UTC().Format(time.RFC3339),
		Open:          sess.IsOpen(),
		Interrupted:   sess.Interrupted,
		IsManualEntry: sess.IsManualEntry,
		EditedByUser:  sess.EditedByUser,
		Notes:         sess.Notes,
	}

	elapsed, closed := sess.Duration()
	if closed {
		view.EndTime = sess.EndTime.UTC().Format(time.RFC3339)
	} else {
		elapsed = max(now.Sub(sess.StartTime), 0)
	}
	view.DurationSeconds = int64(elapsed / time.Second)
	if formatted, err := duration.Format(view.DurationSeconds); err == nil {
		view.DurationFormatted = formatted
	}
	return view
}

func newTaskTypeView(tt tasktype.TaskType) TaskTypeView {
	return TaskTypeView{
		ID:         tt.ID,
		Name:       tt.Name,
		Emoji:      tt.Emoji,
		Color:      tt.Color,
		IsPinned:   tt.IsPinned,
		IsArchived: tt.IsArchived,
		SortOrder:  tt.SortOrder,
	}
}

func newSummaryResponse(s *analytics.Summary) SummaryResponse {
	groups := s.Groups
	if groups == nil {
		groups = []analytics.Group{}
	}
	return SummaryResponse{
		Date:                  s.Date,
		StartDate:             s.StartDate,
		EndDate:               s.EndDate,
		TotalTrackedSeconds:   s.TotalTrackedSeconds,
		TotalTrackedFormatted: s.TotalTrackedFormatted,
		Groups:                groups,
	}
}
