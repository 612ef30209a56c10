package mcp

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/worklog/internal/apierr"
	"github.com/rpggio/worklog/internal/clock"
	"github.com/rpggio/worklog/internal/domain/analytics"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
)

const defaultListLimit = 50

type tools struct {
	services Services
	clock    clock.Clock
}

// registerTools adds the tool catalog to server.
func registerTools(server *sdkmcp.Server, t *tools) {
	// Sessions
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_current_session",
		Description: "Get the open session, or null when nothing is being tracked",
	}, t.getCurrentSession)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_session",
		Description: "Start tracking a task type. Fails with SESSION_ALREADY_OPEN when a session is running",
	}, t.startSession)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "stop_session",
		Description: "Stop the open session at the current time",
	}, t.stopSession)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "interrupt_session",
		Description: "Switch tasks: close the open session as interrupted and start a new one at the same instant",
	}, t.interruptSession)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "edit_session",
		Description: "Correct a session's start, end, or notes",
	}, t.editSession)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_sessions",
		Description: "List sessions, most recent first",
	}, t.listSessions)

	// Task types
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_task_types",
		Description: "List task types in display order",
	}, t.listTaskTypes)

	// Analytics
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "daily_summary",
		Description: "Tracked time per task type for one day in the reporting time zone",
	}, t.dailySummary)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "weekly_summary",
		Description: "Tracked time per task type and per day; defaults to the last seven days",
	}, t.weeklySummary)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "monthly_summary",
		Description: "Tracked time per task type; defaults to the current month to date",
	}, t.monthlySummary)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "heatmap",
		Description: "Hours tracked per day with an intensity level from 0 to 4; defaults to the last 90 days",
	}, t.heatmap)
}

func (t *tools) getCurrentSession(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, CurrentSessionResponse, error) {
	sess, err := t.services.Sessions.GetCurrent(ctx, getOwnerID(ctx))
	if err != nil {
		return nil, CurrentSessionResponse{}, apierr.Map(err)
	}
	if sess == nil {
		return nil, CurrentSessionResponse{}, nil
	}
	view := newSessionView(sess, t.clock.Now())
	return nil, CurrentSessionResponse{Session: &view}, nil
}

func (t *tools) startSession(ctx context.Context, _ *sdkmcp.CallToolRequest, params StartSessionParams) (*sdkmcp.CallToolResult, SessionResponse, error) {
	sess, err := t.services.Sessions.Start(ctx, getOwnerID(ctx), session.StartRequest{
		TaskTypeID: params.TaskTypeID,
		Notes:      params.Notes,
	})
	if err != nil {
		return nil, SessionResponse{}, apierr.Map(err)
	}
	return nil, SessionResponse{Session: newSessionView(sess, t.clock.Now())}, nil
}

func (t *tools) stopSession(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, SessionResponse, error) {
	sess, err := t.services.Sessions.Stop(ctx, getOwnerID(ctx))
	if err != nil {
		return nil, SessionResponse{}, apierr.Map(err)
	}
	return nil, SessionResponse{Session: newSessionView(sess, t.clock.Now())}, nil
}

func (t *tools) interruptSession(ctx context.Context, _ *sdkmcp.CallToolRequest, params StartSessionParams) (*sdkmcp.CallToolResult, InterruptResponse, error) {
	result, err := t.services.Sessions.Interrupt(ctx, getOwnerID(ctx), session.StartRequest{
		TaskTypeID: params.TaskTypeID,
		Notes:      params.Notes,
	})
	if err != nil {
		return nil, InterruptResponse{}, apierr.Map(err)
	}

	now := t.clock.Now()
	resp := InterruptResponse{NewTask: newSessionView(result.Started, now)}
	if result.Interrupted != nil {
		view := newSessionView(result.Interrupted, now)
		resp.InterruptedTask = &view
	}
	return nil, resp, nil
}

func (t *tools) editSession(ctx context.Context, _ *sdkmcp.CallToolRequest, params EditSessionParams) (*sdkmcp.CallToolResult, SessionResponse, error) {
	if params.SessionID == "" {
		return nil, SessionResponse{}, apierr.InvalidInput("session_id is required")
	}
	start, err := parseOptionalTimestamp("start_time", params.StartTime)
	if err != nil {
		return nil, SessionResponse{}, err
	}
	end, err := parseOptionalTimestamp("end_time", params.EndTime)
	if err != nil {
		return nil, SessionResponse{}, err
	}

	sess, err := t.services.Sessions.Edit(ctx, getOwnerID(ctx), params.SessionID, session.EditRequest{
		StartTime: start,
		EndTime:   end,
		Notes:     params.Notes,
	})
	if err != nil {
		return nil, SessionResponse{}, apierr.Map(err)
	}
	return nil, SessionResponse{Session: newSessionView(sess, t.clock.Now())}, nil
}

func (t *tools) listSessions(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListSessionsParams) (*sdkmcp.CallToolResult, ListSessionsResponse, error) {
	opts := session.ListOptions{TaskTypeID: params.TaskTypeID, Limit: params.Limit}
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	var err error
	if opts.From, err = parseOptionalTimestamp("from", optionalString(params.From)); err != nil {
		return nil, ListSessionsResponse{}, err
	}
	if opts.To, err = parseOptionalTimestamp("to", optionalString(params.To)); err != nil {
		return nil, ListSessionsResponse{}, err
	}

	sessions, err := t.services.Sessions.List(ctx, getOwnerID(ctx), opts)
	if err != nil {
		return nil, ListSessionsResponse{}, apierr.Map(err)
	}

	now := t.clock.Now()
	resp := ListSessionsResponse{Sessions: make([]SessionView, 0, len(sessions))}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, newSessionView(&sessions[i], now))
	}
	return nil, resp, nil
}

func (t *tools) listTaskTypes(ctx context.Context, _ *sdkmcp.CallToolRequest, params ListTaskTypesParams) (*sdkmcp.CallToolResult, ListTaskTypesResponse, error) {
	list, err := t.services.TaskTypes.List(ctx, getOwnerID(ctx), tasktype.ListOptions{IncludeArchived: params.IncludeArchived})
	if err != nil {
		return nil, ListTaskTypesResponse{}, apierr.Map(err)
	}

	resp := ListTaskTypesResponse{TaskTypes: make([]TaskTypeView, 0, len(list))}
	for _, tt := range list {
		resp.TaskTypes = append(resp.TaskTypes, newTaskTypeView(tt))
	}
	return nil, resp, nil
}

func (t *tools) dailySummary(ctx context.Context, _ *sdkmcp.CallToolRequest, params DailySummaryParams) (*sdkmcp.CallToolResult, SummaryResponse, error) {
	date, err := analytics.ParseDate(params.Date)
	if err != nil {
		return nil, SummaryResponse{}, apierr.Map(err)
	}
	summary, err := t.services.Analytics.Daily(ctx, getOwnerID(ctx), date)
	if err != nil {
		return nil, SummaryResponse{}, apierr.Map(err)
	}
	return nil, newSummaryResponse(summary), nil
}

func (t *tools) weeklySummary(ctx context.Context, _ *sdkmcp.CallToolRequest, params DateRangeParams) (*sdkmcp.CallToolResult, WeeklySummaryResponse, error) {
	start, end, err := parseDateRange(params)
	if err != nil {
		return nil, WeeklySummaryResponse{}, err
	}
	weekly, err := t.services.Analytics.Weekly(ctx, getOwnerID(ctx), start, end)
	if err != nil {
		return nil, WeeklySummaryResponse{}, apierr.Map(err)
	}

	daily := weekly.DailyData
	if daily == nil {
		daily = []analytics.DailyData{}
	}
	return nil, WeeklySummaryResponse{
		SummaryResponse: newSummaryResponse(&weekly.Summary),
		DailyData:       daily,
	}, nil
}

func (t *tools) monthlySummary(ctx context.Context, _ *sdkmcp.CallToolRequest, params DateRangeParams) (*sdkmcp.CallToolResult, SummaryResponse, error) {
	start, end, err := parseDateRange(params)
	if err != nil {
		return nil, SummaryResponse{}, err
	}
	summary, err := t.services.Analytics.Monthly(ctx, getOwnerID(ctx), start, end)
	if err != nil {
		return nil, SummaryResponse{}, apierr.Map(err)
	}
	return nil, newSummaryResponse(summary), nil
}

func (t *tools) heatmap(ctx context.Context, _ *sdkmcp.CallToolRequest, params DateRangeParams) (*sdkmcp.CallToolResult, HeatmapResponse, error) {
	start, end, err := parseDateRange(params)
	if err != nil {
		return nil, HeatmapResponse{}, err
	}
	hm, err := t.services.Analytics.Heatmap(ctx, getOwnerID(ctx), start, end)
	if err != nil {
		return nil, HeatmapResponse{}, apierr.Map(err)
	}

	days := hm.Days
	if days == nil {
		days = []analytics.HeatmapDay{}
	}
	return nil, HeatmapResponse{StartDate: hm.StartDate, EndDate: hm.EndDate, Days: days}, nil
}

func parseDateRange(params DateRangeParams) (time.Time, time.Time, error) {
	start, err := analytics.ParseDate(params.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, apierr.Map(err)
	}
	end, err := analytics.ParseDate(params.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, apierr.Map(err)
	}
	return start, end, nil
}

// parseOptionalTimestamp parses an RFC 3339 argument; nil or empty yields nil.
func parseOptionalTimestamp(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, apierr.InvalidInput("%s must be an RFC 3339 timestamp", field)
	}
	return &t, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
