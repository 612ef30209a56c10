package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/worklog/internal/clock"
	"github.com/rpggio/worklog/internal/domain/analytics"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/rpggio/worklog/internal/sqlite"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type harness struct {
	session *sdkmcp.ClientSession
	clock   *clock.Manual
}

func newServices(t *testing.T, clk clock.Clock) Services {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	taskTypes := sqlite.NewTaskTypeRepository(db)
	ctx := context.Background()
	for i, tt := range []tasktype.TaskType{
		{ID: "deep", Name: "Deep Work", Emoji: "💻"},
		{ID: "email", Name: "Email", Emoji: "📧"},
	} {
		tt.SortOrder = i
		tt.CreatedAt = t0
		require.NoError(t, taskTypes.Create(ctx, "default", &tt))
	}

	sessions := sqlite.NewSessionRepository(db)
	return Services{
		Sessions:  session.NewService(sessions, nil, session.Options{Clock: clk}),
		TaskTypes: tasktype.NewService(taskTypes, nil),
		Analytics: analytics.NewService(sessions, taskTypes, nil, analytics.Options{Clock: clk}),
	}
}

func connect(t *testing.T, server *sdkmcp.Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clk := clock.NewManual(t0)
	server := NewServer(Config{
		Services:      newServices(t, clk),
		DefaultOwner:  "default",
		TransportMode: "stdio",
		Clock:         clk,
	})
	return &harness{session: connect(t, server), clock: clk}
}

func (h *harness) call(t *testing.T, name string, args map[string]any, out any) *sdkmcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := h.session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	if out != nil && !res.IsError {
		raw, err := json.Marshal(res.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return res
}

func errorText(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestListTools(t *testing.T) {
	h := newHarness(t)

	res, err := h.session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"get_current_session", "start_session", "stop_session", "interrupt_session",
		"edit_session", "list_sessions", "list_task_types",
		"daily_summary", "weekly_summary", "monthly_summary", "heatmap",
	}, names)
}

func TestSessionLifecycle(t *testing.T) {
	h := newHarness(t)

	var current CurrentSessionResponse
	h.call(t, "get_current_session", nil, &current)
	require.Nil(t, current.Session)

	var started SessionResponse
	res := h.call(t, "start_session", map[string]any{"task_type_id": "deep", "notes": "design"}, &started)
	require.False(t, res.IsError)
	require.True(t, started.Session.Open)
	require.Equal(t, "deep", started.Session.TaskTypeID)

	res = h.call(t, "start_session", map[string]any{"task_type_id": "email"}, nil)
	require.Contains(t, errorText(t, res), "SESSION_ALREADY_OPEN")

	h.clock.Advance(30 * time.Minute)
	var switched InterruptResponse
	h.call(t, "interrupt_session", map[string]any{"task_type_id": "email"}, &switched)
	require.NotNil(t, switched.InterruptedTask)
	require.True(t, switched.InterruptedTask.Interrupted)
	require.Equal(t, int64(1800), switched.InterruptedTask.DurationSeconds)
	require.Equal(t, "0h 30m", switched.InterruptedTask.DurationFormatted)
	require.Equal(t, switched.InterruptedTask.EndTime, switched.NewTask.StartTime)

	h.clock.Advance(15 * time.Minute)
	h.call(t, "get_current_session", nil, &current)
	require.NotNil(t, current.Session)
	require.Equal(t, "email", current.Session.TaskTypeID)
	require.Equal(t, int64(900), current.Session.DurationSeconds)

	var stopped SessionResponse
	h.call(t, "stop_session", nil, &stopped)
	require.False(t, stopped.Session.Open)

	res = h.call(t, "stop_session", nil, nil)
	require.Contains(t, errorText(t, res), "NO_ACTIVE_SESSION")

	var list ListSessionsResponse
	h.call(t, "list_sessions", nil, &list)
	require.Len(t, list.Sessions, 2)
	require.Equal(t, "email", list.Sessions[0].TaskTypeID)
}

func TestStartSession_InvalidTaskType(t *testing.T) {
	h := newHarness(t)

	res := h.call(t, "start_session", map[string]any{"task_type_id": "nope"}, nil)
	require.Contains(t, errorText(t, res), "INVALID_TASK_TYPE")
}

func TestEditSession(t *testing.T) {
	h := newHarness(t)

	var started SessionResponse
	h.call(t, "start_session", map[string]any{"task_type_id": "deep"}, &started)
	h.clock.Advance(time.Hour)

	var edited SessionResponse
	h.call(t, "edit_session", map[string]any{
		"session_id": started.Session.ID,
		"end_time":   t0.Add(45 * time.Minute).Format(time.RFC3339),
		"notes":      "trimmed",
	}, &edited)
	require.False(t, edited.Session.Open)
	require.True(t, edited.Session.EditedByUser)
	require.Equal(t, "trimmed", edited.Session.Notes)
	require.Equal(t, int64(2700), edited.Session.DurationSeconds)

	res := h.call(t, "edit_session", map[string]any{
		"session_id": started.Session.ID,
		"start_time": "yesterday",
	}, nil)
	require.Contains(t, errorText(t, res), "INVALID_INPUT")

	res = h.call(t, "edit_session", map[string]any{
		"session_id": started.Session.ID,
		"end_time":   t0.Add(-time.Minute).Format(time.RFC3339),
	}, nil)
	require.Contains(t, errorText(t, res), "INVALID_TIME_RANGE")
}

func TestListTaskTypes(t *testing.T) {
	h := newHarness(t)

	var resp ListTaskTypesResponse
	h.call(t, "list_task_types", nil, &resp)
	require.Len(t, resp.TaskTypes, 2)
	require.Equal(t, "deep", resp.TaskTypes[0].ID)
	require.Equal(t, "💻", resp.TaskTypes[0].Emoji)
}

func TestSummaries(t *testing.T) {
	h := newHarness(t)

	h.call(t, "start_session", map[string]any{"task_type_id": "deep"}, nil)
	h.clock.Advance(90 * time.Minute)
	h.call(t, "interrupt_session", map[string]any{"task_type_id": "email"}, nil)
	h.clock.Advance(30 * time.Minute)
	h.call(t, "stop_session", nil, nil)

	var daily SummaryResponse
	h.call(t, "daily_summary", map[string]any{"date": "2026-05-04"}, &daily)
	require.Equal(t, "2026-05-04", daily.Date)
	require.Equal(t, int64(7200), daily.TotalTrackedSeconds)
	require.Equal(t, "2h 0m", daily.TotalTrackedFormatted)
	require.Len(t, daily.Groups, 2)
	require.Equal(t, "deep", daily.Groups[0].TaskTypeID)
	require.Equal(t, 75.0, daily.Groups[0].Percentage)
	require.Equal(t, 1, daily.Groups[0].InterruptedCount)

	var weekly WeeklySummaryResponse
	h.call(t, "weekly_summary", map[string]any{"end_date": "2026-05-04"}, &weekly)
	require.Equal(t, "2026-04-28", weekly.StartDate)
	require.Len(t, weekly.DailyData, 7)
	require.Equal(t, int64(7200), weekly.DailyData[6].TotalDurationSeconds)

	var monthly SummaryResponse
	h.call(t, "monthly_summary", nil, &monthly)
	require.Equal(t, "2026-05-01", monthly.StartDate)
	require.Equal(t, int64(7200), monthly.TotalTrackedSeconds)

	var hm HeatmapResponse
	h.call(t, "heatmap", map[string]any{"start_date": "2026-05-01", "end_date": "2026-05-04"}, &hm)
	require.Len(t, hm.Days, 4)
	require.Equal(t, 2.0, hm.Days[3].Hours)
	require.Equal(t, 0, hm.Days[0].Level)

	res := h.call(t, "daily_summary", map[string]any{"date": "05/04/2026"}, nil)
	require.Contains(t, errorText(t, res), "INVALID_DATE")

	res = h.call(t, "heatmap", map[string]any{"start_date": "2026-05-04", "end_date": "2026-05-01"}, nil)
	require.Contains(t, errorText(t, res), "INVALID_RANGE")
}

func TestDocResource(t *testing.T) {
	h := newHarness(t)

	res, err := h.session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "worklog://docs/workflow"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "Session lifecycle")
}

type staticResolver map[string]string

func (r staticResolver) ResolveOwner(_ context.Context, token string) (string, error) {
	return r[token], nil
}

func TestAuthRequiredWithoutHeaders(t *testing.T) {
	clk := clock.NewManual(t0)
	server := NewServer(Config{
		Services:      newServices(t, clk),
		Resolver:      staticResolver{"token": "default"},
		AuthEnabled:   true,
		TransportMode: "http",
		Clock:         clk,
	})
	cs := connect(t, server)

	_, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "get_current_session",
		Arguments: map[string]any{},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unauthorized")
}
