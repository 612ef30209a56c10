package integration_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rpggio/worklog/internal/app"
	"github.com/rpggio/worklog/internal/clock"
	"github.com/rpggio/worklog/internal/config"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/stretchr/testify/require"
)

const owner = "owner1"

type testEnv struct {
	app   *app.App
	clock *clock.Manual
	types map[string]string
}

func newTestEnv(t *testing.T, cfg config.Config, start time.Time) *testEnv {
	t.Helper()

	clk := clock.NewManual(start)
	a, err := app.New(cfg, nil, app.WithClock(clk))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.SeedOwner(context.Background(), owner))
	list, err := a.TaskTypes.List(context.Background(), owner, tasktype.ListOptions{})
	require.NoError(t, err)

	types := make(map[string]string, len(list))
	for _, tt := range list {
		types[tt.Name] = tt.ID
	}
	return &testEnv{app: a, clock: clk, types: types}
}

func memoryConfig() config.Config {
	cfg := config.Default()
	cfg.DB.Path = ":memory:"
	return cfg
}

func TestIntegration_WorkdayAcrossMidnight(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.Reporting.Timezone = "America/New_York"
	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	require.NoError(t, err)

	env := newTestEnv(t, cfg, time.Date(2026, 5, 4, 22, 0, 0, 0, loc))
	sessions := env.app.Sessions

	_, err = sessions.Start(ctx, owner, session.StartRequest{TaskTypeID: env.types["Deep Work"]})
	require.NoError(t, err)

	env.clock.Advance(90 * time.Minute) // 23:30
	_, err = sessions.Interrupt(ctx, owner, session.StartRequest{TaskTypeID: env.types["Email"]})
	require.NoError(t, err)

	env.clock.Advance(time.Hour) // 00:30 next day
	_, err = sessions.Stop(ctx, owner)
	require.NoError(t, err)

	first, err := env.app.Analytics.Daily(ctx, owner, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, int64(2*3600), first.TotalTrackedSeconds)

	second, err := env.app.Analytics.Daily(ctx, owner, time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, int64(30*60), second.TotalTrackedSeconds)
	require.Len(t, second.Groups, 1)
	require.Equal(t, "Email", second.Groups[0].Name)
	require.Equal(t, 1, second.Groups[0].TaskCount)

	weekly, err := env.app.Analytics.Weekly(ctx, owner, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Equal(t, "2026-05-05", weekly.EndDate)
	require.Equal(t, int64(150*60), weekly.TotalTrackedSeconds)
	for _, g := range weekly.Groups {
		require.Equal(t, 1, g.TaskCount, g.Name)
	}
}

func TestIntegration_OpenSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.DB.Path = filepath.Join(t.TempDir(), "data", "worklog.db")
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	env := newTestEnv(t, cfg, start)
	started, err := env.app.Sessions.Start(ctx, owner, session.StartRequest{TaskTypeID: env.types["Meeting"], Notes: "standup"})
	require.NoError(t, err)
	require.NoError(t, env.app.Close())

	reopened := newTestEnv(t, cfg, start.Add(20*time.Minute))

	current, err := reopened.app.Sessions.GetCurrent(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Equal(t, started.ID, current.ID)
	require.True(t, current.StartTime.Equal(started.StartTime))

	_, err = reopened.app.Sessions.Start(ctx, owner, session.StartRequest{TaskTypeID: reopened.types["Email"]})
	require.ErrorIs(t, err, session.ErrSessionAlreadyOpen)

	stopped, err := reopened.app.Sessions.Stop(ctx, owner)
	require.NoError(t, err)
	d, ok := stopped.Duration()
	require.True(t, ok)
	require.Equal(t, 20*time.Minute, d)
}

func TestIntegration_SeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, memoryConfig(), time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))

	require.NoError(t, env.app.SeedOwner(ctx, owner))
	list, err := env.app.TaskTypes.List(ctx, owner, tasktype.ListOptions{IncludeArchived: true})
	require.NoError(t, err)
	require.Len(t, list, len(tasktype.Default))
}

func TestIntegration_APIKeys(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, memoryConfig(), time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))

	require.NoError(t, env.app.APIKeys.Add(ctx, owner, "secret", "laptop"))
	resolved, err := env.app.APIKeys.ResolveOwner(ctx, "secret")
	require.NoError(t, err)
	require.Equal(t, owner, resolved)

	_, err = env.app.APIKeys.ResolveOwner(ctx, "other")
	require.Error(t, err)
}

func TestIntegration_EditedHistoryFeedsSummaries(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	env := newTestEnv(t, memoryConfig(), start)
	sessions := env.app.Sessions

	sess, err := sessions.Start(ctx, owner, session.StartRequest{TaskTypeID: env.types["Deep Work"]})
	require.NoError(t, err)
	env.clock.Advance(3 * time.Hour)

	// Forgot to stop: trim back to one hour.
	end := start.Add(time.Hour)
	_, err = sessions.Edit(ctx, owner, sess.ID, session.EditRequest{EndTime: &end})
	require.NoError(t, err)

	current, err := sessions.GetCurrent(ctx, owner)
	require.NoError(t, err)
	require.Nil(t, current)

	_, err = sessions.CreateManual(ctx, owner, session.ManualRequest{
		TaskTypeID: env.types["Call"],
		StartTime:  start.Add(time.Hour),
		EndTime:    start.Add(90 * time.Minute),
	})
	require.NoError(t, err)

	daily, err := env.app.Analytics.Daily(ctx, owner, time.Time{})
	require.NoError(t, err)
	require.Equal(t, int64(90*60), daily.TotalTrackedSeconds)
	require.Equal(t, "1h 30m", daily.TotalTrackedFormatted)
}
