// Package testserver runs the full HTTP surface against an in-memory store.
package testserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/worklog/internal/app"
	"github.com/rpggio/worklog/internal/clock"
	"github.com/rpggio/worklog/internal/config"
	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/stretchr/testify/require"
)

// Start is the initial reading of every test server's clock.
var Start = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type TestServer struct {
	Server  *httptest.Server
	App     *app.App
	Clock   *clock.Manual
	Token   string
	OwnerID string
}

// New starts a server with auth enabled and one API key for ownerID. The
// owner is seeded with the default task types.
func New(t *testing.T, token, ownerID string) *TestServer {
	t.Helper()

	cfg := config.Default()
	cfg.DB.Path = ":memory:"

	clk := clock.NewManual(Start)
	a, err := app.New(cfg, nil, app.WithClock(clk))
	require.NoError(t, err)

	server := httptest.NewServer(a.Handler())

	ts := &TestServer{
		Server:  server,
		App:     a,
		Clock:   clk,
		Token:   token,
		OwnerID: ownerID,
	}

	require.NoError(t, ts.AddAPIKey(token, ownerID))

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return ts
}

// AddAPIKey registers token for ownerID and seeds the owner's task types.
func (ts *TestServer) AddAPIKey(token, ownerID string) error {
	ctx := context.Background()
	if err := ts.App.APIKeys.Add(ctx, ownerID, token, "test"); err != nil {
		return err
	}
	return ts.App.SeedOwner(ctx, ownerID)
}

// TaskTypeID returns the ID of ownerID's task type called name.
func (ts *TestServer) TaskTypeID(t *testing.T, ownerID, name string) string {
	t.Helper()
	list, err := ts.App.TaskTypes.List(context.Background(), ownerID, tasktype.ListOptions{IncludeArchived: true})
	require.NoError(t, err)
	for _, tt := range list {
		if tt.Name == name {
			return tt.ID
		}
	}
	t.Fatalf("task type %q not found for %s", name, ownerID)
	return ""
}
