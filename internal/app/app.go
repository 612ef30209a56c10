// Package app wires the store, domain services and surfaces from a Config.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/worklog/internal/clock"
	"github.com/rpggio/worklog/internal/config"
	"github.com/rpggio/worklog/internal/domain/activity"
	"github.com/rpggio/worklog/internal/domain/analytics"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/rpggio/worklog/internal/duration"
	"github.com/rpggio/worklog/internal/mcp"
	"github.com/rpggio/worklog/internal/sqlite"
	"github.com/rpggio/worklog/internal/transport"
)

// MCPSessionTimeout bounds idle streamable HTTP sessions.
const MCPSessionTimeout = 30 * time.Minute

// App holds everything one process needs.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Clock  clock.Clock
	DB     *sqlite.DB

	Sessions  *session.Service
	TaskTypes *tasktype.Service
	Activity  *activity.Service
	Analytics *analytics.Service
	APIKeys   *sqlite.APIKeyRepository
}

// Option adjusts App construction.
type Option func(*App)

// WithClock overrides the system clock.
func WithClock(c clock.Clock) Option {
	return func(a *App) { a.Clock = c }
}

// New opens the database, applies migrations and builds the services.
func New(cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &App{Config: cfg, Logger: logger, Clock: clock.System{}}
	for _, opt := range opts {
		opt(a)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(sqlite.DSN(cfg.DB.Path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	a.DB = db

	sessionRepo := sqlite.NewSessionRepository(db)
	taskTypeRepo := sqlite.NewTaskTypeRepository(db)

	a.TaskTypes = tasktype.NewService(taskTypeRepo, logger)
	a.Activity = activity.NewService(sqlite.NewActivityRepository(db), logger)
	a.Sessions = session.NewService(sessionRepo, logger, session.Options{
		Clock:     a.Clock,
		TxTimeout: cfg.Store.TxTimeout,
	})
	a.Analytics = analytics.NewService(sessionRepo, taskTypeRepo, logger, analytics.Options{
		Location:     loc,
		Thresholds:   duration.Thresholds(cfg.Reporting.HeatmapThresholds),
		Clock:        a.Clock,
		MaxRangeDays: cfg.Reporting.MaxRangeDays,
		Timeout:      cfg.Store.TxTimeout,
	})
	a.APIKeys = sqlite.NewAPIKeyRepository(db)

	return a, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// SeedOwner gives ownerID the default task types if it has none.
func (a *App) SeedOwner(ctx context.Context, ownerID string) error {
	_, err := a.TaskTypes.EnsureDefaults(ctx, ownerID)
	return err
}

// MCPServer builds the MCP server for the given transport mode.
func (a *App) MCPServer(mode string) *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Sessions:  a.Sessions,
			TaskTypes: a.TaskTypes,
			Analytics: a.Analytics,
		},
		Resolver:      a.APIKeys,
		AuthEnabled:   a.Config.Auth.Enabled,
		DefaultOwner:  a.Config.Auth.DefaultOwner,
		TransportMode: mode,
		Clock:         a.Clock,
		Logger:        a.Logger,
	})
}

// Handler builds the HTTP surface: REST under /api and MCP at /mcp.
func (a *App) Handler() http.Handler {
	auth := transport.DefaultOwnerMiddleware(a.Config.Auth.DefaultOwner)
	if a.Config.Auth.Enabled {
		auth = transport.AuthMiddleware(a.APIKeys)
	}

	return transport.NewRouter(transport.Config{
		Sessions:  a.Sessions,
		TaskTypes: a.TaskTypes,
		Activity:  a.Activity,
		Analytics: a.Analytics,
		Auth:      auth,
		MCP:       mcp.NewHTTPHandler(a.MCPServer(config.TransportHTTP), MCPSessionTimeout),
		Logger:    a.Logger,
	})
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
