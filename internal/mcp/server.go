package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/worklog/internal/clock"
	"github.com/rpggio/worklog/internal/domain/analytics"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
)

// SessionService defines session operations needed by MCP.
type SessionService interface {
	GetCurrent(ctx context.Context, ownerID string) (*session.Session, error)
	Start(ctx context.Context, ownerID string, req session.StartRequest) (*session.Session, error)
	Stop(ctx context.Context, ownerID string) (*session.Session, error)
	Interrupt(ctx context.Context, ownerID string, req session.StartRequest) (*session.InterruptResult, error)
	Edit(ctx context.Context, ownerID, sessionID string, req session.EditRequest) (*session.Session, error)
	List(ctx context.Context, ownerID string, opts session.ListOptions) ([]session.Session, error)
}

// TaskTypeService defines task type operations needed by MCP.
type TaskTypeService interface {
	List(ctx context.Context, ownerID string, opts tasktype.ListOptions) ([]tasktype.TaskType, error)
}

// AnalyticsService defines summary operations needed by MCP.
type AnalyticsService interface {
	Daily(ctx context.Context, ownerID string, date time.Time) (*analytics.Summary, error)
	Weekly(ctx context.Context, ownerID string, start, end time.Time) (*analytics.WeeklySummary, error)
	Monthly(ctx context.Context, ownerID string, start, end time.Time) (*analytics.Summary, error)
	Heatmap(ctx context.Context, ownerID string, start, end time.Time) (*analytics.Heatmap, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Sessions  SessionService
	TaskTypes TaskTypeService
	Analytics AnalyticsService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      OwnerResolver
	AuthEnabled   bool
	DefaultOwner  string
	TransportMode string // "stdio" or "http"
	Clock         clock.Clock
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "worklog",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only, so it always acts as the default owner.
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware(cfg.DefaultOwner))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &tools{services: cfg.Services, clock: cfg.Clock})

	return server
}
