package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/worklog/internal/domain/activity"
	"github.com/rpggio/worklog/internal/domain/analytics"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
)

// SessionService is the session surface served over REST.
type SessionService interface {
	GetCurrent(ctx context.Context, ownerID string) (*session.Session, error)
	Start(ctx context.Context, ownerID string, req session.StartRequest) (*session.Session, error)
	Stop(ctx context.Context, ownerID string) (*session.Session, error)
	Interrupt(ctx context.Context, ownerID string, req session.StartRequest) (*session.InterruptResult, error)
	Edit(ctx context.Context, ownerID, sessionID string, req session.EditRequest) (*session.Session, error)
	CreateManual(ctx context.Context, ownerID string, req session.ManualRequest) (*session.Session, error)
	Delete(ctx context.Context, ownerID, sessionID string) error
	Get(ctx context.Context, ownerID, sessionID string) (*session.Session, error)
	List(ctx context.Context, ownerID string, opts session.ListOptions) ([]session.Session, error)
	Search(ctx context.Context, ownerID, query string, limit int) ([]session.SearchResult, error)
}

// TaskTypeService is the task type surface served over REST.
type TaskTypeService interface {
	Create(ctx context.Context, ownerID string, req tasktype.CreateRequest) (*tasktype.TaskType, error)
	List(ctx context.Context, ownerID string, opts tasktype.ListOptions) ([]tasktype.TaskType, error)
	Archive(ctx context.Context, ownerID, id string) (*tasktype.TaskType, error)
	Unarchive(ctx context.Context, ownerID, id string) (*tasktype.TaskType, error)
	TogglePin(ctx context.Context, ownerID, id string) (*tasktype.TaskType, error)
	Reorder(ctx context.Context, ownerID string, ids []string) error
}

// ActivityService lists recent transitions.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, ownerID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// AnalyticsService computes summaries.
type AnalyticsService interface {
	Daily(ctx context.Context, ownerID string, date time.Time) (*analytics.Summary, error)
	Weekly(ctx context.Context, ownerID string, start, end time.Time) (*analytics.WeeklySummary, error)
	Monthly(ctx context.Context, ownerID string, start, end time.Time) (*analytics.Summary, error)
	Heatmap(ctx context.Context, ownerID string, start, end time.Time) (*analytics.Heatmap, error)
}

// Config wires the router.
type Config struct {
	Sessions  SessionService
	TaskTypes TaskTypeService
	Activity  ActivityService
	Analytics AnalyticsService

	// Auth guards /api. Nil leaves /api open, which only makes sense with
	// DefaultOwnerMiddleware.
	Auth func(http.Handler) http.Handler

	// MCP is mounted at /mcp when set. It authenticates on its own.
	MCP http.Handler

	Logger *slog.Logger
}

// Server holds the REST handlers.
type Server struct {
	sessions  SessionService
	taskTypes TaskTypeService
	activity  ActivityService
	analytics AnalyticsService
}

// NewRouter creates the HTTP router with middleware.
func NewRouter(cfg Config) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	srv := &Server{
		sessions:  cfg.Sessions,
		taskTypes: cfg.TaskTypes,
		activity:  cfg.Activity,
		analytics: cfg.Analytics,
	}

	r.Get("/health", srv.handleHealth)
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
		r.Handle("/mcp/*", cfg.MCP)
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/current", srv.owned(srv.handleGetCurrent))
			r.Post("/start", srv.owned(srv.handleStart))
			r.Post("/stop", srv.owned(srv.handleStop))
			r.Post("/interrupt", srv.owned(srv.handleInterrupt))
			r.Get("/search", srv.owned(srv.handleSearch))
			r.Get("/", srv.owned(srv.handleListSessions))
			r.Post("/", srv.owned(srv.handleCreateManual))
			r.Get("/{id}", srv.owned(srv.handleGetSession))
			r.Patch("/{id}", srv.owned(srv.handleEditSession))
			r.Delete("/{id}", srv.owned(srv.handleDeleteSession))
		})

		r.Route("/task-types", func(r chi.Router) {
			r.Get("/", srv.owned(srv.handleListTaskTypes))
			r.Post("/", srv.owned(srv.handleCreateTaskType))
			r.Post("/reorder", srv.owned(srv.handleReorderTaskTypes))
			r.Post("/{id}/archive", srv.owned(srv.taskTypeAction(srv.taskTypes.Archive)))
			r.Post("/{id}/unarchive", srv.owned(srv.taskTypeAction(srv.taskTypes.Unarchive)))
			r.Post("/{id}/pin", srv.owned(srv.taskTypeAction(srv.taskTypes.TogglePin)))
		})

		r.Get("/activity", srv.owned(srv.handleActivity))

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/daily", srv.owned(srv.handleDaily))
			r.Get("/weekly", srv.owned(srv.handleWeekly))
			r.Get("/monthly", srv.owned(srv.handleMonthly))
			r.Get("/heatmap", srv.owned(srv.handleHeatmap))
		})
	})

	return r
}

type ownedHandler func(w http.ResponseWriter, r *http.Request, ownerID string)

// owned resolves the request's owner before calling h.
func (s *Server) owned(h ownedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := OwnerFromContext(r.Context())
		if !ok {
			writeUnauthorized(w, "missing owner")
			return
		}
		h(w, r, ownerID)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
