package session

import (
	"context"
	"time"

	"github.com/rpggio/worklog/internal/domain/activity"
	"github.com/rpggio/worklog/internal/domain/tasktype"
)

// Repository provides persistence for sessions. Mutations go through
// WithOwnerTx so that reading the open session and writing the change
// commit or roll back together.
type Repository interface {
	WithOwnerTx(ctx context.Context, ownerID string, fn func(tx Tx) error) error
	GetOpen(ctx context.Context, ownerID string) (*Session, error)
	Get(ctx context.Context, ownerID, id string) (*Session, error)
	List(ctx context.Context, ownerID string, opts ListOptions) ([]Session, error)
	ListOverlapping(ctx context.Context, ownerID string, from, to time.Time) ([]Session, error)
	Search(ctx context.Context, ownerID, query string, limit int) ([]SearchResult, error)
}

// Tx is a transaction scoped to a single owner.
type Tx interface {
	GetOpen(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	GetTaskType(ctx context.Context, id string) (*tasktype.TaskType, error)
	Create(ctx context.Context, sess *Session) error
	Update(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
	LogActivity(ctx context.Context, entry *activity.ActivityEntry) error
}
