package analytics

import (
	"context"
	"time"

	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
)

// SessionSource reads sessions intersecting [from, to), open ones included.
type SessionSource interface {
	ListOverlapping(ctx context.Context, ownerID string, from, to time.Time) ([]session.Session, error)
}

// TaskTypeSource supplies task type metadata for attribution.
type TaskTypeSource interface {
	List(ctx context.Context, ownerID string, opts tasktype.ListOptions) ([]tasktype.TaskType, error)
}
