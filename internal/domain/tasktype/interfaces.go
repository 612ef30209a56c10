package tasktype

import "context"

// Repository provides persistence operations for task types.
type Repository interface {
	Create(ctx context.Context, ownerID string, tt *TaskType) error
	Get(ctx context.Context, ownerID, id string) (*TaskType, error)
	List(ctx context.Context, ownerID string, opts ListOptions) ([]TaskType, error)
	Update(ctx context.Context, ownerID string, tt *TaskType) error
	Reorder(ctx context.Context, ownerID string, ids []string) error
}
