package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/rpggio/worklog/internal/repository"
)

const taskTypeColumns = `id, owner_id, name, emoji, color, is_pinned, is_archived, sort_order, created_at`

// TaskTypeRepository implements tasktype.Repository for SQLite
type TaskTypeRepository struct {
	db *DB
}

// NewTaskTypeRepository creates a new TaskTypeRepository
func NewTaskTypeRepository(db *DB) *TaskTypeRepository {
	return &TaskTypeRepository{db: db}
}

// Create creates a new task type
func (r *TaskTypeRepository) Create(ctx context.Context, ownerID string, tt *tasktype.TaskType) error {
	query := `INSERT INTO task_types (` + taskTypeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		tt.ID,
		ownerID,
		tt.Name,
		tt.Emoji,
		tt.Color,
		tt.IsPinned,
		tt.IsArchived,
		tt.SortOrder,
		formatTime(tt.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return storeErr("failed to create task type", err)
	}

	tt.OwnerID = ownerID
	return nil
}

// Get retrieves a task type by ID
func (r *TaskTypeRepository) Get(ctx context.Context, ownerID, id string) (*tasktype.TaskType, error) {
	return getTaskType(ctx, r.db, ownerID, id)
}

func getTaskType(ctx context.Context, q querier, ownerID, id string) (*tasktype.TaskType, error) {
	query := `SELECT ` + taskTypeColumns + ` FROM task_types WHERE id = ? AND owner_id = ?`

	tt, err := scanTaskType(q.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return tt, err
}

// List returns the owner's task types ordered by sort order then name
func (r *TaskTypeRepository) List(ctx context.Context, ownerID string, opts tasktype.ListOptions) ([]tasktype.TaskType, error) {
	query := `SELECT ` + taskTypeColumns + ` FROM task_types WHERE owner_id = ?`
	if !opts.IncludeArchived {
		query += " AND is_archived = 0"
	}
	if opts.PinnedOnly {
		query += " AND is_pinned = 1"
	}
	query += " ORDER BY sort_order, name"

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, storeErr("failed to list task types", err)
	}
	defer rows.Close()

	var taskTypes []tasktype.TaskType
	for rows.Next() {
		tt, err := scanTaskType(rows)
		if err != nil {
			return nil, err
		}
		taskTypes = append(taskTypes, *tt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task type rows: %w", err)
	}

	return taskTypes, nil
}

// Update updates an existing task type
func (r *TaskTypeRepository) Update(ctx context.Context, ownerID string, tt *tasktype.TaskType) error {
	query := `
		UPDATE task_types
		SET name = ?, emoji = ?, color = ?, is_pinned = ?, is_archived = ?, sort_order = ?
		WHERE id = ? AND owner_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		tt.Name,
		tt.Emoji,
		tt.Color,
		tt.IsPinned,
		tt.IsArchived,
		tt.SortOrder,
		tt.ID,
		ownerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return storeErr("failed to update task type", err)
	}

	return requireOneRow(result)
}

// Reorder sets sort_order to each ID's position. Unknown IDs roll back the
// whole reorder.
func (r *TaskTypeRepository) Reorder(ctx context.Context, ownerID string, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, id := range ids {
		result, err := tx.ExecContext(ctx,
			`UPDATE task_types SET sort_order = ? WHERE id = ? AND owner_id = ?`,
			i, id, ownerID)
		if err != nil {
			return storeErr("failed to reorder task types", err)
		}
		if err := requireOneRow(result); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("failed to commit reorder", err)
	}
	return nil
}

func scanTaskType(row rowScanner) (*tasktype.TaskType, error) {
	var tt tasktype.TaskType
	var createdAt string
	err := row.Scan(
		&tt.ID,
		&tt.OwnerID,
		&tt.Name,
		&tt.Emoji,
		&tt.Color,
		&tt.IsPinned,
		&tt.IsArchived,
		&tt.SortOrder,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storeErr("failed to scan task type", err)
	}
	if tt.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &tt, nil
}
