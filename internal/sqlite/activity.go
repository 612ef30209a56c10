package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/worklog/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite. Bound to a
// transaction it also backs session.Tx.LogActivity.
type ActivityRepository struct {
	q querier
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{q: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, ownerID string, entry *activity.ActivityEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := r.q.ExecContext(ctx, `
		INSERT INTO activity_log (owner_id, session_id, activity_type, summary, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		ownerID,
		entry.SessionID,
		entry.ActivityType,
		entry.Summary,
		formatTime(createdAt),
	)
	if err != nil {
		return storeErr("failed to log activity", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	entry.OwnerID = ownerID
	entry.CreatedAt = createdAt.UTC()

	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, ownerID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := `
		SELECT id, owner_id, session_id, activity_type, summary, created_at
		FROM activity_log
		WHERE owner_id = ?
	`

	args := []any{ownerID}
	var conditions []string

	if opts.SessionID != nil {
		conditions = append(conditions, "session_id = ?")
		args = append(args, *opts.SessionID)
	}
	if opts.ActivityType != nil {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, *opts.ActivityType)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("failed to list activity", err)
	}
	defer rows.Close()

	var entries []activity.ActivityEntry
	for rows.Next() {
		var entry activity.ActivityEntry
		var createdAt string
		if err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.SessionID,
			&entry.ActivityType,
			&entry.Summary,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		if entry.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
