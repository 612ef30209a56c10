package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/worklog/internal/domain/activity"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/rpggio/worklog/internal/repository"
)

const sessionColumns = `
	id, owner_id, task_type_id, start_time, end_time, interrupted,
	is_manual_entry, notes, edited_by_user, created_at, updated_at`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// SessionRepository implements session.Repository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// WithOwnerTx runs fn in a transaction. The transaction commits only if fn
// returns nil.
func (r *SessionRepository) WithOwnerTx(ctx context.Context, ownerID string, fn func(tx session.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("failed to begin transaction", err)
	}

	if err := fn(&sessionTx{tx: tx, ownerID: ownerID}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("failed to commit transaction", err)
	}
	return nil
}

// GetOpen returns the owner's open session or repository.ErrNotFound.
func (r *SessionRepository) GetOpen(ctx context.Context, ownerID string) (*session.Session, error) {
	return getOpenSession(ctx, r.db, ownerID)
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, ownerID, id string) (*session.Session, error) {
	return getSession(ctx, r.db, ownerID, id)
}

// List returns sessions matching the filters, newest first.
func (r *SessionRepository) List(ctx context.Context, ownerID string, opts session.ListOptions) ([]session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE owner_id = ?`
	args := []any{ownerID}

	if opts.TaskTypeID != "" {
		query += " AND task_type_id = ?"
		args = append(args, opts.TaskTypeID)
	}
	if opts.Interrupted != nil {
		query += " AND interrupted = ?"
		args = append(args, *opts.Interrupted)
	}
	if opts.Manual != nil {
		query += " AND is_manual_entry = ?"
		args = append(args, *opts.Manual)
	}
	if opts.From != nil {
		query += " AND start_time >= ?"
		args = append(args, formatTime(*opts.From))
	}
	if opts.To != nil {
		query += " AND start_time < ?"
		args = append(args, formatTime(*opts.To))
	}

	query += " ORDER BY start_time DESC, id"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	return querySessions(ctx, r.db, query, args...)
}

// ListOverlapping returns sessions that intersect [from, to), including the
// open session, ordered by start time.
func (r *SessionRepository) ListOverlapping(ctx context.Context, ownerID string, from, to time.Time) ([]session.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE owner_id = ? AND start_time < ? AND (end_time IS NULL OR end_time >= ?)
		ORDER BY start_time, id`

	return querySessions(ctx, r.db, query, ownerID, formatTime(to), formatTime(from))
}

// Search performs a full-text search over session notes
func (r *SessionRepository) Search(ctx context.Context, ownerID, query string, limit int) ([]session.SearchResult, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, repository.ErrInvalidInput
	}

	stmt := `
		SELECT
			s.id, s.owner_id, s.task_type_id, s.start_time, s.end_time, s.interrupted,
			s.is_manual_entry, s.notes, s.edited_by_user, s.created_at, s.updated_at,
			snippet(sessions_fts, 0, '[', ']', '...', 10)
		FROM sessions_fts
		JOIN sessions s ON s.rowid = sessions_fts.rowid
		WHERE s.owner_id = ? AND sessions_fts MATCH ?
		ORDER BY rank
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, stmt, ownerID, match, limit)
	if err != nil {
		return nil, storeErr("failed to search sessions", err)
	}
	defer rows.Close()

	var results []session.SearchResult
	for rows.Next() {
		var result session.SearchResult
		var snippet sql.NullString
		sess, err := scanSession(rows, &snippet)
		if err != nil {
			return nil, err
		}
		result.Session = *sess
		result.Snippet = snippet.String
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating search results", err)
	}

	return results, nil
}

// ftsQuery quotes every term so user input never reaches the FTS5 query
// grammar.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		quoted = append(quoted, `"`+strings.ReplaceAll(term, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

// sessionTx implements session.Tx.
type sessionTx struct {
	tx      *sql.Tx
	ownerID string
}

func (t *sessionTx) GetOpen(ctx context.Context) (*session.Session, error) {
	return getOpenSession(ctx, t.tx, t.ownerID)
}

func (t *sessionTx) Get(ctx context.Context, id string) (*session.Session, error) {
	return getSession(ctx, t.tx, t.ownerID, id)
}

func (t *sessionTx) GetTaskType(ctx context.Context, id string) (*tasktype.TaskType, error) {
	return getTaskType(ctx, t.tx, t.ownerID, id)
}

func (t *sessionTx) Create(ctx context.Context, sess *session.Session) error {
	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := t.tx.ExecContext(ctx, query,
		sess.ID,
		t.ownerID,
		sess.TaskTypeID,
		formatTime(sess.StartTime),
		formatTimePtr(sess.EndTime),
		sess.Interrupted,
		sess.IsManualEntry,
		sess.Notes,
		sess.EditedByUser,
		formatTime(sess.CreatedAt),
		formatTime(sess.UpdatedAt),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return repository.ErrConflict
		case isForeignKeyViolation(err):
			return repository.ErrForeignKeyViolation
		}
		return storeErr("failed to create session", err)
	}

	sess.OwnerID = t.ownerID
	return nil
}

func (t *sessionTx) Update(ctx context.Context, sess *session.Session) error {
	query := `
		UPDATE sessions
		SET start_time = ?, end_time = ?, interrupted = ?, notes = ?,
			edited_by_user = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`

	result, err := t.tx.ExecContext(ctx, query,
		formatTime(sess.StartTime),
		formatTimePtr(sess.EndTime),
		sess.Interrupted,
		sess.Notes,
		sess.EditedByUser,
		formatTime(sess.UpdatedAt),
		sess.ID,
		t.ownerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return storeErr("failed to update session", err)
	}

	return requireOneRow(result)
}

func (t *sessionTx) Delete(ctx context.Context, id string) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ? AND owner_id = ?`, id, t.ownerID)
	if err != nil {
		return storeErr("failed to delete session", err)
	}
	return requireOneRow(result)
}

func (t *sessionTx) LogActivity(ctx context.Context, entry *activity.ActivityEntry) error {
	return (&ActivityRepository{q: t.tx}).Log(ctx, t.ownerID, entry)
}

func getOpenSession(ctx context.Context, q querier, ownerID string) (*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE owner_id = ? AND end_time IS NULL`
	sess, err := scanSession(q.QueryRowContext(ctx, query, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return sess, err
}

func getSession(ctx context.Context, q querier, ownerID, id string) (*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ? AND owner_id = ?`
	sess, err := scanSession(q.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return sess, err
}

func querySessions(ctx context.Context, q querier, query string, args ...any) ([]session.Session, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("failed to list sessions", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating session rows", err)
	}

	return sessions, nil
}

// scanSession reads sessionColumns followed by any extra destinations.
func scanSession(row rowScanner, extra ...any) (*session.Session, error) {
	var sess session.Session
	var startTime, createdAt, updatedAt string
	var endTime sql.NullString

	dest := []any{
		&sess.ID,
		&sess.OwnerID,
		&sess.TaskTypeID,
		&startTime,
		&endTime,
		&sess.Interrupted,
		&sess.IsManualEntry,
		&sess.Notes,
		&sess.EditedByUser,
		&createdAt,
		&updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storeErr("failed to scan session", err)
	}

	var err error
	if sess.StartTime, err = parseTime(startTime); err != nil {
		return nil, err
	}
	if sess.EndTime, err = parseNullTime(endTime); err != nil {
		return nil, err
	}
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sess.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &sess, nil
}

func requireOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
