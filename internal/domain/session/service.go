package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/worklog/internal/clock"
	"github.com/rpggio/worklog/internal/domain/activity"
	"github.com/rpggio/worklog/internal/repository"
)

const (
	// DefaultTxTimeout bounds lock waits and store transactions.
	DefaultTxTimeout = 5 * time.Second
	// DefaultListLimit caps List when no limit is given.
	DefaultListLimit = 100
)

// Options tunes a Service. Zero values pick defaults.
type Options struct {
	Clock      clock.Clock
	TxTimeout  time.Duration
	LockShards int
}

// Service implements the session state machine: at most one open session
// per owner, with start, stop, interrupt and edit transitions.
type Service struct {
	sessions  Repository
	clock     clock.Clock
	locks     *ownerLocks
	txTimeout time.Duration
	logger    *slog.Logger
}

// NewService creates a new session service.
func NewService(
	sessions Repository,
	logger *slog.Logger,
	opts Options,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.TxTimeout <= 0 {
		opts.TxTimeout = DefaultTxTimeout
	}
	return &Service{
		sessions:  sessions,
		clock:     opts.Clock,
		locks:     newOwnerLocks(opts.LockShards),
		txTimeout: opts.TxTimeout,
		logger:    logger,
	}
}

// GetCurrent returns the owner's open session, or nil when none is open.
func (s *Service) GetCurrent(ctx context.Context, ownerID string) (*Session, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	sess, err := s.sessions.GetOpen(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, storeError("loading open session", err)
	}
	return sess, nil
}

// Start opens a new session. It never closes an existing one: when a session
// is already open it fails with ErrSessionAlreadyOpen and callers must use
// Interrupt instead.
func (s *Service) Start(ctx context.Context, ownerID string, req StartRequest) (*Session, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}

	var started *Session
	err := s.inOwnerTx(ctx, ownerID, func(ctx context.Context, tx Tx) error {
		if err := checkTaskType(ctx, tx, req.TaskTypeID); err != nil {
			return err
		}
		open, err := loadOpen(ctx, tx)
		if err != nil {
			return err
		}
		if open != nil {
			return fmt.Errorf("%w: %s", ErrSessionAlreadyOpen, open.ID)
		}

		started = s.newOpenSession(ownerID, req, s.now())
		return s.createOpen(ctx, tx, started)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session started", "owner_id", ownerID, "session_id", started.ID, "task_type_id", started.TaskTypeID)
	return started, nil
}

// Stop closes the open session at the current instant.
func (s *Service) Stop(ctx context.Context, ownerID string) (*Session, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}

	var stopped *Session
	err := s.inOwnerTx(ctx, ownerID, func(ctx context.Context, tx Tx) error {
		open, err := loadOpen(ctx, tx)
		if err != nil {
			return err
		}
		if open == nil {
			return ErrNoActiveSession
		}

		if err := s.close(ctx, tx, open, s.now(), false); err != nil {
			return err
		}
		stopped = open
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session stopped", "owner_id", ownerID, "session_id", stopped.ID)
	return stopped, nil
}

// Interrupt closes the open session, if any, as interrupted and opens a new
// one. Both boundaries use the same instant so there is no gap or overlap.
func (s *Service) Interrupt(ctx context.Context, ownerID string, req StartRequest) (*InterruptResult, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}

	result := &InterruptResult{}
	err := s.inOwnerTx(ctx, ownerID, func(ctx context.Context, tx Tx) error {
		if err := checkTaskType(ctx, tx, req.TaskTypeID); err != nil {
			return err
		}
		open, err := loadOpen(ctx, tx)
		if err != nil {
			return err
		}

		now := s.now()
		if open != nil {
			if err := s.close(ctx, tx, open, now, true); err != nil {
				return err
			}
			result.Interrupted = open
		}

		result.Started = s.newOpenSession(ownerID, req, now)
		return s.createOpen(ctx, tx, result.Started)
	})
	if err != nil {
		return nil, err
	}

	if result.Interrupted != nil {
		s.logger.Info("session interrupted", "owner_id", ownerID, "session_id", result.Interrupted.ID, "next_session_id", result.Started.ID)
	} else {
		s.logger.Info("session started", "owner_id", ownerID, "session_id", result.Started.ID, "task_type_id", result.Started.TaskTypeID)
	}
	return result, nil
}

// Edit applies user changes to start, end or notes. Setting an end on the
// open session closes it.
func (s *Service) Edit(ctx context.Context, ownerID, sessionID string, req EditRequest) (*Session, error) {
	if ownerID == "" || sessionID == "" {
		return nil, ErrInvalidInput
	}
	if req.StartTime == nil && req.EndTime == nil && req.Notes == nil {
		return nil, ErrInvalidInput
	}

	var edited *Session
	err := s.inOwnerTx(ctx, ownerID, func(ctx context.Context, tx Tx) error {
		sess, err := loadSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		now := s.now()
		start := sess.StartTime
		if req.StartTime != nil {
			start = toInstant(*req.StartTime)
		}
		end := sess.EndTime
		if req.EndTime != nil {
			e := toInstant(*req.EndTime)
			end = &e
		}
		if err := validateRange(start, end, now); err != nil {
			return err
		}

		sess.StartTime = start
		sess.EndTime = end
		if req.Notes != nil {
			sess.Notes = *req.Notes
		}
		sess.EditedByUser = true
		sess.UpdatedAt = now

		if err := tx.Update(ctx, sess); err != nil {
			return fmt.Errorf("updating session: %w", err)
		}
		edited = sess
		return tx.LogActivity(ctx, &activity.ActivityEntry{
			OwnerID:      ownerID,
			SessionID:    sess.ID,
			ActivityType: activity.TypeSessionEdited,
			Summary:      "session edited",
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session edited", "owner_id", ownerID, "session_id", edited.ID, "open", edited.IsOpen())
	return edited, nil
}

// CreateManual records a closed session entered by hand.
func (s *Service) CreateManual(ctx context.Context, ownerID string, req ManualRequest) (*Session, error) {
	if ownerID == "" || req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, ErrInvalidInput
	}

	start := toInstant(req.StartTime)
	end := toInstant(req.EndTime)
	if err := validateRange(start, &end, s.now()); err != nil {
		return nil, err
	}

	var created *Session
	err := s.inOwnerTx(ctx, ownerID, func(ctx context.Context, tx Tx) error {
		if err := checkTaskType(ctx, tx, req.TaskTypeID); err != nil {
			return err
		}
		now := s.now()
		created = &Session{
			ID:            uuid.NewString(),
			OwnerID:       ownerID,
			TaskTypeID:    req.TaskTypeID,
			StartTime:     start,
			EndTime:       &end,
			IsManualEntry: true,
			Notes:         req.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Create(ctx, created); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return ErrInvalidTaskType
			}
			return fmt.Errorf("creating session: %w", err)
		}
		return tx.LogActivity(ctx, &activity.ActivityEntry{
			OwnerID:      ownerID,
			SessionID:    created.ID,
			ActivityType: activity.TypeManualEntryCreated,
			Summary:      "manual entry created",
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Delete removes a closed session. Open sessions must be stopped first.
func (s *Service) Delete(ctx context.Context, ownerID, sessionID string) error {
	if ownerID == "" || sessionID == "" {
		return ErrInvalidInput
	}

	return s.inOwnerTx(ctx, ownerID, func(ctx context.Context, tx Tx) error {
		sess, err := loadSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if sess.IsOpen() {
			return ErrSessionOpen
		}
		if err := tx.Delete(ctx, sessionID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("deleting session: %w", err)
		}
		return tx.LogActivity(ctx, &activity.ActivityEntry{
			OwnerID:      ownerID,
			SessionID:    sessionID,
			ActivityType: activity.TypeSessionDeleted,
			Summary:      "session deleted",
			CreatedAt:    s.now(),
		})
	})
}

// Get fetches one of the owner's sessions.
func (s *Service) Get(ctx context.Context, ownerID, sessionID string) (*Session, error) {
	if ownerID == "" || sessionID == "" {
		return nil, ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	sess, err := s.sessions.Get(ctx, ownerID, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, storeError("loading session", err)
	}
	return sess, nil
}

// List returns the owner's sessions, newest first.
func (s *Service) List(ctx context.Context, ownerID string, opts ListOptions) ([]Session, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	sessions, err := s.sessions.List(ctx, ownerID, opts)
	if err != nil {
		return nil, storeError("listing sessions", err)
	}
	return sessions, nil
}

// Search finds sessions whose notes match query.
func (s *Service) Search(ctx context.Context, ownerID, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if ownerID == "" || query == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	results, err := s.sessions.Search(ctx, ownerID, query, limit)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, ErrInvalidInput
		}
		return nil, storeError("searching sessions", err)
	}
	return results, nil
}

// inOwnerTx runs fn under the owner's lock inside one store transaction,
// bounded by the transaction timeout.
func (s *Service) inOwnerTx(ctx context.Context, ownerID string, fn func(ctx context.Context, tx Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	release, err := s.locks.acquire(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("%w: waiting for owner lock: %w", ErrStoreUnavailable, err)
	}
	defer release()

	err = s.sessions.WithOwnerTx(ctx, ownerID, func(tx Tx) error {
		return fn(ctx, tx)
	})
	if err = storeError("session transaction", err); errors.Is(err, ErrStoreUnavailable) {
		s.logger.Error("session store unavailable", "owner_id", ownerID, "error", err)
	}
	return err
}

// checkTaskType must run in the transaction that writes the session.
func checkTaskType(ctx context.Context, tx Tx, taskTypeID string) error {
	if strings.TrimSpace(taskTypeID) == "" {
		return ErrInvalidTaskType
	}

	tt, err := tx.GetTaskType(ctx, taskTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s not found", ErrInvalidTaskType, taskTypeID)
		}
		return fmt.Errorf("loading task type: %w", err)
	}
	if tt.IsArchived {
		return fmt.Errorf("%w: %s is archived", ErrInvalidTaskType, taskTypeID)
	}
	return nil
}

func (s *Service) newOpenSession(ownerID string, req StartRequest, now time.Time) *Session {
	return &Session{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		TaskTypeID: req.TaskTypeID,
		StartTime:  now,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *Service) createOpen(ctx context.Context, tx Tx, sess *Session) error {
	if err := tx.Create(ctx, sess); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return ErrSessionAlreadyOpen
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return ErrInvalidTaskType
		}
		return fmt.Errorf("creating session: %w", err)
	}
	return tx.LogActivity(ctx, &activity.ActivityEntry{
		OwnerID:      sess.OwnerID,
		SessionID:    sess.ID,
		ActivityType: activity.TypeSessionStarted,
		Summary:      "session started",
		CreatedAt:    sess.StartTime,
	})
}

func (s *Service) close(ctx context.Context, tx Tx, sess *Session, end time.Time, interrupted bool) error {
	if end.Before(sess.StartTime) {
		return fmt.Errorf("%w: now %s is before session start %s", ErrClockSkew, end.Format(time.RFC3339Nano), sess.StartTime.Format(time.RFC3339Nano))
	}

	sess.EndTime = &end
	sess.Interrupted = interrupted
	sess.UpdatedAt = end
	if err := tx.Update(ctx, sess); err != nil {
		return fmt.Errorf("closing session: %w", err)
	}

	entryType, summary := activity.TypeSessionStopped, "session stopped"
	if interrupted {
		entryType, summary = activity.TypeSessionInterrupted, "session interrupted"
	}
	return tx.LogActivity(ctx, &activity.ActivityEntry{
		OwnerID:      sess.OwnerID,
		SessionID:    sess.ID,
		ActivityType: entryType,
		Summary:      summary,
		CreatedAt:    end,
	})
}

// now is the transition instant. Session boundaries are whole seconds.
func (s *Service) now() time.Time {
	return toInstant(s.clock.Now())
}

func toInstant(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func loadOpen(ctx context.Context, tx Tx) (*Session, error) {
	open, err := tx.GetOpen(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading open session: %w", err)
	}
	return open, nil
}

func loadSession(ctx context.Context, tx Tx, id string) (*Session, error) {
	sess, err := tx.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

// storeError marks timeouts and busy stores as ErrStoreUnavailable and passes
// every other error through.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	if errors.Is(err, repository.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	return err
}
