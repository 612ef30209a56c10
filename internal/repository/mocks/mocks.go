package mocks

import (
	"context"
	"time"

	"github.com/rpggio/worklog/internal/domain/activity"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/stretchr/testify/mock"
)

// TaskTypeRepository is a mock for tasktype.Repository.
type TaskTypeRepository struct {
	mock.Mock
}

func (m *TaskTypeRepository) Create(ctx context.Context, ownerID string, tt *tasktype.TaskType) error {
	args := m.Called(ctx, ownerID, tt)
	return args.Error(0)
}

func (m *TaskTypeRepository) Get(ctx context.Context, ownerID, id string) (*tasktype.TaskType, error) {
	args := m.Called(ctx, ownerID, id)
	if tt, ok := args.Get(0).(*tasktype.TaskType); ok {
		return tt, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskTypeRepository) List(ctx context.Context, ownerID string, opts tasktype.ListOptions) ([]tasktype.TaskType, error) {
	args := m.Called(ctx, ownerID, opts)
	if list, ok := args.Get(0).([]tasktype.TaskType); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskTypeRepository) Update(ctx context.Context, ownerID string, tt *tasktype.TaskType) error {
	args := m.Called(ctx, ownerID, tt)
	return args.Error(0)
}

func (m *TaskTypeRepository) Reorder(ctx context.Context, ownerID string, ids []string) error {
	args := m.Called(ctx, ownerID, ids)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) List(ctx context.Context, ownerID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, ownerID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SessionRepository is a mock for session.Repository. WithOwnerTx runs the
// callback against Tx unless the expectation returns an error.
type SessionRepository struct {
	mock.Mock
	Tx *SessionTx
}

func (m *SessionRepository) WithOwnerTx(ctx context.Context, ownerID string, fn func(tx session.Tx) error) error {
	args := m.Called(ctx, ownerID)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Tx)
}

func (m *SessionRepository) GetOpen(ctx context.Context, ownerID string) (*session.Session, error) {
	args := m.Called(ctx, ownerID)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Get(ctx context.Context, ownerID, id string) (*session.Session, error) {
	args := m.Called(ctx, ownerID, id)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) List(ctx context.Context, ownerID string, opts session.ListOptions) ([]session.Session, error) {
	args := m.Called(ctx, ownerID, opts)
	if list, ok := args.Get(0).([]session.Session); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) ListOverlapping(ctx context.Context, ownerID string, from, to time.Time) ([]session.Session, error) {
	args := m.Called(ctx, ownerID, from, to)
	if list, ok := args.Get(0).([]session.Session); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Search(ctx context.Context, ownerID, query string, limit int) ([]session.SearchResult, error) {
	args := m.Called(ctx, ownerID, query, limit)
	if list, ok := args.Get(0).([]session.SearchResult); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SessionTx is a mock for session.Tx.
type SessionTx struct {
	mock.Mock
}

func (m *SessionTx) GetOpen(ctx context.Context) (*session.Session, error) {
	args := m.Called(ctx)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionTx) Get(ctx context.Context, id string) (*session.Session, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionTx) GetTaskType(ctx context.Context, id string) (*tasktype.TaskType, error) {
	args := m.Called(ctx, id)
	if tt, ok := args.Get(0).(*tasktype.TaskType); ok {
		return tt, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionTx) Create(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionTx) Update(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionTx) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SessionTx) LogActivity(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
