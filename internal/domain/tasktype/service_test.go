package tasktype_test

import (
	"context"
	"testing"

	"github.com/rpggio/worklog/internal/domain/tasktype"
	"github.com/rpggio/worklog/internal/repository"
	"github.com/rpggio/worklog/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTaskTypeService_CreateAppendsSortOrder(t *testing.T) {
	ctx := context.Background()
	ownerID := "owner1"

	repo := &mocks.TaskTypeRepository{}
	repo.On("List", ctx, ownerID, tasktype.ListOptions{IncludeArchived: true}).Return([]tasktype.TaskType{
		{ID: "a"}, {ID: "b"},
	}, nil)
	repo.On("Create", ctx, ownerID, mock.Anything).Return(nil)

	svc := tasktype.NewService(repo, nil)
	tt, err := svc.Create(ctx, ownerID, tasktype.CreateRequest{Name: "  Review  ", Emoji: "🔍"})
	require.NoError(t, err)
	require.NotEmpty(t, tt.ID)
	require.Equal(t, "Review", tt.Name)
	require.Equal(t, 2, tt.SortOrder)
}

func TestTaskTypeService_CreateValidation(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TaskTypeRepository{}
	svc := tasktype.NewService(repo, nil)
	_, err := svc.Create(ctx, "owner1", tasktype.CreateRequest{Name: " "})
	require.ErrorIs(t, err, tasktype.ErrInvalidInput)
}

func TestTaskTypeService_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	ownerID := "owner1"

	repo := &mocks.TaskTypeRepository{}
	repo.On("List", ctx, ownerID, tasktype.ListOptions{IncludeArchived: true}).Return([]tasktype.TaskType{}, nil)
	repo.On("Create", ctx, ownerID, mock.Anything).Return(repository.ErrConflict)

	svc := tasktype.NewService(repo, nil)
	_, err := svc.Create(ctx, ownerID, tasktype.CreateRequest{Name: "Email"})
	require.ErrorIs(t, err, tasktype.ErrDuplicateName)
}

func TestTaskTypeService_ArchiveAndPin(t *testing.T) {
	ctx := context.Background()
	ownerID := "owner1"

	repo := &mocks.TaskTypeRepository{}
	repo.On("Get", ctx, ownerID, "tt1").Return(&tasktype.TaskType{ID: "tt1", Name: "Email"}, nil)
	repo.On("Update", ctx, ownerID, mock.Anything).Return(nil)

	svc := tasktype.NewService(repo, nil)
	tt, err := svc.Archive(ctx, ownerID, "tt1")
	require.NoError(t, err)
	require.True(t, tt.IsArchived)

	tt, err = svc.TogglePin(ctx, ownerID, "tt1")
	require.NoError(t, err)
	require.True(t, tt.IsPinned)
}

func TestTaskTypeService_GetNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.TaskTypeRepository{}
	repo.On("Get", ctx, "owner1", "missing").Return((*tasktype.TaskType)(nil), repository.ErrNotFound)

	svc := tasktype.NewService(repo, nil)
	_, err := svc.Unarchive(ctx, "owner1", "missing")
	require.ErrorIs(t, err, tasktype.ErrTaskTypeNotFound)
}

func TestTaskTypeService_EnsureDefaults(t *testing.T) {
	ctx := context.Background()
	ownerID := "owner1"

	repo := &mocks.TaskTypeRepository{}
	repo.On("List", ctx, ownerID, tasktype.ListOptions{IncludeArchived: true}).Return([]tasktype.TaskType{}, nil)
	repo.On("Create", ctx, ownerID, mock.Anything).Return(nil)

	svc := tasktype.NewService(repo, nil)
	created, err := svc.EnsureDefaults(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, created, len(tasktype.Default))
	require.Equal(t, 0, created[0].SortOrder)
	require.Equal(t, len(tasktype.Default)-1, created[len(created)-1].SortOrder)
	repo.AssertNumberOfCalls(t, "Create", len(tasktype.Default))
}
