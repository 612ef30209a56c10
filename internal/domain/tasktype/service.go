package tasktype

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/worklog/internal/repository"
)

// Service handles task type settings.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new task type service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines task type creation inputs.
type CreateRequest struct {
	Name     string
	Emoji    string
	Color    string
	IsPinned bool
}

// Create adds a task type at the end of the owner's ordering.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*TaskType, error) {
	name := strings.TrimSpace(req.Name)
	if ownerID == "" || name == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.repo.List(ctx, ownerID, ListOptions{IncludeArchived: true})
	if err != nil {
		return nil, fmt.Errorf("listing task types: %w", err)
	}

	tt := &TaskType{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Emoji:     req.Emoji,
		Color:     req.Color,
		IsPinned:  req.IsPinned,
		SortOrder: len(existing),
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, ownerID, tt); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("creating task type: %w", err)
	}
	return tt, nil
}

// Get fetches a task type by ID, archived ones included.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*TaskType, error) {
	tt, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskTypeNotFound
		}
		return nil, fmt.Errorf("getting task type: %w", err)
	}
	return tt, nil
}

// List returns task types ordered by sort order then name.
func (s *Service) List(ctx context.Context, ownerID string, opts ListOptions) ([]TaskType, error) {
	return s.repo.List(ctx, ownerID, opts)
}

// Archive hides a task type from new sessions. History keeps referencing it.
func (s *Service) Archive(ctx context.Context, ownerID, id string) (*TaskType, error) {
	return s.mutate(ctx, ownerID, id, func(tt *TaskType) { tt.IsArchived = true })
}

// Unarchive makes a task type selectable again.
func (s *Service) Unarchive(ctx context.Context, ownerID, id string) (*TaskType, error) {
	return s.mutate(ctx, ownerID, id, func(tt *TaskType) { tt.IsArchived = false })
}

// TogglePin flips the pinned flag.
func (s *Service) TogglePin(ctx context.Context, ownerID, id string) (*TaskType, error) {
	return s.mutate(ctx, ownerID, id, func(tt *TaskType) { tt.IsPinned = !tt.IsPinned })
}

// Reorder assigns sort order by position in ids.
func (s *Service) Reorder(ctx context.Context, ownerID string, ids []string) error {
	if len(ids) == 0 {
		return ErrInvalidInput
	}
	if err := s.repo.Reorder(ctx, ownerID, ids); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskTypeNotFound
		}
		return fmt.Errorf("reordering task types: %w", err)
	}
	return nil
}

// EnsureDefaults seeds the starter task types when the owner has none.
func (s *Service) EnsureDefaults(ctx context.Context, ownerID string) ([]TaskType, error) {
	existing, err := s.repo.List(ctx, ownerID, ListOptions{IncludeArchived: true})
	if err != nil {
		return nil, fmt.Errorf("listing task types: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	now := time.Now()
	created := make([]TaskType, 0, len(Default))
	for i, def := range Default {
		tt := def
		tt.ID = uuid.NewString()
		tt.OwnerID = ownerID
		tt.SortOrder = i
		tt.CreatedAt = now
		if err := s.repo.Create(ctx, ownerID, &tt); err != nil {
			return nil, fmt.Errorf("seeding task type %q: %w", tt.Name, err)
		}
		created = append(created, tt)
	}
	s.logger.Info("seeded default task types", "owner_id", ownerID, "count", len(created))
	return created, nil
}

func (s *Service) mutate(ctx context.Context, ownerID, id string, fn func(*TaskType)) (*TaskType, error) {
	tt, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	fn(tt)
	if err := s.repo.Update(ctx, ownerID, tt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskTypeNotFound
		}
		return nil, fmt.Errorf("updating task type: %w", err)
	}
	return tt, nil
}
