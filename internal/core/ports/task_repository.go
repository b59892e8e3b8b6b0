package ports

import (
	"context"

	"github.com/taskhub/task-management/internal/core/domain"
)

// TaskFilter narrows FindAllByOwner. A zero value applies no filtering.
type TaskFilter struct {
	Status domain.TaskStatus
}

// TaskUpdate is a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
}

// TaskRepository defines the persistence capability set for tasks. An ID
// that does not match the store's identifier format is treated as not found,
// never as an error.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	FindAllByOwner(ctx context.Context, ownerID string, filter TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, id string, update TaskUpdate) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
