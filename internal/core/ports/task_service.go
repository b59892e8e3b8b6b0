package ports

import (
	"context"

	"github.com/taskhub/task-management/internal/core/domain"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
}

// TaskService applies the owner-or-admin access policy on top of the task
// repository. Every operation that touches an existing task checks existence
// first (not found) and ownership second (forbidden).
type TaskService interface {
	Create(ctx context.Context, actor domain.AuthContext, in CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, actor domain.AuthContext, filter TaskFilter) ([]domain.Task, error)
	Get(ctx context.Context, actor domain.AuthContext, id string) (*domain.Task, error)
	Update(ctx context.Context, actor domain.AuthContext, id string, update TaskUpdate) (*domain.Task, error)
	UpdateStatus(ctx context.Context, actor domain.AuthContext, id string, status domain.TaskStatus) (*domain.Task, error)
	Delete(ctx context.Context, actor domain.AuthContext, id string) error
	Activity(ctx context.Context, actor domain.AuthContext, id string, limit int) ([]domain.ActivityEntry, error)
}
