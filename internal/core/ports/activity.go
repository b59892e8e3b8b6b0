package ports

import (
	"context"

	"github.com/taskhub/task-management/internal/core/domain"
)

// ActivityRepository persists and reads the task audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityEntry) error
	FindByTask(ctx context.Context, taskID string, limit int) ([]domain.ActivityEntry, error)
}

// ActivityService consumes entries delivered by the queue dispatcher.
type ActivityService interface {
	Record(ctx context.Context, entry domain.ActivityEntry) error
}
