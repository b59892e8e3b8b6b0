package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskhub/task-management/internal/core/domain"
	"github.com/taskhub/task-management/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns the ActivityService implementation backing the
// queue dispatcher workers.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Record persists a single audit entry.
func (s *activityService) Record(ctx context.Context, entry domain.ActivityEntry) error {
	if err := s.repo.Insert(ctx, &entry); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	s.log.Debug().
		Str("task_id", entry.TaskID).
		Str("action", entry.Action).
		Msg("activity recorded")
	return nil
}
