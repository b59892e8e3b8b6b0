package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhub/task-management/internal/core/domain"
	"github.com/taskhub/task-management/internal/core/ports"
)

const defaultActivityLimit = 50

// ActivityRecorder enqueues audit entries for asynchronous persistence.
// Implemented by the queue dispatcher; recording is best-effort and never
// fails a mutation.
type ActivityRecorder interface {
	Enqueue(entry domain.ActivityEntry)
}

// TaskService implements task CRUD with the owner-or-admin access policy.
type TaskService struct {
	tasks    ports.TaskRepository
	activity ports.ActivityRepository
	recorder ActivityRecorder
	log      zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, activity ports.ActivityRepository, recorder ActivityRecorder, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, activity: activity, recorder: recorder, log: log}
}

// Create stores a new task owned by the acting user.
func (s *TaskService) Create(ctx context.Context, actor domain.AuthContext, in ports.CreateTaskInput) (*domain.Task, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		OwnerID:     actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.log.Error().Err(err).Str("owner_id", actor.UserID).Msg("failed to create task")
		return nil, err
	}

	s.record(created.ID, domain.ActionCreated, actor.UserID, string(created.Status))
	return created, nil
}

// List returns the acting user's own tasks, newest first.
func (s *TaskService) List(ctx context.Context, actor domain.AuthContext, filter ports.TaskFilter) ([]domain.Task, error) {
	return s.tasks.FindAllByOwner(ctx, actor.UserID, filter)
}

// Get returns a task the actor is allowed to see.
func (s *TaskService) Get(ctx context.Context, actor domain.AuthContext, id string) (*domain.Task, error) {
	return s.loadAuthorized(ctx, actor, id)
}

// Update applies a partial update to an authorized task.
func (s *TaskService) Update(ctx context.Context, actor domain.AuthContext, id string, update ports.TaskUpdate) (*domain.Task, error) {
	if update.Status != nil && !domain.ValidStatus(*update.Status) {
		return nil, domain.ErrInvalidStatus
	}
	if _, err := s.loadAuthorized(ctx, actor, id); err != nil {
		return nil, err
	}

	updated, err := s.tasks.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.record(id, domain.ActionUpdated, actor.UserID, string(updated.Status))
	return updated, nil
}

// UpdateStatus sets the task status. Any status may follow any other; there
// is no transition graph to enforce.
func (s *TaskService) UpdateStatus(ctx context.Context, actor domain.AuthContext, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	if _, err := s.loadAuthorized(ctx, actor, id); err != nil {
		return nil, err
	}

	updated, err := s.tasks.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.record(id, domain.ActionStatusChanged, actor.UserID, string(status))
	return updated, nil
}

// Delete removes an authorized task. Deleting an already-deleted id yields
// not found, same as the first delete of a nonexistent id.
func (s *TaskService) Delete(ctx context.Context, actor domain.AuthContext, id string) error {
	if _, err := s.loadAuthorized(ctx, actor, id); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.record(id, domain.ActionDeleted, actor.UserID, "")
	return nil
}

// Activity returns the most recent audit entries for an authorized task.
func (s *TaskService) Activity(ctx context.Context, actor domain.AuthContext, id string, limit int) ([]domain.ActivityEntry, error) {
	if _, err := s.loadAuthorized(ctx, actor, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return s.activity.FindByTask(ctx, id, limit)
}

// loadAuthorized fetches a task and applies the access policy. Existence is
// checked before ownership: a missing task is not found for everyone, an
// existing task owned by someone else is forbidden.
func (s *TaskService) loadAuthorized(ctx context.Context, actor domain.AuthContext, id string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.CanAccess(actor.UserID, actor.Role) {
		return nil, domain.ErrForbidden
	}
	return task, nil
}

func (s *TaskService) record(taskID, action, actorID, status string) {
	if s.recorder == nil {
		return
	}
	s.recorder.Enqueue(domain.ActivityEntry{
		TaskID:    taskID,
		Action:    action,
		ActorID:   actorID,
		Status:    status,
		Timestamp: time.Now().UTC(),
	})
}
