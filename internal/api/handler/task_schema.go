package handler

import "github.com/taskhub/task-management/internal/core/domain"

type createTaskRequest struct {
	Title       string `json:"title"       validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,min=10,max=2000"`
	Status      string `json:"status"      validate:"omitempty,oneof=pending in-progress completed"`
}

type updateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in-progress completed"`
}

// updateTaskRequest is the partial-update schema: no field is individually
// required, but the handler rejects a body where all are absent.
type updateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=3,max=200"`
	Description *string `json:"description" validate:"omitempty,min=10,max=2000"`
	Status      *string `json:"status"      validate:"omitempty,oneof=pending in-progress completed"`
}

func (r *updateTaskRequest) empty() bool {
	return r.Title == nil && r.Description == nil && r.Status == nil
}

type taskData struct {
	Task *domain.Task `json:"task"`
}

type taskListData struct {
	Tasks []domain.Task `json:"tasks"`
	Count int           `json:"count"`
}

type activityData struct {
	Activity []domain.ActivityEntry `json:"activity"`
	Count    int                    `json:"count"`
}
