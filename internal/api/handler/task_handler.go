package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-management/internal/api/metrics"
	"github.com/taskhub/task-management/internal/core/domain"
	"github.com/taskhub/task-management/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /tasks. The authenticated caller becomes the owner.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.service.Create(c.Request().Context(), actor, ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
	})
	if err != nil {
		return err
	}
	metrics.TasksCreatedTotal.WithLabelValues(string(task.Status)).Inc()

	return respond(c, http.StatusCreated, "Task created successfully", taskData{Task: task})
}

// List handles GET /tasks, returning the caller's own tasks newest first,
// optionally filtered by status.
//
// @Summary      List own tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {object}  Envelope
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	filter := ports.TaskFilter{Status: domain.TaskStatus(c.QueryParam("status"))}
	tasks, err := h.service.List(c.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	return respond(c, http.StatusOK, "Tasks retrieved successfully", taskListData{
		Tasks: tasks,
		Count: len(tasks),
	})
}

// Get handles GET /tasks/:id.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Task ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Task retrieved successfully", taskData{Task: task})
}

// UpdateStatus handles PATCH /tasks/:id, a status-only update.
//
// @Summary      Update task status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Task ID"
// @Param        body  body      updateTaskStatusRequest  true  "New status"
// @Success      200   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req updateTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.service.UpdateStatus(c.Request().Context(), actor, c.Param("id"), domain.TaskStatus(req.Status))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Task status updated successfully", taskData{Task: task})
}

// Update handles PUT /tasks/:id, a partial update of title, description,
// and/or status. At least one recognized field must be present.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Fields to update"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.empty() {
		return &ValidationError{Fields: []FieldError{
			{Field: "body", Message: "at least one field is required"},
		}}
	}

	update := ports.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		update.Status = &status
	}

	task, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), update)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Task updated successfully", taskData{Task: task})
}

// Delete handles DELETE /tasks/:id. Deleting an already-deleted task yields
// not found, same as the first attempt on a nonexistent id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Task ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Task deleted successfully", nil)
}

// Activity handles GET /tasks/:id/activity, the audit trail for a task.
//
// @Summary      Task activity
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Task ID"
// @Param        limit  query     int     false  "Max entries"
// @Success      200    {object}  Envelope
// @Failure      403    {object}  Envelope
// @Failure      404    {object}  Envelope
// @Router       /tasks/{id}/activity [get]
func (h *TaskHandler) Activity(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.service.Activity(c.Request().Context(), actor, c.Param("id"), limit)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.ActivityEntry{}
	}

	return respond(c, http.StatusOK, "Task activity retrieved successfully", activityData{
		Activity: entries,
		Count:    len(entries),
	})
}
