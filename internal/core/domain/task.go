package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

var ErrTaskNotFound = errors.New("task not found")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidStatus = errors.New("invalid task status")

// ValidStatus reports whether s is one of the three recognised statuses.
// There is no transition graph: any status may follow any other, including
// completed back to pending.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is the core resource. OwnerID is set at creation and immutable.
type Task struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Status      TaskStatus `json:"status" bson:"status"`
	OwnerID     string     `json:"owner_id" bson:"owner_id"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// CanAccess applies the uniform resource access rule: the task's owner and
// any admin may read or mutate it.
func (t *Task) CanAccess(userID, role string) bool {
	return t.OwnerID == userID || role == RoleAdmin
}
