package domain

import "time"

// Activity actions recorded in the task audit trail.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionStatusChanged = "status_changed"
	ActionDeleted       = "deleted"
)

// ActivityEntry is one audit record for a task mutation. Entries are written
// asynchronously and best-effort; they never gate the mutation itself.
type ActivityEntry struct {
	TaskID    string    `json:"task_id"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
