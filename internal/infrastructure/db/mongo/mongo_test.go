package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhub/task-management/internal/core/domain"
	"github.com/taskhub/task-management/internal/core/ports"
)

// The id-shape checks below run before any collection access, so a zero
// repository is enough to exercise them.

func TestUserRepository_FindByID_InvalidHex(t *testing.T) {
	r := &UserRepository{}

	if _, err := r.FindByID(context.Background(), "not-a-hex-id"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_UpdateLastLogin_InvalidHex(t *testing.T) {
	r := &UserRepository{}

	if err := r.UpdateLastLogin(context.Background(), "not-a-hex-id", time.Now()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTaskRepository_InvalidHexMeansNotFound(t *testing.T) {
	r := &TaskRepository{}
	ctx := context.Background()

	if _, err := r.FindByID(ctx, "nope"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("FindByID: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := r.UpdateStatus(ctx, "nope", domain.StatusCompleted); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("UpdateStatus: expected ErrTaskNotFound, got %v", err)
	}
	if err := r.Delete(ctx, "nope"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("Delete: expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskRepository_FindAllByOwner_InvalidHexIsEmpty(t *testing.T) {
	r := &TaskRepository{}

	tasks, err := r.FindAllByOwner(context.Background(), "nope", ports.TaskFilter{})
	if err != nil {
		t.Fatalf("FindAllByOwner: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty slice, got %v", tasks)
	}
}

func TestMongoUser_ToDomain(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Now().UTC()
	mu := &mongoUser{
		ID:           id,
		Username:     "alice123",
		Email:        "a@x.com",
		PasswordHash: "digest",
		Role:         domain.RoleUser,
		CreatedAt:    at,
		LastLoginAt:  &at,
	}

	u := mu.toDomain()
	if u.ID != id.Hex() || u.Username != "alice123" || u.Email != "a@x.com" {
		t.Fatalf("unexpected mapping: %+v", u)
	}
	if u.LastLoginAt == nil || !u.LastLoginAt.Equal(at) {
		t.Fatalf("last login not mapped: %+v", u.LastLoginAt)
	}
}

func TestMongoTask_ToDomain(t *testing.T) {
	id := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	mt := &mongoTask{
		ID:          id,
		Title:       "write report",
		Description: "quarterly report for the team",
		Status:      string(domain.StatusInProgress),
		OwnerID:     owner,
	}

	task := mt.toDomain()
	if task.ID != id.Hex() || task.OwnerID != owner.Hex() {
		t.Fatalf("ids not mapped to hex: %+v", task)
	}
	if task.Status != domain.StatusInProgress {
		t.Fatalf("status not mapped: %s", task.Status)
	}
}
