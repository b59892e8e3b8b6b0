package ports

import (
	"context"

	"github.com/taskhub/task-management/internal/core/domain"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// AuthResult couples a freshly issued token with the sanitized account.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
