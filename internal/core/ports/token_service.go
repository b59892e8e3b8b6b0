package ports

import "github.com/taskhub/task-management/internal/core/domain"

// TokenService issues and verifies signed, time-bound identity tokens.
// Verification is a pure function of the token and the signing secret; no
// server-side state is consulted.
type TokenService interface {
	Issue(userID, role string) (string, error)
	Verify(token string) (*domain.TokenClaims, error)
}
