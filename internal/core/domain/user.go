package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrUsernameTaken = errors.New("username already taken")

// ErrCorruptedCredential signals a password digest that bcrypt cannot parse.
// The affected account cannot authenticate until the record is repaired; the
// failure is scoped to that single login attempt.
var ErrCorruptedCredential = errors.New("corrupted credential record")

// ValidRole reports whether role is one of the two recognised role tags.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User models a registered account. PasswordHash never crosses the API
// boundary; the json tag enforces that on every serialisation path.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}
