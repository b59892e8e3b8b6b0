package handler

import "github.com/taskhub/task-management/internal/core/domain"

type registerRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authData is the payload of register/login responses. The user is already
// sanitized: the password digest is excluded at the type level.
type authData struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type profileData struct {
	User *domain.User `json:"user"`
}
