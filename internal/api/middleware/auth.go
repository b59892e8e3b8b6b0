package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-management/internal/core/domain"
	"github.com/taskhub/task-management/internal/core/ports"
)

// authContextKey is where the authenticated identity lives on the echo
// context for the duration of one request.
const authContextKey = "auth_context"

// CurrentUser extracts the identity attached by Authenticate. ok is false
// when the request carried no (valid) credential.
func CurrentUser(c echo.Context) (domain.AuthContext, bool) {
	actor, ok := c.Get(authContextKey).(domain.AuthContext)
	return actor, ok
}

// Authenticate verifies the bearer token and re-resolves the account from
// the store, since token claims may be stale relative to the current user
// record. Every failure mode is a 401; the reason appears only in the
// message.
func Authenticate(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := resolveBearer(c, tokens, users)
			if err != nil {
				return err
			}
			c.Set(authContextKey, actor)
			return next(c)
		}
	}
}

// OptionalAuthenticate is Authenticate that never short-circuits: on any
// failure the request proceeds with no identity attached, and downstream
// logic branches on CurrentUser.
func OptionalAuthenticate(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if actor, err := resolveBearer(c, tokens, users); err == nil {
				c.Set(authContextKey, actor)
			}
			return next(c)
		}
	}
}

func resolveBearer(c echo.Context, tokens ports.TokenService, users ports.UserRepository) (domain.AuthContext, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return domain.AuthContext{}, echo.NewHTTPError(http.StatusUnauthorized, "No token provided. Please login.")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return domain.AuthContext{}, echo.NewHTTPError(http.StatusUnauthorized, "No token provided. Please login.")
	}

	claims, err := tokens.Verify(parts[1])
	if err != nil {
		return domain.AuthContext{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	user, err := users.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.AuthContext{}, echo.NewHTTPError(http.StatusUnauthorized, "User no longer exists")
		}
		// Fail closed: a store fault during authentication must never
		// grant access.
		return domain.AuthContext{}, echo.NewHTTPError(http.StatusUnauthorized, "Authentication failed")
	}

	// Role comes from the current record, not the token, so a role change
	// takes effect on the next request.
	return domain.AuthContext{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}
