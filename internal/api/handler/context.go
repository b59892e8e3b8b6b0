package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-management/internal/api/middleware"
	"github.com/taskhub/task-management/internal/core/domain"
)

// currentActor extracts the identity attached by the Authenticate
// middleware. Its absence on a protected route means the route was wired
// without the middleware; reject rather than proceed unauthenticated.
func currentActor(c echo.Context) (domain.AuthContext, error) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.AuthContext{}, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return actor, nil
}
