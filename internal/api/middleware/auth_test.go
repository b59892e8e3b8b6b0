package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-management/internal/core/domain"
	"github.com/taskhub/task-management/internal/core/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubUserRepo struct {
	users map[string]*domain.User
	err   error
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, _ *domain.User) (*domain.User, error) {
	return nil, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, _ string, _ time.Time) error {
	return nil
}

func newTokenService(t *testing.T) *service.TokenService {
	t.Helper()
	tokens, err := service.NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return tokens
}

func issueToken(t *testing.T, tokens *service.TokenService, userID, role string) string {
	t.Helper()
	token, err := tokens.Issue(userID, role)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func requestWithToken(token string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Code)
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens := newTokenService(t)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Username: "alice123", Email: "a@x.com", Role: domain.RoleUser},
	}}

	c, _ := requestWithToken("Bearer " + issueToken(t, tokens, "u1", domain.RoleUser))

	called := false
	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		called = true
		actor, ok := CurrentUser(c)
		if !ok {
			t.Fatalf("auth context not attached")
		}
		if actor.UserID != "u1" || actor.Username != "alice123" || actor.Email != "a@x.com" {
			t.Fatalf("unexpected actor: %+v", actor)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthenticate_RoleFromCurrentRecord(t *testing.T) {
	tokens := newTokenService(t)
	// The token still claims "user" but the stored record was promoted.
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Username: "alice123", Role: domain.RoleAdmin},
	}}

	c, _ := requestWithToken("Bearer " + issueToken(t, tokens, "u1", domain.RoleUser))

	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		actor, _ := CurrentUser(c)
		if actor.Role != domain.RoleAdmin {
			t.Fatalf("expected role from store, got %s", actor.Role)
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	tokens := newTokenService(t)
	repo := &stubUserRepo{}

	c, _ := requestWithToken("")
	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	assertUnauthorized(t, handler(c))
}

func TestAuthenticate_BadPrefix(t *testing.T) {
	tokens := newTokenService(t)
	repo := &stubUserRepo{}

	c, _ := requestWithToken("Token abc")
	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	assertUnauthorized(t, handler(c))
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	tokens := newTokenService(t)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Role: domain.RoleUser},
	}}

	// Craft a token that expired an hour ago, signed with the same secret.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"role":    domain.RoleUser,
		"iat":     time.Now().Add(-2 * time.Hour).Unix(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	c, _ := requestWithToken("Bearer " + signed)
	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err = handler(c)
	assertUnauthorized(t, err)
	if he := err.(*echo.HTTPError); he.Message != domain.ErrTokenExpired.Error() {
		t.Fatalf("expected expiry reason in message, got %v", he.Message)
	}
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	tokens := newTokenService(t)
	repo := &stubUserRepo{}

	c, _ := requestWithToken("Bearer not-a-token")
	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	assertUnauthorized(t, handler(c))
}

func TestAuthenticate_StaleIdentity(t *testing.T) {
	tokens := newTokenService(t)
	// Valid token, but the account no longer exists.
	repo := &stubUserRepo{users: map[string]*domain.User{}}

	c, _ := requestWithToken("Bearer " + issueToken(t, tokens, "gone", domain.RoleUser))
	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	assertUnauthorized(t, err)
	if he := err.(*echo.HTTPError); he.Message != "User no longer exists" {
		t.Fatalf("expected stale identity message, got %v", he.Message)
	}
}

func TestAuthenticate_WrappedNotFoundIsStaleIdentity(t *testing.T) {
	tokens := newTokenService(t)
	// Repositories wrap sentinels; the middleware must still recognise them.
	repo := &stubUserRepo{err: fmt.Errorf("find user: %w", domain.ErrUserNotFound)}

	c, _ := requestWithToken("Bearer " + issueToken(t, tokens, "gone", domain.RoleUser))
	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	assertUnauthorized(t, err)
	if he := err.(*echo.HTTPError); he.Message != "User no longer exists" {
		t.Fatalf("expected stale identity message, got %v", he.Message)
	}
}

func TestAuthenticate_StoreFaultFailsClosed(t *testing.T) {
	tokens := newTokenService(t)
	repo := &stubUserRepo{err: context.DeadlineExceeded}

	c, _ := requestWithToken("Bearer " + issueToken(t, tokens, "u1", domain.RoleUser))
	handler := Authenticate(tokens, repo)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	assertUnauthorized(t, handler(c))
}

func TestOptionalAuthenticate_InvalidTokenProceeds(t *testing.T) {
	tokens := newTokenService(t)
	repo := &stubUserRepo{}

	c, _ := requestWithToken("Bearer not-a-token")

	called := false
	handler := OptionalAuthenticate(tokens, repo)(func(c echo.Context) error {
		called = true
		if _, ok := CurrentUser(c); ok {
			t.Fatalf("expected no auth context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestOptionalAuthenticate_ValidTokenAttaches(t *testing.T) {
	tokens := newTokenService(t)
	repo := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Username: "alice123", Role: domain.RoleUser},
	}}

	c, _ := requestWithToken("Bearer " + issueToken(t, tokens, "u1", domain.RoleUser))

	handler := OptionalAuthenticate(tokens, repo)(func(c echo.Context) error {
		actor, ok := CurrentUser(c)
		if !ok || actor.UserID != "u1" {
			t.Fatalf("expected auth context for valid token")
		}
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
