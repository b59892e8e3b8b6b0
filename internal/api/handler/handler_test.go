package handler_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhub/task-management/internal/api"
	"github.com/taskhub/task-management/internal/api/handler"
	"github.com/taskhub/task-management/internal/api/middleware"
	"github.com/taskhub/task-management/internal/core/domain"
	"github.com/taskhub/task-management/internal/core/ports"
	"github.com/taskhub/task-management/internal/core/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	profileFn  func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

type stubTaskService struct {
	createFn       func(ctx context.Context, actor domain.AuthContext, in ports.CreateTaskInput) (*domain.Task, error)
	listFn         func(ctx context.Context, actor domain.AuthContext, filter ports.TaskFilter) ([]domain.Task, error)
	getFn          func(ctx context.Context, actor domain.AuthContext, id string) (*domain.Task, error)
	updateFn       func(ctx context.Context, actor domain.AuthContext, id string, update ports.TaskUpdate) (*domain.Task, error)
	updateStatusFn func(ctx context.Context, actor domain.AuthContext, id string, status domain.TaskStatus) (*domain.Task, error)
	deleteFn       func(ctx context.Context, actor domain.AuthContext, id string) error
	activityFn     func(ctx context.Context, actor domain.AuthContext, id string, limit int) ([]domain.ActivityEntry, error)
}

func (s *stubTaskService) Create(ctx context.Context, actor domain.AuthContext, in ports.CreateTaskInput) (*domain.Task, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubTaskService) List(ctx context.Context, actor domain.AuthContext, filter ports.TaskFilter) ([]domain.Task, error) {
	return s.listFn(ctx, actor, filter)
}

func (s *stubTaskService) Get(ctx context.Context, actor domain.AuthContext, id string) (*domain.Task, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubTaskService) Update(ctx context.Context, actor domain.AuthContext, id string, update ports.TaskUpdate) (*domain.Task, error) {
	return s.updateFn(ctx, actor, id, update)
}

func (s *stubTaskService) UpdateStatus(ctx context.Context, actor domain.AuthContext, id string, status domain.TaskStatus) (*domain.Task, error) {
	return s.updateStatusFn(ctx, actor, id, status)
}

func (s *stubTaskService) Delete(ctx context.Context, actor domain.AuthContext, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubTaskService) Activity(ctx context.Context, actor domain.AuthContext, id string, limit int) ([]domain.ActivityEntry, error) {
	return s.activityFn(ctx, actor, id, limit)
}

// stubUsers backs the Authenticate middleware with a fixed set of accounts.
type stubUsers struct {
	byID map[string]*domain.User
}

func (r *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUsers) Create(_ context.Context, _ *domain.User) (*domain.User, error) {
	return nil, nil
}

func (r *stubUsers) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUsers) FindByUsername(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUsers) UpdateLastLogin(_ context.Context, _ string, _ time.Time) error {
	return nil
}

// envelope mirrors the response shape with raw data for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type testApp struct {
	e      *echo.Echo
	tokens *service.TokenService
}

// newTestApp wires handlers, the authenticate middleware, the validator and
// the central error handler exactly as the production router does, backed by
// stub services.
func newTestApp(t *testing.T, auth ports.AuthService, tasks ports.TaskService, users ports.UserRepository) *testApp {
	t.Helper()

	tokens, err := service.NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())

	authenticate := middleware.Authenticate(tokens, users)

	authHandler := handler.NewAuthHandler(auth)
	taskHandler := handler.NewTaskHandler(tasks)

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authenticate)
	e.GET("/me", authHandler.Me, authenticate)

	g := e.Group("/tasks", authenticate)
	g.POST("", taskHandler.Create)
	g.GET("", taskHandler.List)
	g.GET("/:id", taskHandler.Get)
	g.PATCH("/:id", taskHandler.UpdateStatus)
	g.PUT("/:id", taskHandler.Update)
	g.DELETE("/:id", taskHandler.Delete)
	g.GET("/:id/activity", taskHandler.Activity)

	return &testApp{e: e, tokens: tokens}
}

func (a *testApp) bearer(t *testing.T, userID string) string {
	t.Helper()
	token, err := a.tokens.Issue(userID, domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return "Bearer " + token
}

// do serves one request through the full echo pipeline and decodes the
// envelope. An empty token leaves the Authorization header unset.
func (a *testApp) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	return rec, env
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d (body: %s)", want, rec.Code, rec.Body.String())
	}
}

func assertHasField(t *testing.T, env envelope, field string) {
	t.Helper()
	for _, fe := range env.Errors {
		if fe.Field == field {
			return
		}
	}
	t.Fatalf("expected a field error for %q, got %+v", field, env.Errors)
}
