package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhub/task-management/internal/api/handler"
	"github.com/taskhub/task-management/internal/api/middleware"
	"github.com/taskhub/task-management/internal/core/service"
	"github.com/taskhub/task-management/internal/infrastructure/config"
	mongodb "github.com/taskhub/task-management/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhub/task-management/internal/infrastructure/db/redis"
	"github.com/taskhub/task-management/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all dependencies wired and routes
// registered. The returned dispatcher must be started (and the context
// cancelled on shutdown) by the caller.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("tasks"))

	// --- Dependencies ---
	tokenService, err := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, nil, err
	}

	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	activityRepo := mongodb.NewActivityRepository(db)

	activityService := service.NewActivityService(activityRepo, log)
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, activityService, log)

	authService := service.NewAuthService(userRepo, tokenService, cfg.HashCost, log)
	taskService := service.NewTaskService(taskRepo, activityRepo, dispatcher, log)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authenticate := middleware.Authenticate(tokenService, userRepo)

	limiter := redisdb.NewFixedWindowLimiter(rdb)
	generalLimit := middleware.RateLimit(limiter, middleware.RateLimitConfig{
		Class:   "general",
		Limit:   cfg.RateLimit.GeneralMax,
		Window:  cfg.RateLimit.GeneralWindow,
		Message: "Too many requests from this IP, please try again later",
	}, log)
	authLimit := middleware.RateLimit(limiter, middleware.RateLimitConfig{
		Class:   "auth",
		Limit:   cfg.RateLimit.AuthMax,
		Window:  cfg.RateLimit.AuthWindow,
		Message: "Too many login attempts. Please try again after 15 minutes",
	}, log)
	createTaskLimit := middleware.RateLimit(limiter, middleware.RateLimitConfig{
		Class:   "task_create",
		Limit:   cfg.RateLimit.CreateMax,
		Window:  cfg.RateLimit.CreateWindow,
		Message: "Too many tasks created. Please wait a moment before creating more",
	}, log)

	// --- Probes and metrics (no auth, no rate limiting) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Auth routes ---
	auth := e.Group("/auth", generalLimit)
	auth.POST("/register", authHandler.Register, authLimit)
	auth.POST("/login", authHandler.Login, authLimit)
	auth.POST("/logout", authHandler.Logout, authenticate)

	e.GET("/me", authHandler.Me, generalLimit, authenticate)

	// --- Task routes (all authenticated; ownership enforced per resource) ---
	tasks := e.Group("/tasks", generalLimit, authenticate)
	tasks.POST("", taskHandler.Create, createTaskLimit)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.UpdateStatus)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
	tasks.GET("/:id/activity", taskHandler.Activity)

	return e, dispatcher, nil
}
