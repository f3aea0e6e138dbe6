package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bqhai199x/auth-service/internal/api/handler"
	"github.com/bqhai199x/auth-service/internal/api/middleware"
	"github.com/bqhai199x/auth-service/internal/core/ports"
)

// Deps are the components the router composes. Everything is constructed
// once at process start and passed in explicitly; the router owns no state.
type Deps struct {
	AuthService ports.AuthService
	UserService ports.UserService

	// CookieMaxAge mirrors the token lifetime; CookieSecure is set in
	// production.
	CookieMaxAge time.Duration
	CookieSecure bool

	// Mongo and Redis back the readiness probe. Redis is nil when the
	// in-memory rate limiter is configured.
	Mongo *mongo.Database
	Redis *redis.Client

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.CookieMaxAge, deps.CookieSecure)
	userHandler := handler.NewUserHandler(deps.UserService)

	requireAuth := middleware.RequireAuth(deps.AuthService, middleware.DefaultOptions())
	requireAdmin := middleware.RequireAdmin(deps.AuthService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me, requireAuth)

	// --- User management (admin) ---
	e.GET("/users", userHandler.List, requireAdmin)
	e.GET("/users/stats", userHandler.Stats, requireAdmin)
	e.POST("/users/:id/activate", userHandler.Activate, requireAdmin)
	e.POST("/users/:id/deactivate", userHandler.Deactivate, requireAdmin)

	// --- Self service ---
	e.PUT("/users/me/password", userHandler.ChangePassword, requireAuth)

	// --- Observability (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
