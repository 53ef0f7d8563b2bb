package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/jandrly/kancl/docs"
	"github.com/jandrly/kancl/internal/api/handler"
	"github.com/jandrly/kancl/internal/api/middleware"
	"github.com/jandrly/kancl/internal/core/ports"
	"github.com/jandrly/kancl/internal/infrastructure/http/handlers"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Auth         ports.AuthService
	Tasks        ports.TaskService
	Translations ports.TranslationService
	Checks       []handlers.Check
	Log          zerolog.Logger
	// Registry receives the HTTP metrics. Nil means the default registry,
	// where the collectors of package metrics live.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "kancl_http",
		Registerer: registerer,
	}))

	authHandler := handler.NewAuthHandler(deps.Auth)
	taskHandler := handler.NewTaskHandler(deps.Tasks)
	translationHandler := handler.NewTranslationHandler(deps.Translations)

	// --- Auth ---
	// login and logout never depend on resolving a bearer header
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/logout", authHandler.Logout)

	api := e.Group("/api", middleware.Session(deps.Auth))
	api.GET("/auth/session", authHandler.Session)
	api.GET("/users/me", authHandler.Me)

	// --- Tasks ---
	api.GET("/tasks", taskHandler.List)

	// --- Translations ---
	api.GET("/translations/locales", translationHandler.Locales)
	api.GET("/translations/:locale", translationHandler.GetByLocale)
	api.PUT("/translations/:locale", translationHandler.Upsert)

	// --- Health checks, metrics, docs (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(deps.Checks...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
