package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/anu235shka/movies-task/internal/api/handler"
	"github.com/anu235shka/movies-task/internal/api/middleware"
	"github.com/anu235shka/movies-task/internal/core/ports"
	infrahttp "github.com/anu235shka/movies-task/internal/infrastructure/http"
	"github.com/anu235shka/movies-task/internal/infrastructure/http/handlers"
)

const bodyLimit = "1M"

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth        ports.AuthService
	Entries     ports.EntryService
	Tokens      ports.TokenVerifier
	Idempotency middleware.IdempotencyStore
	Checks      []handlers.Check
	Log         zerolog.Logger
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer  prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLog(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.HeaderIdempotencyKey},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "catalog",
		Registerer: deps.Registerer,
	}))

	// --- Ops routes (no auth required) ---
	infrahttp.RegisterOps(e, deps.Checks...)

	gate := middleware.Auth(deps.Tokens)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, gate)

	// --- Catalog routes (all behind the gate) ---
	entryHandler := handler.NewEntryHandler(deps.Entries)
	entries := e.Group("/api/entries", gate)
	entries.GET("", entryHandler.List)
	entries.POST("", entryHandler.Create, middleware.Idempotency(deps.Idempotency, deps.Log))
	entries.GET("/:id", entryHandler.Get)
	entries.PUT("/:id", entryHandler.Update)
	entries.DELETE("/:id", entryHandler.Delete)

	return e
}
