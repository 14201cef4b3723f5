// Package server contains the HTTP handlers and route wiring for the
// PULOG web application.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/riku-yanagihashi/PULOG/internal/config"
	"github.com/riku-yanagihashi/PULOG/internal/database"
	"github.com/riku-yanagihashi/PULOG/internal/middleware"
	"github.com/riku-yanagihashi/PULOG/internal/repository"
	"github.com/riku-yanagihashi/PULOG/internal/session"
	"github.com/riku-yanagihashi/PULOG/internal/storage"
	"github.com/riku-yanagihashi/PULOG/web"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	thumbnails     *storage.ThumbnailStore
	sessions       *session.Manager
}

// Prometheus collectors register against the default registry, so the
// metrics middleware is created once per process and shared.
var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

func metricsMiddleware() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = middleware.InitMetrics("pulog")
	})
	return prom
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return NewServerWithDeps(cfg, db)
}

// NewServerWithDeps creates a Server using an already-initialized database.
// Use this in tests or when a bootstrap layer establishes the DB.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB) (*Server, error) {
	thumbnails, err := storage.NewThumbnailStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("thumbnail storage init failed: %w", err)
	}

	return &Server{
		config:         cfg,
		db:             db,
		promMiddleware: metricsMiddleware(),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		thumbnails:     thumbnails,
		sessions:       session.NewManager(cfg.SessionSecret),
	}, nil
}

// BuildApp constructs the Fiber application with views, middleware, and
// routes configured.
func (s *Server) BuildApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "PULOG",
		Views:        web.Engine(),
		BodyLimit:    10 * 1024 * 1024, // thumbnail uploads
		ErrorHandler: s.errorHandler,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery: handler panics become errors for the ErrorHandler
	// instead of crashing the process.
	app.Use(recover.New())

	// Request ID for log correlation.
	app.Use(requestid.New())

	// Session state for handlers and templates.
	app.Use(s.sessions.LoadUser())

	// Context middleware to propagate request ID and user ID into logs.
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics.
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Structured logging (after requestid and context middleware).
	app.Use(middleware.StructuredLogger())
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Uploaded thumbnails, referenced from posts by filename.
	app.Static("/static/thumbnails", s.thumbnails.Dir())

	// Static routes must be registered before the generic /:id routes.
	app.Get("/", s.Index)

	app.Get("/signup", s.SignupPage)
	app.Post("/signup", s.Signup)
	app.Get("/login", s.LoginPage)
	app.Post("/login", s.Login)
	app.Get("/logout", s.Logout)

	app.Get("/create", s.sessions.RequireLogin(), s.CreatePage)
	app.Post("/create", s.sessions.RequireLogin(), s.Create)

	app.Post("/search", s.Search)

	app.Get("/:id", s.Detail)
	app.Get("/:id/update", s.sessions.RequireLogin(), s.UpdatePage)
	app.Post("/:id/update", s.sessions.RequireLogin(), s.Update)
	app.Get("/:id/delete", s.sessions.RequireLogin(), s.Delete)
}

// errorHandler is the boundary for errors no handler dealt with. Server
// faults are answered with a fixed opaque body so no internals leak.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	if code >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled server error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Status(code).SendString(fiberErr.Message)
}
