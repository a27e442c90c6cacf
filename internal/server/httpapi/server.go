// Package httpapi exposes the todo service over HTTP/JSON. Routing,
// binding, and validation live here; business rules stay in the services
// layer.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/dmitrijs2005/todokeeper/internal/server/shared/db"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	address   string
	echo      *echo.Echo
	logger    logging.Logger
	users     *services.UserService
	todos     *services.TodoService
	store     db.RepositoryManager
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, us *services.UserService, ts *services.TodoService, store db.RepositoryManager, secretKey string) *Server {
	s := &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		todos:     ts,
		store:     store,
		jwtSecret: []byte(secretKey),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.requestLogger)

	s.echo = e
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", s.handleHealth)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)
	authGroup.GET("/me", s.handleMe, s.requireAuth)
	authGroup.PUT("/profile", s.handleUpdateProfile, s.requireAuth)
	authGroup.PUT("/change-password", s.handleChangePassword, s.requireAuth)

	todoGroup := api.Group("/todos", s.requireAuth)
	todoGroup.GET("", s.handleListTodos)
	todoGroup.POST("", s.handleCreateTodo)
	todoGroup.DELETE("", s.handleDeleteCompleted)
	todoGroup.GET("/stats", s.handleStats)
	todoGroup.GET("/:id", s.handleGetTodo)
	todoGroup.PUT("/:id", s.handleUpdateTodo)
	todoGroup.PATCH("/:id/toggle", s.handleToggleTodo)
	todoGroup.DELETE("/:id", s.handleDeleteTodo)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
