// Package server initializes and runs the todo application server.
// It connects the document store, wires the services, handles graceful
// shutdown, and starts the HTTP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/dmitrijs2005/todokeeper/internal/server/shared/db"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	manager     db.RepositoryManager
	userService *services.UserService
	todoService *services.TodoService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	manager, err := db.NewMongoRepositoryManager(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.QueryTimeout)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := manager.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("db bootstrap error: %w", err)
	}

	us := services.NewUserService(manager.Users(), cfg)
	ts := services.NewTodoService(manager.Todos())

	return &App{config: cfg, logger: logger, manager: manager, userService: us, todoService: ts}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger,
		app.userService, app.todoService, app.manager, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(context.Background()); err != nil {
		app.logger.Error(ctx, "error closing store", "error", err.Error())
	}
}
