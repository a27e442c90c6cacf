// Package db wires repositories to their backing store and owns the store
// client lifecycle: construct at process start, ping for health checks,
// close on shutdown. The manager is constructed explicitly and injected;
// there is no package-level connection.
package db

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	// Bootstrap prepares the store (index creation). Safe to call on every start.
	Bootstrap(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	Users() users.Repository
	Todos() todos.Repository
}
