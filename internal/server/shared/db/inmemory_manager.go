package db

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
)

// InMemoryRepositoryManager backs the repositories with process memory.
// Used by tests.
type InMemoryRepositoryManager struct {
	users users.Repository
	todos todos.Repository
}

func (m *InMemoryRepositoryManager) Bootstrap(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Ping(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Close(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Todos() todos.Repository {
	return m.todos
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		todos: todos.NewMemoryRepository(),
	}
}
