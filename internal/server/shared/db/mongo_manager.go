package db

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoRepositoryManager struct {
	client *mongo.Client
	users  *users.MongoRepository
	todos  *todos.MongoRepository
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) Todos() todos.Repository {
	return m.todos
}

func (m *MongoRepositoryManager) Bootstrap(ctx context.Context) error {
	if err := m.users.EnsureIndexes(ctx); err != nil {
		return err
	}
	return m.todos.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// NewMongoRepositoryManager connects to the store and builds the repository
// set. queryTimeout is applied by the driver to every operation that carries
// no tighter deadline.
func NewMongoRepositoryManager(ctx context.Context, uri, database string, queryTimeout time.Duration) (RepositoryManager, error) {

	opts := options.Client().ApplyURI(uri).SetTimeout(queryTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("db connect error: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	d := client.Database(database)

	return &MongoRepositoryManager{
		client: client,
		users:  users.NewMongoRepository(d),
		todos:  todos.NewMongoRepository(d),
	}, nil
}
