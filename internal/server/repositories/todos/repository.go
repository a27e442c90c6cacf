package todos

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListQuery describes an owner-scoped listing: optional completion and
// priority filters, sort field/direction, and pagination. The caller is
// expected to pass normalized values (page >= 1, 1 <= pageSize <= 100).
type ListQuery struct {
	Completed *bool
	Priority  *models.Priority
	SortBy    string
	Order     string
	Page      int
	PageSize  int
}

// Repository owns todo persistence. Every read and write conjoins the todo
// id with the owner id in a single filter, so a todo belonging to another
// user is indistinguishable from one that does not exist.
type Repository interface {
	Insert(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	FindByID(ctx context.Context, ownerID, todoID primitive.ObjectID) (*models.Todo, error)
	List(ctx context.Context, ownerID primitive.ObjectID, q ListQuery) ([]models.Todo, int64, error)
	Replace(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	Delete(ctx context.Context, ownerID, todoID primitive.ObjectID) error
	DeleteCompleted(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
	Stats(ctx context.Context, ownerID primitive.ObjectID) (*models.TodoStats, error)
}
