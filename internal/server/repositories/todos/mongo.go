// Package todos provides MongoDB-backed persistence and querying for todo
// documents, scoped to their owning user.
package todos

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "todos"

type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection(collectionName)}
}

// EnsureIndexes creates the owner index backing every scoped query.
// Safe to call on every start.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("creating owner index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Insert(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	if todo.ID.IsZero() {
		todo.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, todo); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, ownerID, todoID primitive.ObjectID) (*models.Todo, error) {
	todo := &models.Todo{}
	err := r.col.FindOne(ctx, bson.M{"_id": todoID, "userId": ownerID}).Decode(todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *MongoRepository) List(ctx context.Context, ownerID primitive.ObjectID, q ListQuery) ([]models.Todo, int64, error) {
	filter := listFilter(ownerID, q)

	// The count runs over the same filter as the page, so pagination
	// metadata always describes the list being paged.
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting todos: %w", err)
	}

	opts := options.Find().
		SetSort(sortSpec(q)).
		SetSkip(int64((q.Page - 1) * q.PageSize)).
		SetLimit(int64(q.PageSize))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listing todos: %w", err)
	}
	defer cur.Close(ctx)

	result := []models.Todo{}
	if err := cur.All(ctx, &result); err != nil {
		return nil, 0, fmt.Errorf("decoding todos: %w", err)
	}

	return result, total, nil
}

func (r *MongoRepository) Replace(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": todo.ID, "userId": todo.UserID}, todo)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, common.ErrorNotFound
	}
	return todo, nil
}

func (r *MongoRepository) Delete(ctx context.Context, ownerID, todoID primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": todoID, "userId": ownerID})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteCompleted(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"userId": ownerID, "completed": true})
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *MongoRepository) Stats(ctx context.Context, ownerID primitive.ObjectID) (*models.TodoStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"userId": ownerID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total":          bson.M{"$sum": 1},
			"completed":      bson.M{"$sum": bson.M{"$cond": bson.A{"$completed", 1, 0}}},
			"highPriority":   priorityCounter(models.PriorityHigh),
			"mediumPriority": priorityCounter(models.PriorityMedium),
			"lowPriority":    priorityCounter(models.PriorityLow),
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating stats: %w", err)
	}
	defer cur.Close(ctx)

	stats := &models.TodoStats{}
	if cur.Next(ctx) {
		if err := cur.Decode(stats); err != nil {
			return nil, fmt.Errorf("decoding stats: %w", err)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	// owner with zero todos: the pipeline emits nothing, stats stay zero
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

func priorityCounter(p models.Priority) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$priority", p}}, 1, 0}}}
}

// listFilter conjoins the owner id with the optional completion and
// priority filters.
func listFilter(ownerID primitive.ObjectID, q ListQuery) bson.M {
	filter := bson.M{"userId": ownerID}
	if q.Completed != nil {
		filter["completed"] = *q.Completed
	}
	if q.Priority != nil {
		filter["priority"] = *q.Priority
	}
	return filter
}

// sortSpec maps the requested sort to a Mongo sort document, defaulting to
// createdAt descending.
func sortSpec(q ListQuery) bson.D {
	field := "createdAt"
	switch q.SortBy {
	case "createdAt", "updatedAt", "dueDate", "priority", "title":
		field = q.SortBy
	}

	dir := -1
	if q.Order == "asc" {
		dir = 1
	}

	return bson.D{{Key: field, Value: dir}}
}
