package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority is the todo priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Todo is a task document owned by exactly one user. CompletedAt is non-nil
// iff Completed is true; the services layer maintains that invariant on every
// write.
type Todo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description"`
	Completed   bool               `bson:"completed" json:"completed"`
	Priority    Priority           `bson:"priority" json:"priority"`
	DueDate     *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TodoStats is the aggregate rollup over one owner's todos.
type TodoStats struct {
	Total          int64 `bson:"total" json:"total"`
	Completed      int64 `bson:"completed" json:"completed"`
	Pending        int64 `bson:"pending" json:"pending"`
	HighPriority   int64 `bson:"highPriority" json:"highPriority"`
	MediumPriority int64 `bson:"mediumPriority" json:"mediumPriority"`
	LowPriority    int64 `bson:"lowPriority" json:"lowPriority"`
}
