package todos

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-memory Repository used by tests and the
// in-memory repository manager. Filtering, sorting, and pagination follow
// the Mongo implementation's semantics (missing due dates sort before
// present ones, priorities compare as plain strings).
type MemoryRepository struct {
	mu    sync.RWMutex
	todos map[primitive.ObjectID]models.Todo
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{todos: make(map[primitive.ObjectID]models.Todo)}
}

func (r *MemoryRepository) Insert(_ context.Context, todo *models.Todo) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if todo.ID.IsZero() {
		todo.ID = primitive.NewObjectID()
	}
	r.todos[todo.ID] = *todo

	out := *todo
	return &out, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, ownerID, todoID primitive.ObjectID) (*models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[todoID]
	if !ok || t.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	out := t
	return &out, nil
}

func (r *MemoryRepository) List(_ context.Context, ownerID primitive.ObjectID, q ListQuery) ([]models.Todo, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Todo, 0)
	for _, t := range r.todos {
		if t.UserID != ownerID {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		if q.Priority != nil && t.Priority != *q.Priority {
			continue
		}
		matched = append(matched, t)
	}

	total := int64(len(matched))

	dir := -1
	if q.Order == "asc" {
		dir = 1
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return compareTodos(matched[i], matched[j], q.SortBy)*dir < 0
	})

	start := (q.Page - 1) * q.PageSize
	if start >= len(matched) {
		return []models.Todo{}, total, nil
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func (r *MemoryRepository) Replace(_ context.Context, todo *models.Todo) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.todos[todo.ID]
	if !ok || stored.UserID != todo.UserID {
		return nil, common.ErrorNotFound
	}
	r.todos[todo.ID] = *todo

	out := *todo
	return &out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, ownerID, todoID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[todoID]
	if !ok || t.UserID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.todos, todoID)
	return nil
}

func (r *MemoryRepository) DeleteCompleted(_ context.Context, ownerID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, t := range r.todos {
		if t.UserID == ownerID && t.Completed {
			delete(r.todos, id)
			removed++
		}
	}
	return removed, nil
}

func (r *MemoryRepository) Stats(_ context.Context, ownerID primitive.ObjectID) (*models.TodoStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &models.TodoStats{}
	for _, t := range r.todos {
		if t.UserID != ownerID {
			continue
		}
		stats.Total++
		if t.Completed {
			stats.Completed++
		}
		switch t.Priority {
		case models.PriorityHigh:
			stats.HighPriority++
		case models.PriorityMedium:
			stats.MediumPriority++
		case models.PriorityLow:
			stats.LowPriority++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

// compareTodos orders a before b ascending on the given field, falling back
// to createdAt.
func compareTodos(a, b models.Todo, sortBy string) int {
	switch sortBy {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "priority":
		return strings.Compare(string(a.Priority), string(b.Priority))
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "dueDate":
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return -1
		case b.DueDate == nil:
			return 1
		default:
			return a.DueDate.Compare(*b.DueDate)
		}
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
