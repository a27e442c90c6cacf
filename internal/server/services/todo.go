package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// CreateTodoParams carries validated attributes for a new todo.
type CreateTodoParams struct {
	Title       string
	Description string
	Priority    models.Priority
	DueDate     *time.Time
	Tags        []string
}

// UpdateTodoParams is a partial patch: nil fields stay unchanged.
type UpdateTodoParams struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *models.Priority
	DueDate     *time.Time
	Tags        []string
}

// ListTodosParams mirrors the list query surface of the API.
type ListTodosParams struct {
	Completed *bool
	Priority  *models.Priority
	SortBy    string
	Order     string
	Page      int
	PageSize  int
}

// TodoPage is one page of an owner's todos plus the pagination metadata
// computed from the filtered total.
type TodoPage struct {
	Todos       []models.Todo
	TotalCount  int64
	Page        int
	PageSize    int
	TotalPages  int
	HasNextPage bool
	HasPrevPage bool
}

// TodoService implements the todo operations on top of the owner-scoped
// repository. It is also the single place where the completedAt invariant
// (non-nil iff completed) is maintained.
type TodoService struct {
	repo todos.Repository
}

func NewTodoService(repo todos.Repository) *TodoService {
	return &TodoService{repo: repo}
}

// Create persists a new incomplete todo owned by ownerID. An empty priority
// defaults to medium.
func (s *TodoService) Create(ctx context.Context, ownerID primitive.ObjectID, p CreateTodoParams) (*models.Todo, error) {
	priority := p.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := time.Now()
	todo := &models.Todo{
		UserID:      ownerID,
		Title:       p.Title,
		Description: p.Description,
		Completed:   false,
		Priority:    priority,
		DueDate:     p.DueDate,
		Tags:        p.Tags,
		CompletedAt: nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.repo.Insert(ctx, todo)
}

func (s *TodoService) GetByID(ctx context.Context, ownerID, todoID primitive.ObjectID) (*models.Todo, error) {
	return s.repo.FindByID(ctx, ownerID, todoID)
}

// List returns one page of the owner's todos. Page and page size are
// normalized into their allowed ranges before querying.
func (s *TodoService) List(ctx context.Context, ownerID primitive.ObjectID, p ListTodosParams) (*TodoPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}

	items, total, err := s.repo.List(ctx, ownerID, todos.ListQuery{
		Completed: p.Completed,
		Priority:  p.Priority,
		SortBy:    p.SortBy,
		Order:     p.Order,
		Page:      p.Page,
		PageSize:  p.PageSize,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(p.PageSize) - 1) / int64(p.PageSize))

	return &TodoPage{
		Todos:       items,
		TotalCount:  total,
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}, nil
}

// Update applies a partial patch to the owner's todo. A completion change
// recomputes completedAt.
func (s *TodoService) Update(ctx context.Context, ownerID, todoID primitive.ObjectID, p UpdateTodoParams) (*models.Todo, error) {
	todo, err := s.repo.FindByID(ctx, ownerID, todoID)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		todo.Title = *p.Title
	}
	if p.Description != nil {
		todo.Description = *p.Description
	}
	if p.Priority != nil {
		todo.Priority = *p.Priority
	}
	if p.DueDate != nil {
		todo.DueDate = p.DueDate
	}
	if p.Tags != nil {
		todo.Tags = p.Tags
	}
	if p.Completed != nil {
		applyCompletion(todo, *p.Completed, time.Now())
	}
	todo.UpdatedAt = time.Now()

	return s.repo.Replace(ctx, todo)
}

// ToggleCompletion flips the completed flag and recomputes completedAt.
func (s *TodoService) ToggleCompletion(ctx context.Context, ownerID, todoID primitive.ObjectID) (*models.Todo, error) {
	todo, err := s.repo.FindByID(ctx, ownerID, todoID)
	if err != nil {
		return nil, err
	}

	applyCompletion(todo, !todo.Completed, time.Now())
	todo.UpdatedAt = time.Now()

	return s.repo.Replace(ctx, todo)
}

func (s *TodoService) Delete(ctx context.Context, ownerID, todoID primitive.ObjectID) error {
	return s.repo.Delete(ctx, ownerID, todoID)
}

// DeleteAllCompleted removes the owner's completed todos and reports how
// many were removed. Zero is a valid result.
func (s *TodoService) DeleteAllCompleted(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return s.repo.DeleteCompleted(ctx, ownerID)
}

func (s *TodoService) Stats(ctx context.Context, ownerID primitive.ObjectID) (*models.TodoStats, error) {
	return s.repo.Stats(ctx, ownerID)
}

// applyCompletion enforces the invariant: completedAt is set exactly when
// completed transitions false→true and cleared when it goes back to false.
func applyCompletion(todo *models.Todo, completed bool, now time.Time) {
	switch {
	case completed && !todo.Completed:
		t := now
		todo.CompletedAt = &t
	case !completed:
		todo.CompletedAt = nil
	}
	todo.Completed = completed
}
