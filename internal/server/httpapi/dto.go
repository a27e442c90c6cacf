package httpapi

import (
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// Request DTOs. The validate tags are the per-operation validation schemas;
// they run before any service call, so the repository layer never sees
// malformed input.

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,userpassword"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,userpassword"`
}

type createTodoRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=1000"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags" validate:"omitempty,dive,min=1,max=20"`
}

// updateTodoRequest is a partial patch: nil fields are left unchanged.
type updateTodoRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Completed   *bool      `json:"completed"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
	Tags        []string   `json:"tags" validate:"omitempty,dive,min=1,max=20"`
}

type listTodosRequest struct {
	Completed *bool  `query:"completed"`
	Priority  string `query:"priority" validate:"omitempty,oneof=low medium high"`
	SortBy    string `query:"sortBy" validate:"omitempty,oneof=createdAt updatedAt dueDate priority title"`
	Order     string `query:"order" validate:"omitempty,oneof=asc desc"`
	Page      int    `query:"page" validate:"omitempty,min=1"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Response payloads (wrapped in the envelope's data field).

type authData struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type userData struct {
	User *models.User `json:"user"`
}

type todoData struct {
	Todo *models.Todo `json:"todo"`
}

type pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type todoListData struct {
	Todos      []models.Todo `json:"todos"`
	Pagination pagination    `json:"pagination"`
}

type statsData struct {
	Stats *models.TodoStats `json:"stats"`
}

type deletedData struct {
	DeletedCount int64 `json:"deletedCount"`
}
