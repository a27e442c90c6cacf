package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// todoID parses the :id path parameter. A malformed id is treated the same
// as an unknown one so the route never reveals id validity.
func todoID(c echo.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	return id, err == nil
}

func (s *Server) handleCreateTodo(c echo.Context) error {
	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return jsonValidationFailed(c, fieldErrors(err))
	}

	todo, err := s.todos.Create(c.Request().Context(), currentUser(c).ID, services.CreateTodoParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.Priority(req.Priority),
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		return s.writeError(c, err)
	}

	return jsonSuccess(c, http.StatusCreated, "todo created", todoData{Todo: todo})
}

func (s *Server) handleListTodos(c echo.Context) error {
	var req listTodosRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return jsonValidationFailed(c, fieldErrors(err))
	}

	params := services.ListTodosParams{
		Completed: req.Completed,
		SortBy:    req.SortBy,
		Order:     req.Order,
		Page:      req.Page,
		PageSize:  req.Limit,
	}
	if req.Priority != "" {
		p := models.Priority(req.Priority)
		params.Priority = &p
	}

	page, err := s.todos.List(c.Request().Context(), currentUser(c).ID, params)
	if err != nil {
		return s.writeError(c, err)
	}

	return jsonSuccess(c, http.StatusOK, "", todoListData{
		Todos: page.Todos,
		Pagination: pagination{
			Page:        page.Page,
			Limit:       page.PageSize,
			TotalCount:  page.TotalCount,
			TotalPages:  page.TotalPages,
			HasNextPage: page.HasNextPage,
			HasPrevPage: page.HasPrevPage,
		},
	})
}

func (s *Server) handleGetTodo(c echo.Context) error {
	id, ok := todoID(c)
	if !ok {
		return jsonError(c, http.StatusNotFound, "not found")
	}

	todo, err := s.todos.GetByID(c.Request().Context(), currentUser(c).ID, id)
	if err != nil {
		return s.writeError(c, err)
	}

	return jsonSuccess(c, http.StatusOK, "", todoData{Todo: todo})
}

func (s *Server) handleUpdateTodo(c echo.Context) error {
	id, ok := todoID(c)
	if !ok {
		return jsonError(c, http.StatusNotFound, "not found")
	}

	var req updateTodoRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return jsonValidationFailed(c, fieldErrors(err))
	}

	params := services.UpdateTodoParams{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		params.Priority = &p
	}

	todo, err := s.todos.Update(c.Request().Context(), currentUser(c).ID, id, params)
	if err != nil {
		return s.writeError(c, err)
	}

	return jsonSuccess(c, http.StatusOK, "todo updated", todoData{Todo: todo})
}

func (s *Server) handleToggleTodo(c echo.Context) error {
	id, ok := todoID(c)
	if !ok {
		return jsonError(c, http.StatusNotFound, "not found")
	}

	todo, err := s.todos.ToggleCompletion(c.Request().Context(), currentUser(c).ID, id)
	if err != nil {
		return s.writeError(c, err)
	}

	return jsonSuccess(c, http.StatusOK, "todo toggled", todoData{Todo: todo})
}

func (s *Server) handleDeleteTodo(c echo.Context) error {
	id, ok := todoID(c)
	if !ok {
		return jsonError(c, http.StatusNotFound, "not found")
	}

	if err := s.todos.Delete(c.Request().Context(), currentUser(c).ID, id); err != nil {
		return s.writeError(c, err)
	}

	return jsonSuccess(c, http.StatusOK, "todo deleted", nil)
}

func (s *Server) handleDeleteCompleted(c echo.Context) error {
	count, err := s.todos.DeleteAllCompleted(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return s.writeError(c, err)
	}

	return jsonSuccess(c, http.StatusOK, "completed todos deleted", deletedData{DeletedCount: count})
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.todos.Stats(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return s.writeError(c, err)
	}

	return jsonSuccess(c, http.StatusOK, "", statsData{Stats: stats})
}
