package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return jsonValidationFailed(c, fieldErrors(err))
	}

	user, token, err := s.users.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	return jsonSuccess(c, http.StatusCreated, "user registered", authData{User: user, Token: token})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return jsonValidationFailed(c, fieldErrors(err))
	}

	user, token, err := s.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	return jsonSuccess(c, http.StatusOK, "login successful", authData{User: user, Token: token})
}

func (s *Server) handleMe(c echo.Context) error {
	return jsonSuccess(c, http.StatusOK, "", userData{User: currentUser(c)})
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return jsonValidationFailed(c, fieldErrors(err))
	}

	user, err := s.users.UpdateProfile(c.Request().Context(), currentUser(c).ID, req.Name, req.Email)
	if err != nil {
		return s.writeError(c, err)
	}

	return jsonSuccess(c, http.StatusOK, "profile updated", userData{User: user})
}

func (s *Server) handleChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return jsonValidationFailed(c, fieldErrors(err))
	}

	if err := s.users.ChangePassword(c.Request().Context(), currentUser(c).ID, req.CurrentPassword, req.NewPassword); err != nil {
		return s.writeError(c, err)
	}

	return jsonSuccess(c, http.StatusOK, "password changed", nil)
}

func (s *Server) handleHealth(c echo.Context) error {
	if err := s.store.Ping(c.Request().Context()); err != nil {
		return jsonError(c, http.StatusInternalServerError, "storage unavailable")
	}
	return jsonSuccess(c, http.StatusOK, "service healthy", nil)
}
