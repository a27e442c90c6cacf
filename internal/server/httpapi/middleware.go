package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userContextKey = "authUser"

// requireAuth authenticates the request from its bearer token. A missing,
// malformed, invalid, or expired token fails with 401, as does a token whose
// user id no longer resolves to an active user. On success the resolved user
// is attached to the request context for the handlers.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return jsonError(c, 401, "unauthorized")
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			return s.writeError(c, err)
		}

		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return jsonError(c, 401, "unauthorized")
		}

		user, err := s.users.GetByID(c.Request().Context(), oid)
		if err != nil || !user.Active {
			return jsonError(c, 401, "unauthorized")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// currentUser returns the user attached by requireAuth.
func currentUser(c echo.Context) *models.User {
	return c.Get(userContextKey).(*models.User)
}

// requestLogger logs one line per request with the outcome status and the
// request id assigned by the RequestID middleware.
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		s.logger.Info(c.Request().Context(), "request",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", c.Response().Status,
			"duration", time.Since(start).String(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		return nil
	}
}
