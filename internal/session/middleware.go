package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const SessionIDKey contextKey = "session_id"

// Middleware validates the bearer token and adds the session id to the
// request context.
func (t *Tokens) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
		}

		id, err := t.Parse(parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set(string(SessionIDKey), id)
		return next(c)
	}
}

// SessionIDFromContext retrieves the session id set by Middleware.
func SessionIDFromContext(c echo.Context) (uuid.UUID, error) {
	val := c.Get(string(SessionIDKey))
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("session id not found in context")
	}
	return id, nil
}
