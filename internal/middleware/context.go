package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context keys used to store authentication metadata.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
)

// UserFromContext returns the authenticated user id and role set by JWT.
// ok is false when the request is unauthenticated.
func UserFromContext(c echo.Context) (id uuid.UUID, role string, ok bool) {
	id, ok = c.Get(ContextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}
	role, _ = c.Get(ContextKeyUserRole).(string)
	return id, role, true
}
