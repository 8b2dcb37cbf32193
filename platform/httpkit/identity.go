// Package httpkit provides HTTP middleware infrastructure.
package httpkit

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CurrentUserID extracts the authenticated advisor id from the gin context.
// Returns false if the request is not authenticated.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// CurrentRole extracts the authenticated advisor's role from the gin context.
func CurrentRole(c *gin.Context) (string, bool) {
	value, ok := c.Get(ContextRoleKey)
	if !ok {
		return "", false
	}
	role, ok := value.(string)
	return role, ok
}

// IsAdmin reports whether the authenticated advisor has the admin role.
func IsAdmin(c *gin.Context) bool {
	role, ok := CurrentRole(c)
	return ok && role == "admin"
}
