package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// RequestUser resolves the acting user from the X-User-ID header and stores
// it in the request context. Authentication proper is out of scope; the
// ledger only records an opaque user reference on audit fields.
func RequestUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = "system"
		}
		ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the acting user ID from the Gin context,
// falling back to "system" when the middleware did not run.
func GetUserIDFromContext(c *gin.Context) string {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "system"
	}
	return userID
}
