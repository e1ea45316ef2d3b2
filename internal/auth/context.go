package auth

import "github.com/gin-gonic/gin"

// UserIDHeader carries the caller identity resolved upstream.
const UserIDHeader = "X-Sharer-User-Id"

const userIDKey = "userID"

// GetUserID returns the caller's ID or 0 when RequireUser did not run.
func GetUserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
