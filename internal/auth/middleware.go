package auth

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit/internal/pkg/response"
)

// ParseUserID parses a caller id header value. Only positive integers are accepted.
func ParseUserID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// RequireUser is a Gin middleware that reads the caller id from X-Sharer-User-Id.
// Identity is not verified here; the header is trusted as resolved by the edge.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			response.BadRequest(c, "missing "+UserIDHeader+" header")
			return
		}

		id, ok := ParseUserID(raw)
		if !ok {
			response.BadRequest(c, "invalid "+UserIDHeader+" header")
			return
		}

		c.Set(userIDKey, id)
		c.Next()
	}
}
