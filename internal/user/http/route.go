package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all user-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler) {
	users := g.Group("/users")
	{
		users.POST("", h.Create)
		users.GET("", h.List)
		users.GET("/:id", h.Get)
		users.PATCH("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}
}
