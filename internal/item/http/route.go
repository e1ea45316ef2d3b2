package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/items")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/search", h.Search)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update)
		group.POST("/:id/comment", h.AddComment)
	}
}
