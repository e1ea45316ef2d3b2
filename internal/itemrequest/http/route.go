package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/requests")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.ListOwn)
		group.GET("/all", h.ListOthers)
		group.GET("/:id", h.Get)
	}
}
