package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, tutorMiddleware gin.HandlerFunc) {
	group := g.Group("/availability")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
	}

	// Only the tutor edits the weekly template.
	tutor := group.Group("")
	tutor.Use(tutorMiddleware)
	{
		tutor.PUT("/:weekday", h.Set)
		tutor.DELETE("/:weekday", h.Delete)
	}
}
