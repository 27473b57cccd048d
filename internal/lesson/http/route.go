package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, tutorMiddleware gin.HandlerFunc) {
	lessons := g.Group("/lessons")
	lessons.Use(authMiddleware)
	{
		lessons.GET("", h.ListMine)
		lessons.GET("/:id", h.Get)
		lessons.POST("", h.Create)
	}

	decisions := lessons.Group("")
	decisions.Use(tutorMiddleware)
	{
		decisions.POST("/:id/confirm", h.Confirm)
		decisions.POST("/:id/reject", h.Reject)
		decisions.POST("/:id/paid", h.MarkPaid)
	}

	slots := g.Group("/slots")
	slots.Use(authMiddleware)
	{
		slots.GET("", h.FreeSlots)
	}

	tutor := g.Group("/tutor")
	tutor.Use(authMiddleware, tutorMiddleware)
	{
		tutor.GET("/dashboard", h.Dashboard)
		tutor.GET("/export", h.ExportCSV)
		tutor.POST("/students/:id/payments", h.SettlePayments)
	}
}
