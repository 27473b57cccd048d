package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/frago0312/fg-ripetizioni/internal/tariff"
)

type UpdateTariffRequest struct {
	BaseRate decimal.Decimal `json:"base_rate" binding:"required"`
}

type TariffResponse struct {
	BaseRate string `json:"base_rate"`
}

type Handler struct {
	service tariff.Service
}

func NewHandler(service tariff.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	s, err := h.service.Current(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tariff"})
		return
	}
	c.JSON(http.StatusOK, TariffResponse{BaseRate: s.BaseRate.StringFixed(2)})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s, err := h.service.Update(c.Request.Context(), req.BaseRate)
	if err != nil {
		if errors.Is(err, tariff.ErrInvalidRate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update tariff"})
		return
	}
	c.JSON(http.StatusOK, TariffResponse{BaseRate: s.BaseRate.StringFixed(2)})
}

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, tutorMiddleware gin.HandlerFunc) {
	group := g.Group("/tariff")
	group.Use(authMiddleware, tutorMiddleware)
	{
		group.GET("", h.Get)
		group.PUT("", h.Update)
	}
}
