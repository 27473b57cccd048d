package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frago0312/fg-ripetizioni/internal/closure"
	"github.com/frago0312/fg-ripetizioni/internal/pkg/request"
	"github.com/frago0312/fg-ripetizioni/internal/pkg/response"
)

type Handler struct {
	service closure.Service
	zone    *time.Location
}

func NewHandler(service closure.Service, zone *time.Location) *Handler {
	return &Handler{service: service, zone: zone}
}

func (h *Handler) List(c *gin.Context) {
	today := time.Now().In(h.zone)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, h.zone)

	closures, err := h.service.ListUpcoming(c.Request.Context(), today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list closures"})
		return
	}

	items := make([]ClosureResponse, len(closures))
	for i, cl := range closures {
		items[i] = NewClosureResponse(cl)
	}
	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateClosureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	start, err := parseDate(req.StartDate, h.zone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}

	createReq := closure.CreateRequest{StartDate: start, Reason: req.Reason}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate, h.zone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		createReq.EndDate = &end
	}

	cl, err := h.service.Create(c.Request.Context(), createReq)
	if err != nil {
		if errors.Is(err, closure.ErrInvalidDateRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create closure"})
		return
	}

	c.JSON(http.StatusCreated, NewClosureResponse(cl))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		if errors.Is(err, closure.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "closure not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete closure"})
		return
	}

	c.Status(http.StatusNoContent)
}
