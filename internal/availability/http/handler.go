package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/frago0312/fg-ripetizioni/internal/availability"
	"github.com/frago0312/fg-ripetizioni/internal/pkg/response"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

func weekdayParam(c *gin.Context) (int, bool) {
	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "weekday must be between 0 (Monday) and 6 (Sunday)"})
		return 0, false
	}
	return weekday, true
}

func (h *Handler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list availability"})
		return
	}

	items := make([]EntryResponse, len(entries))
	for i, e := range entries {
		items[i] = NewEntryResponse(e)
	}
	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) Set(c *gin.Context) {
	weekday, ok := weekdayParam(c)
	if !ok {
		return
	}

	var req SetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	e, err := h.service.Set(c.Request.Context(), weekday, req.StartTime, req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, NewEntryResponse(e))
}

func (h *Handler) Delete(c *gin.Context) {
	weekday, ok := weekdayParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), weekday); err != nil {
		if errors.Is(err, availability.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no availability for that weekday"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete availability"})
		return
	}

	c.Status(http.StatusNoContent)
}
