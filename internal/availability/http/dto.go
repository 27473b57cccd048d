package http

import (
	"github.com/frago0312/fg-ripetizioni/internal/availability"
)

type SetEntryRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type EntryResponse struct {
	Weekday     int    `json:"weekday"`
	WeekdayName string `json:"weekday_name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

func NewEntryResponse(e *availability.Entry) EntryResponse {
	return EntryResponse{
		Weekday:     e.Weekday,
		WeekdayName: e.WeekdayName(),
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
	}
}
