package http

import (
	"time"

	"github.com/frago0312/fg-ripetizioni/internal/closure"
)

const dateLayout = "2006-01-02"

type CreateClosureRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Reason    string `json:"reason"`
}

type ClosureResponse struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func NewClosureResponse(c *closure.Closure) ClosureResponse {
	return ClosureResponse{
		ID:        c.ID,
		StartDate: c.StartDate.Format(dateLayout),
		EndDate:   c.EndDate.Format(dateLayout),
		Reason:    c.Reason,
	}
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, loc)
}
