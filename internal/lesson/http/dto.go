package http

import (
	"time"

	"github.com/shopspring/decimal"

	availHttp "github.com/frago0312/fg-ripetizioni/internal/availability/http"
	closureHttp "github.com/frago0312/fg-ripetizioni/internal/closure/http"
	"github.com/frago0312/fg-ripetizioni/internal/lesson"
)

// CreateLessonRequest mirrors the booking form: a date, a start time picked
// from the slot grid, and the lesson parameters.
type CreateLessonRequest struct {
	Date          string          `json:"date" binding:"required,datetime=2006-01-02"`
	Time          string          `json:"time" binding:"required,datetime=15:04"`
	DurationHours decimal.Decimal `json:"duration_hours" binding:"required"`
	Location      string          `json:"location" binding:"required,oneof=BASE NEAR_TOWN ZONE_15MIN ZONE_30MIN OTHER"`
	Note          string          `json:"note"`
}

var half = decimal.New(5, -1) // 0.5

// Validate enforces the form-layer duration rules: half-hour steps, at most
// four hours. The core itself only requires a positive duration.
func (r *CreateLessonRequest) Validate() error {
	d := r.DurationHours
	if !d.IsPositive() || d.GreaterThan(decimal.NewFromInt(4)) {
		return lesson.ErrInvalidDuration
	}
	if !d.Mod(half).IsZero() {
		return lesson.ErrInvalidDuration
	}
	return nil
}

type StudentTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LessonResponse struct {
	ID            string     `json:"id"`
	Student       StudentTag `json:"student"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	DurationHours string     `json:"duration_hours"`
	Location      string     `json:"location"`
	Status        string     `json:"status"`
	Price         string     `json:"price"`
	Paid          bool       `json:"paid"`
	Note          string     `json:"note"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func NewLessonResponse(l *lesson.Lesson) LessonResponse {
	return LessonResponse{
		ID:            l.ID,
		Student:       StudentTag{ID: l.StudentID, Name: l.StudentName},
		StartTime:     l.Start,
		EndTime:       l.End(),
		DurationHours: l.DurationHours.StringFixed(1),
		Location:      string(l.Location),
		Status:        string(l.Status),
		Price:         l.Price.StringFixed(2),
		Paid:          l.Paid,
		Note:          l.Note,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func newLessonList(lessons []*lesson.Lesson) []LessonResponse {
	items := make([]LessonResponse, len(lessons))
	for i, l := range lessons {
		items[i] = NewLessonResponse(l)
	}
	return items
}

type MyLessonsResponse struct {
	Items       []LessonResponse `json:"items"`
	Outstanding string           `json:"outstanding"`
}

type DaySlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
	Note  string   `json:"note,omitempty"`
}

type SettlePaymentsResponse struct {
	Count       int    `json:"count"`
	TotalAmount string `json:"total_amount"`
}

type DashboardResponse struct {
	Pending       []LessonResponse              `json:"pending"`
	Upcoming      []LessonResponse              `json:"upcoming"`
	MonthEarnings string                        `json:"month_earnings"`
	Closures      []closureHttp.ClosureResponse `json:"closures"`
	Availability  []availHttp.EntryResponse     `json:"availability"`
}
