package lesson

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frago0312/fg-ripetizioni/internal/pkg/apperror"
	"github.com/frago0312/fg-ripetizioni/internal/pricing"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "lesson not found")
	ErrStudentNotFound = apperror.New(http.StatusNotFound, "student not found")
	ErrInvalidDuration = apperror.New(http.StatusBadRequest, "duration must be positive")
	ErrInvalidLocation = apperror.New(http.StatusBadRequest, "unknown location category")
	ErrInvalidStatus   = apperror.New(http.StatusBadRequest, "invalid lesson status")

	// Validation rejections, surfaced in the order they are checked.
	ErrPast           = apperror.NewWithReason(http.StatusBadRequest, "PAST", "cannot book a lesson in the past")
	ErrClosed         = apperror.NewWithReason(http.StatusConflict, "CLOSED", "the tutor is away on that date")
	ErrNoAvailability = apperror.NewWithReason(http.StatusConflict, "NO_AVAILABILITY_THAT_WEEKDAY", "no lessons on that weekday")
	ErrOutOfWindow    = apperror.NewWithReason(http.StatusConflict, "OUT_OF_WINDOW", "requested time falls outside the tutor's hours")
	ErrOverlap        = apperror.NewWithReason(http.StatusConflict, "OVERLAP", "time slot already taken")

	ErrInvalidTransition = apperror.New(http.StatusConflict, "lesson already confirmed or rejected")
)

type Status string

const (
	StatusRequested Status = "requested"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// Label returns the display name used in exports and messages. Labels stay in
// Italian for byte-compatibility with the historical CSV export.
func (s Status) Label() string {
	switch s {
	case StatusRequested:
		return "In attesa di conferma"
	case StatusConfirmed:
		return "Confermata"
	case StatusRejected:
		return "Rifiutata"
	}
	return string(s)
}

// Lesson is a requested, confirmed or rejected booking occupying a
// start+duration interval on the tutor's calendar.
type Lesson struct {
	ID            string // UUID
	StudentID     string
	StudentName   string // joined, read-only
	StudentEmail  string // joined, read-only
	Start         time.Time
	DurationHours decimal.Decimal
	Location      pricing.Location
	Status        Status
	Price         decimal.Decimal // captured at creation, never recomputed
	Paid          bool
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// End derives the lesson's end instant from its start and duration.
func (l *Lesson) End() time.Time {
	secs := l.DurationHours.Mul(decimal.NewFromInt(3600)).IntPart()
	return l.Start.Add(time.Duration(secs) * time.Second)
}

// Overlaps is the half-open interval test used for conflict validation:
// two lessons collide when each starts before the other ends.
func (l *Lesson) Overlaps(start, end time.Time) bool {
	return start.Before(l.End()) && end.After(l.Start)
}
