package closure

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("closure not found")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
)

// Closure is a tutor-declared unavailable date range, e.g. a vacation.
// Both bounds are inclusive. Ranges may overlap; a date covered by at least
// one closure is unavailable.
type Closure struct {
	ID        string // UUID
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	CreatedAt time.Time
}

// Covers reports whether the given date falls inside the closure range.
func (c *Closure) Covers(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(truncateToDay(c.StartDate)) && !d.After(truncateToDay(c.EndDate))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
