package availability

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("no availability for that weekday")
	ErrInvalidWeekday   = errors.New("weekday must be between 0 (Monday) and 6 (Sunday)")
	ErrInvalidTimeRange = errors.New("start time must be before end time")
)

// Weekday names the slots of the weekly template, 0=Monday .. 6=Sunday.
var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Entry is the tutor's working window for one weekday. At most one entry per
// weekday; a weekday without an entry means no lessons that day.
type Entry struct {
	Weekday   int    // 0=Monday .. 6=Sunday
	StartTime string // Format: HH:MM:SS
	EndTime   string // Format: HH:MM:SS
	UpdatedAt time.Time
}

// WeekdayName returns the English name of the entry's weekday.
func (e *Entry) WeekdayName() string {
	if e.Weekday < 0 || e.Weekday > 6 {
		return ""
	}
	return weekdayNames[e.Weekday]
}

// Window anchors the entry's wall-clock times onto the given date in the
// given zone and returns the concrete start and end instants.
func (e *Entry) Window(date time.Time, loc *time.Location) (time.Time, time.Time, error) {
	start, err := combine(date, e.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := combine(date, e.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// WeekdayOf maps a time to the 0=Monday convention used by the weekly template.
func WeekdayOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseClock parses a wall-clock time in HH:MM or HH:MM:SS format.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	return t.Hour(), t.Minute(), nil
}

func combine(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	h, m, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, loc), nil
}
