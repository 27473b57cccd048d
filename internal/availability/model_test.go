package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayOf(t *testing.T) {
	// 2026-09-07 is a Monday.
	monday := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, WeekdayOf(monday.AddDate(0, 0, i)))
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("14:30:00")
	require.NoError(t, err)
	assert.Equal(t, 14, h)
	assert.Equal(t, 30, m)

	h, m, err = ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 5, m)

	_, _, err = ParseClock("25:00")
	assert.Error(t, err)
	_, _, err = ParseClock("noon")
	assert.Error(t, err)
}

func TestWindow(t *testing.T) {
	e := &Entry{Weekday: 0, StartTime: "14:30:00", EndTime: "19:00:00"}
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	start, end, err := e.Window(date, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 7, 14, 30, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 9, 7, 19, 0, 0, 0, time.UTC), end)

	bad := &Entry{Weekday: 0, StartTime: "bogus", EndTime: "19:00:00"}
	_, _, err = bad.Window(date, time.UTC)
	assert.Error(t, err)
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Monday", (&Entry{Weekday: 0}).WeekdayName())
	assert.Equal(t, "Sunday", (&Entry{Weekday: 6}).WeekdayName())
	assert.Equal(t, "", (&Entry{Weekday: 7}).WeekdayName())
}
