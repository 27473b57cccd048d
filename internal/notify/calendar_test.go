package notify

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarLink(t *testing.T) {
	start := time.Date(2026, 9, 7, 15, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	link := CalendarLink("Tutoring lesson - Anna Bianchi", start, end, "In town", "algebra review")

	require.True(t, strings.HasPrefix(link, "https://calendar.google.com/calendar/render?"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "Tutoring lesson - Anna Bianchi", q.Get("text"))
	assert.Equal(t, "20260907T150000/20260907T163000", q.Get("dates"))
	assert.Equal(t, "In town", q.Get("location"))
	assert.Equal(t, "algebra review", q.Get("details"))
}

func TestCalendarLinkOmitsEmptyFields(t *testing.T) {
	start := time.Date(2026, 9, 7, 15, 0, 0, 0, time.UTC)

	link := CalendarLink("Lesson", start, start.Add(time.Hour), "", "")

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()

	assert.False(t, q.Has("location"))
	assert.False(t, q.Has("details"))
}
