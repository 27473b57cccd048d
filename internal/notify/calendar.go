package notify

import (
	"net/url"
	"time"
)

const calendarBaseURL = "https://calendar.google.com/calendar/render"

// compact timestamp format expected by the calendar template URL
const calendarTimeLayout = "20060102T150405"

// CalendarLink builds a Google Calendar event deep link for a confirmed
// lesson. Timestamps are emitted in the lesson's local wall-clock time with
// no timezone suffix, so the event lands correctly only when the viewer's
// calendar zone matches the tutor's.
func CalendarLink(title string, start, end time.Time, location, details string) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", title)
	q.Set("dates", start.Format(calendarTimeLayout)+"/"+end.Format(calendarTimeLayout))
	if location != "" {
		q.Set("location", location)
	}
	if details != "" {
		q.Set("details", details)
	}
	return calendarBaseURL + "?" + q.Encode()
}
