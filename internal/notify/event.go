package notify

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind identifies the booking lifecycle moment an event describes.
type EventKind string

const (
	EventBookingRequested EventKind = "booking_requested"
	EventBookingConfirmed EventKind = "booking_confirmed"
	EventBookingRejected  EventKind = "booking_rejected"
)

// LessonSnapshot carries everything a delivery channel needs to render a
// message without reaching back into the ledger.
type LessonSnapshot struct {
	LessonID      string
	StudentName   string
	StudentEmail  string
	Start         time.Time
	End           time.Time
	LocationLabel string
	Price         decimal.Decimal
	Note          string
}

// Event is handed to the NotificationGateway. CalendarLink is only set for
// confirmations.
type Event struct {
	Kind         EventKind
	Lesson       LessonSnapshot
	CalendarLink string
}
