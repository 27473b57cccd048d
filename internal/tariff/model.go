package tariff

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidRate = errors.New("hourly rate must be positive")

// DefaultBaseRate applies when the tutor has never saved a tariff.
var DefaultBaseRate = decimal.RequireFromString("10.00")

// Setting is the single process-wide base hourly rate. Changing it never
// reprices existing lessons; the rate is captured into each lesson at
// creation time.
type Setting struct {
	BaseRate  decimal.Decimal
	UpdatedAt time.Time
}
