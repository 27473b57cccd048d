package pricing

import (
	"github.com/shopspring/decimal"
)

// Location categorizes where a lesson takes place. Each category carries a
// fixed surcharge added on top of the hourly rate.
type Location string

const (
	LocationBase     Location = "BASE"        // online or at the tutor's place
	LocationNearTown Location = "NEAR_TOWN"   // tutor's town, walking distance
	LocationZone15   Location = "ZONE_15MIN"  // up to 15 minutes by car
	LocationZone30   Location = "ZONE_30MIN"  // up to 30 minutes by car
	LocationOther    Location = "OTHER"       // to be agreed, no surcharge
)

var surcharges = map[Location]decimal.Decimal{
	LocationBase:     decimal.Zero,
	LocationNearTown: decimal.NewFromInt(2),
	LocationZone15:   decimal.NewFromInt(4),
	LocationZone30:   decimal.NewFromInt(8),
	LocationOther:    decimal.Zero,
}

var labels = map[Location]string{
	LocationBase:     "Online / Tutor's place",
	LocationNearTown: "In town",
	LocationZone15:   "Within 15 min",
	LocationZone30:   "Within 30 min",
	LocationOther:    "Other (contact me)",
}

// Valid reports whether l is one of the known location categories.
func (l Location) Valid() bool {
	_, ok := surcharges[l]
	return ok
}

// Label returns a human-readable description of the location category.
func (l Location) Label() string {
	return labels[l]
}

// Surcharge returns the fixed amount added for the location category.
// Unknown categories carry no surcharge.
func Surcharge(l Location) decimal.Decimal {
	return surcharges[l]
}

// PriceFor computes the price of a lesson: hourly rate times duration plus the
// location surcharge. All arithmetic is exact decimal; the hourly rate is the
// tariff captured at booking-creation time, so later tariff changes never
// touch an already-priced lesson.
func PriceFor(durationHours decimal.Decimal, location Location, tariff decimal.Decimal) decimal.Decimal {
	return tariff.Mul(durationHours).Add(Surcharge(location))
}
