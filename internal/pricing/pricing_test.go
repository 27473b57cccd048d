package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPriceFor(t *testing.T) {
	rate := decimal.RequireFromString("10.00")

	tests := []struct {
		name     string
		duration string
		location Location
		want     string
	}{
		{"base rate, fractional hours", "1.5", LocationBase, "15.00"},
		{"half hour", "0.5", LocationBase, "5.00"},
		{"near town surcharge", "1", LocationNearTown, "12.00"},
		{"15 minute zone surcharge", "2", LocationZone15, "24.00"},
		{"30 minute zone surcharge", "1.5", LocationZone30, "23.00"},
		{"other has no surcharge", "1", LocationOther, "10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceFor(decimal.RequireFromString(tt.duration), tt.location, rate)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestPriceForIsExact(t *testing.T) {
	// 0.1 + 0.2 style inputs must not accumulate binary float error.
	rate := decimal.RequireFromString("10.10")
	got := PriceFor(decimal.RequireFromString("1.5"), LocationBase, rate)
	assert.True(t, got.Equal(decimal.RequireFromString("15.15")))
}

func TestLocationValid(t *testing.T) {
	for _, l := range []Location{LocationBase, LocationNearTown, LocationZone15, LocationZone30, LocationOther} {
		assert.True(t, l.Valid(), string(l))
	}
	assert.False(t, Location("MOON").Valid())
	assert.False(t, Location("").Valid())
}

func TestSurchargeUnknownIsZero(t *testing.T) {
	assert.True(t, Surcharge(Location("MOON")).IsZero())
}
