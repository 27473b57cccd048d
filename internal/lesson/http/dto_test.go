package http

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/frago0312/fg-ripetizioni/internal/lesson"
)

func TestCreateLessonRequestValidate(t *testing.T) {
	valid := []string{"0.5", "1", "1.5", "2", "2.5", "3", "3.5", "4"}
	for _, d := range valid {
		r := CreateLessonRequest{DurationHours: decimal.RequireFromString(d)}
		assert.NoError(t, r.Validate(), d)
	}

	invalid := []string{"0", "-1", "0.25", "1.2", "4.5", "10"}
	for _, d := range invalid {
		r := CreateLessonRequest{DurationHours: decimal.RequireFromString(d)}
		assert.ErrorIs(t, r.Validate(), lesson.ErrInvalidDuration, d)
	}
}
