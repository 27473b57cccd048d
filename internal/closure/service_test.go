package closure

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepository struct {
	closures map[string]*Closure
}

func newMemRepository() *memRepository {
	return &memRepository{closures: make(map[string]*Closure)}
}

func (r *memRepository) Create(_ context.Context, c *Closure) error {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	cp := *c
	r.closures[c.ID] = &cp
	return nil
}

func (r *memRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.closures[id]; !ok {
		return ErrNotFound
	}
	delete(r.closures, id)
	return nil
}

func (r *memRepository) ListFrom(_ context.Context, from time.Time) ([]*Closure, error) {
	var out []*Closure
	for _, c := range r.closures {
		if !c.EndDate.Before(from) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepository) FindCovering(_ context.Context, date time.Time) (*Closure, error) {
	for _, c := range r.closures {
		if c.Covers(date) {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateDefaultsToSingleDay(t *testing.T) {
	svc := NewService(newMemRepository())

	c, err := svc.Create(context.Background(), CreateRequest{
		StartDate: day(2026, 12, 24),
		Reason:    "holidays",
	})
	require.NoError(t, err)
	assert.True(t, c.EndDate.Equal(c.StartDate))
	assert.True(t, c.Covers(day(2026, 12, 24)))
	assert.False(t, c.Covers(day(2026, 12, 25)))
}

func TestCreateRejectsInvertedRange(t *testing.T) {
	svc := NewService(newMemRepository())
	end := day(2026, 12, 20)

	_, err := svc.Create(context.Background(), CreateRequest{
		StartDate: day(2026, 12, 24),
		EndDate:   &end,
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestFindCovering(t *testing.T) {
	svc := NewService(newMemRepository())
	end := day(2027, 1, 6)

	_, err := svc.Create(context.Background(), CreateRequest{
		StartDate: day(2026, 12, 24),
		EndDate:   &end,
		Reason:    "winter break",
	})
	require.NoError(t, err)

	c, err := svc.FindCovering(context.Background(), day(2026, 12, 31))
	require.NoError(t, err)
	assert.Equal(t, "winter break", c.Reason)

	// Inclusive bounds.
	_, err = svc.FindCovering(context.Background(), day(2027, 1, 6))
	assert.NoError(t, err)
	_, err = svc.FindCovering(context.Background(), day(2027, 1, 7))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCoversIgnoresTimeOfDay(t *testing.T) {
	c := &Closure{StartDate: day(2026, 12, 24), EndDate: day(2026, 12, 24)}
	assert.True(t, c.Covers(time.Date(2026, 12, 24, 23, 59, 0, 0, time.UTC)))
}
