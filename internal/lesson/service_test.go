package lesson

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/frago0312/fg-ripetizioni/internal/availability"
	"github.com/frago0312/fg-ripetizioni/internal/closure"
	"github.com/frago0312/fg-ripetizioni/internal/notify"
	"github.com/frago0312/fg-ripetizioni/internal/pricing"
	"github.com/frago0312/fg-ripetizioni/internal/student"
	"github.com/frago0312/fg-ripetizioni/internal/tariff"
)

// ---- in-memory fakes ----

// memRepo mimics the lessons table, including the exclusion constraint over
// non-rejected rows.
type memRepo struct {
	mu      sync.Mutex
	lessons map[string]*Lesson
}

func newMemRepo() *memRepo {
	return &memRepo{lessons: make(map[string]*Lesson)}
}

func (r *memRepo) Create(_ context.Context, l *Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.lessons {
		if other.Status != StatusRejected && other.Overlaps(l.Start, l.End()) {
			return ErrOverlap
		}
	}

	l.ID = uuid.NewString()
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	r.lessons[l.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lessons[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *memRepo) ListByStudent(_ context.Context, studentID string) ([]*Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Lesson
	for _, l := range r.lessons {
		if l.StudentID == studentID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRepo) ListActiveStartingBefore(_ context.Context, before time.Time) ([]*Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Lesson
	for _, l := range r.lessons {
		if l.Status != StatusRejected && l.Start.Before(before) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRepo) ListActiveBetween(_ context.Context, from, to time.Time) ([]*Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Lesson
	for _, l := range r.lessons {
		if l.Status != StatusRejected && !l.Start.Before(from) && l.Start.Before(to) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateStatusFrom(_ context.Context, id string, from, to Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lessons[id]
	if !ok || l.Status != from {
		return false, nil
	}
	l.Status = to
	return true, nil
}

func (r *memRepo) SetPaid(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lessons[id]
	if !ok {
		return ErrNotFound
	}
	l.Paid = true
	return nil
}

func (r *memRepo) BulkMarkPaid(_ context.Context, studentID string) (int, decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	total := decimal.Zero
	for _, l := range r.lessons {
		if l.StudentID == studentID && l.Status == StatusConfirmed && !l.Paid {
			l.Paid = true
			count++
			total = total.Add(l.Price)
		}
	}
	return count, total, nil
}

func (r *memRepo) SumUnpaid(_ context.Context, studentID string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, l := range r.lessons {
		if l.StudentID == studentID && l.Status == StatusConfirmed && !l.Paid {
			total = total.Add(l.Price)
		}
	}
	return total, nil
}

func (r *memRepo) SumPaidSince(_ context.Context, from time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, l := range r.lessons {
		if l.Status == StatusConfirmed && l.Paid && !l.Start.Before(from) {
			total = total.Add(l.Price)
		}
	}
	return total, nil
}

func (r *memRepo) ListByStatusFrom(_ context.Context, status Status, from *time.Time) ([]*Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Lesson
	for _, l := range r.lessons {
		if l.Status != status {
			continue
		}
		if from != nil && l.Start.Before(*from) {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRepo) ListConfirmedBetween(_ context.Context, from, to *time.Time) ([]*Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Lesson
	for _, l := range r.lessons {
		if l.Status != StatusConfirmed {
			continue
		}
		if from != nil && l.Start.Before(*from) {
			continue
		}
		if to != nil && !l.Start.Before(*to) {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

type fakeStudents struct {
	byID map[string]*student.Student
}

func (f *fakeStudents) Register(context.Context, student.RegisterRequest) (*student.Student, error) {
	panic("not used")
}
func (f *fakeStudents) Login(context.Context, string, string) (*student.Student, error) {
	panic("not used")
}
func (f *fakeStudents) GetByID(_ context.Context, id string) (*student.Student, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, student.ErrNotFound
}
func (f *fakeStudents) Profile(context.Context, string) (*student.Profile, error) {
	panic("not used")
}
func (f *fakeStudents) UpdateProfile(context.Context, string, string, string) (*student.Profile, error) {
	panic("not used")
}

type fakeAvailability struct {
	byWeekday map[int]*availability.Entry
}

func (f *fakeAvailability) Set(context.Context, int, string, string) (*availability.Entry, error) {
	panic("not used")
}
func (f *fakeAvailability) GetByWeekday(_ context.Context, weekday int) (*availability.Entry, error) {
	if e, ok := f.byWeekday[weekday]; ok {
		return e, nil
	}
	return nil, availability.ErrNotFound
}
func (f *fakeAvailability) List(context.Context) ([]*availability.Entry, error) {
	var out []*availability.Entry
	for _, e := range f.byWeekday {
		out = append(out, e)
	}
	return out, nil
}
func (f *fakeAvailability) Delete(context.Context, int) error { panic("not used") }

type fakeClosures struct {
	closures []*closure.Closure
}

func (f *fakeClosures) Create(context.Context, closure.CreateRequest) (*closure.Closure, error) {
	panic("not used")
}
func (f *fakeClosures) Delete(context.Context, string) error { panic("not used") }
func (f *fakeClosures) ListUpcoming(context.Context, time.Time) ([]*closure.Closure, error) {
	return f.closures, nil
}
func (f *fakeClosures) FindCovering(_ context.Context, date time.Time) (*closure.Closure, error) {
	for _, c := range f.closures {
		if c.Covers(date) {
			return c, nil
		}
	}
	return nil, closure.ErrNotFound
}

type fakeTariff struct {
	rate decimal.Decimal
}

func (f *fakeTariff) Current(context.Context) (*tariff.Setting, error) {
	return &tariff.Setting{BaseRate: f.rate}, nil
}
func (f *fakeTariff) Update(_ context.Context, rate decimal.Decimal) (*tariff.Setting, error) {
	f.rate = rate
	return &tariff.Setting{BaseRate: rate}, nil
}

type recordingNotifier struct {
	events []notify.Event
	fail   bool
}

func (n *recordingNotifier) Notify(_ context.Context, e notify.Event) error {
	if n.fail {
		return errors.New("smtp down")
	}
	n.events = append(n.events, e)
	return nil
}

// ---- test fixture ----

const studentID = "3d0f8f6e-0000-4000-8000-000000000001"

type fixture struct {
	repo      *memRepo
	avail     *fakeAvailability
	closures  *fakeClosures
	tariffs   *fakeTariff
	notifier  *recordingNotifier
	svc       *service
	now       time.Time
	monday    time.Time // next Monday relative to now, midnight UTC
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	// Tuesday 2026-09-01 10:00 UTC; the Monday under test is 2026-09-07.
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	f := &fixture{
		repo: newMemRepo(),
		avail: &fakeAvailability{byWeekday: map[int]*availability.Entry{
			// Monday 14:30 - 19:00, like the tutor's real template.
			0: {Weekday: 0, StartTime: "14:30:00", EndTime: "19:00:00"},
		}},
		closures: &fakeClosures{},
		tariffs:  &fakeTariff{rate: decimal.RequireFromString("10.00")},
		notifier: &recordingNotifier{},
		now:      now,
		monday:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
	}

	students := &fakeStudents{byID: map[string]*student.Student{
		studentID: {ID: studentID, Email: "anna@example.com", FirstName: "Anna", LastName: "Bianchi"},
	}}

	svc := NewService(
		f.repo, students, f.avail, f.closures, f.tariffs,
		f.notifier, zap.NewNop(), time.UTC,
	).(*service)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func (f *fixture) request(t *testing.T, hour, min int, duration string) (*Lesson, error) {
	t.Helper()
	return f.svc.Request(context.Background(), CreateRequest{
		StudentID:     studentID,
		Start:         f.monday.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute),
		DurationHours: decimal.RequireFromString(duration),
		Location:      pricing.LocationBase,
	})
}

// ---- validation & pricing ----

func TestRequestAcceptsAndPrices(t *testing.T) {
	f := newFixture(t)

	l, err := f.request(t, 14, 30, "1.5")
	require.NoError(t, err)

	assert.Equal(t, StatusRequested, l.Status)
	assert.Equal(t, "15.00", l.Price.StringFixed(2))
	assert.Equal(t, f.monday.Add(16*time.Hour), l.End())
	assert.False(t, l.Paid)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, notify.EventBookingRequested, f.notifier.events[0].Kind)
	assert.Equal(t, "Anna Bianchi", f.notifier.events[0].Lesson.StudentName)
}

func TestRequestLocationSurcharge(t *testing.T) {
	f := newFixture(t)

	l, err := f.svc.Request(context.Background(), CreateRequest{
		StudentID:     studentID,
		Start:         f.monday.Add(15 * time.Hour),
		DurationHours: decimal.RequireFromString("1"),
		Location:      pricing.LocationZone30,
	})
	require.NoError(t, err)
	assert.Equal(t, "18.00", l.Price.StringFixed(2))
}

func TestRequestRejectsPast(t *testing.T) {
	f := newFixture(t)
	f.now = f.monday.Add(18 * time.Hour) // Monday evening

	_, err := f.request(t, 15, 0, "1")
	assert.ErrorIs(t, err, ErrPast)
}

func TestRequestRejectsClosedDate(t *testing.T) {
	f := newFixture(t)
	f.closures.closures = []*closure.Closure{
		{StartDate: f.monday.AddDate(0, 0, -2), EndDate: f.monday.AddDate(0, 0, 5), Reason: "vacation"},
	}

	_, err := f.request(t, 15, 0, "1")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRequestRejectsWeekdayWithoutAvailability(t *testing.T) {
	f := newFixture(t)

	// Sunday 2026-09-06 has no template entry.
	_, err := f.svc.Request(context.Background(), CreateRequest{
		StudentID:     studentID,
		Start:         f.monday.AddDate(0, 0, -1).Add(15 * time.Hour),
		DurationHours: decimal.RequireFromString("1"),
		Location:      pricing.LocationBase,
	})
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestRequestWindowBoundaries(t *testing.T) {
	f := newFixture(t)

	// Exactly filling [14:30, 19:00) is legal.
	l, err := f.request(t, 14, 30, "4.5")
	require.NoError(t, err)
	assert.Equal(t, f.monday.Add(19*time.Hour), l.End())

	f2 := newFixture(t)
	// Starting before the window opens.
	_, err = f2.request(t, 14, 0, "1")
	assert.ErrorIs(t, err, ErrOutOfWindow)

	// Extending past the window end.
	_, err = f2.request(t, 18, 30, "1")
	assert.ErrorIs(t, err, ErrOutOfWindow)
}

func TestRequestRejectsOverlap(t *testing.T) {
	f := newFixture(t)

	// Existing confirmed lesson 15:00-16:00.
	first, err := f.request(t, 15, 0, "1")
	require.NoError(t, err)
	_, err = f.svc.Transition(context.Background(), first.ID, StatusConfirmed)
	require.NoError(t, err)

	_, err = f.request(t, 15, 30, "1")
	assert.ErrorIs(t, err, ErrOverlap)

	// A requested (not yet confirmed) lesson also blocks.
	_, err = f.request(t, 15, 30, "0.5")
	assert.ErrorIs(t, err, ErrOverlap)

	// Back-to-back is fine: half-open intervals.
	_, err = f.request(t, 16, 0, "1")
	assert.NoError(t, err)
}

func TestClosureWinsOverAvailability(t *testing.T) {
	f := newFixture(t)
	f.closures.closures = []*closure.Closure{
		{StartDate: f.monday, EndDate: f.monday},
	}

	// The weekly template would allow it, the closure still rejects.
	_, err := f.request(t, 15, 0, "1")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRequestValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Request(context.Background(), CreateRequest{
		StudentID:     studentID,
		Start:         f.monday.Add(15 * time.Hour),
		DurationHours: decimal.Zero,
		Location:      pricing.LocationBase,
	})
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = f.svc.Request(context.Background(), CreateRequest{
		StudentID:     studentID,
		Start:         f.monday.Add(15 * time.Hour),
		DurationHours: decimal.RequireFromString("1"),
		Location:      pricing.Location("MOON"),
	})
	assert.ErrorIs(t, err, ErrInvalidLocation)

	_, err = f.svc.Request(context.Background(), CreateRequest{
		StudentID:     uuid.NewString(),
		Start:         f.monday.Add(15 * time.Hour),
		DurationHours: decimal.RequireFromString("1"),
		Location:      pricing.LocationBase,
	})
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestTariffChangeNeverRepricesExistingLessons(t *testing.T) {
	f := newFixture(t)

	l, err := f.request(t, 15, 0, "1")
	require.NoError(t, err)
	require.Equal(t, "10.00", l.Price.StringFixed(2))

	_, err = f.tariffs.Update(context.Background(), decimal.RequireFromString("20.00"))
	require.NoError(t, err)

	stored, err := f.svc.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", stored.Price.StringFixed(2))

	// A new lesson picks up the new rate.
	l2, err := f.request(t, 17, 0, "1")
	require.NoError(t, err)
	assert.Equal(t, "20.00", l2.Price.StringFixed(2))
}

func TestNotificationFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.notifier.fail = true

	l, err := f.request(t, 15, 0, "1")
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, l.Status)
}

// ---- free slot enumeration ----

func TestFreeSlotsSkipsBookedStarts(t *testing.T) {
	f := newFixture(t)

	l, err := f.request(t, 15, 0, "1")
	require.NoError(t, err)
	_, err = f.svc.Transition(context.Background(), l.ID, StatusConfirmed)
	require.NoError(t, err)

	slots, err := f.svc.FreeSlots(context.Background(), f.monday)
	require.NoError(t, err)

	assert.Empty(t, slots.Note)
	assert.NotContains(t, slots.Slots, "15:00")
	assert.NotContains(t, slots.Slots, "15:30")
	assert.Contains(t, slots.Slots, "14:30")
	assert.Contains(t, slots.Slots, "16:00")
	assert.Contains(t, slots.Slots, "16:30")
	assert.Equal(t, "18:30", slots.Slots[len(slots.Slots)-1])

	// Ascending order.
	for i := 1; i < len(slots.Slots); i++ {
		assert.Less(t, slots.Slots[i-1], slots.Slots[i])
	}
}

func TestFreeSlotsClosedDate(t *testing.T) {
	f := newFixture(t)
	f.closures.closures = []*closure.Closure{
		{StartDate: f.monday, EndDate: f.monday, Reason: "conference"},
	}

	slots, err := f.svc.FreeSlots(context.Background(), f.monday)
	require.NoError(t, err)
	assert.Empty(t, slots.Slots)
	assert.Equal(t, "Not available: conference", slots.Note)
}

func TestFreeSlotsNoWeekdayEntry(t *testing.T) {
	f := newFixture(t)

	slots, err := f.svc.FreeSlots(context.Background(), f.monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, slots.Slots)
	assert.Equal(t, "No lessons on this weekday", slots.Note)
}

func TestFreeSlotsFullyBooked(t *testing.T) {
	f := newFixture(t)

	_, err := f.request(t, 14, 30, "4.5")
	require.NoError(t, err)

	slots, err := f.svc.FreeSlots(context.Background(), f.monday)
	require.NoError(t, err)
	assert.Empty(t, slots.Slots)
	assert.Equal(t, "Fully booked", slots.Note)
}

// ---- transitions & payments ----

func TestTransitionConfirmEmitsCalendarLink(t *testing.T) {
	f := newFixture(t)

	l, err := f.request(t, 15, 0, "1")
	require.NoError(t, err)
	f.notifier.events = nil

	confirmed, err := f.svc.Transition(context.Background(), l.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)

	require.Len(t, f.notifier.events, 1)
	ev := f.notifier.events[0]
	assert.Equal(t, notify.EventBookingConfirmed, ev.Kind)
	assert.Contains(t, ev.CalendarLink, "20260907T150000%2F20260907T160000")
}

func TestTransitionRejectedIsTerminal(t *testing.T) {
	f := newFixture(t)

	l, err := f.request(t, 15, 0, "1")
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), l.ID, StatusRejected)
	require.NoError(t, err)

	// Confirming a rejected lesson must not silently succeed.
	_, err = f.svc.Transition(context.Background(), l.ID, StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Re-applying the same decision is rejected too.
	_, err = f.svc.Transition(context.Background(), l.ID, StatusRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Transition(context.Background(), uuid.NewString(), StatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)

	l, err := f.request(t, 15, 0, "1")
	require.NoError(t, err)
	_, err = f.svc.Transition(context.Background(), l.ID, StatusRequested)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	f := newFixture(t)

	l, err := f.request(t, 15, 0, "1")
	require.NoError(t, err)

	paid, err := f.svc.MarkPaid(context.Background(), l.ID)
	require.NoError(t, err)
	assert.True(t, paid.Paid)

	paid, err = f.svc.MarkPaid(context.Background(), l.ID)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
}

func TestBulkMarkPaid(t *testing.T) {
	f := newFixture(t)

	// Three confirmed unpaid lessons: 1h, 1.5h, 2h at 10/h = 45.00 total.
	for _, d := range []struct {
		hour     int
		duration string
	}{{14, "1"}, {15, "1.5"}, {17, "2"}} {
		l, err := f.svc.Request(context.Background(), CreateRequest{
			StudentID:     studentID,
			Start:         f.monday.Add(time.Duration(d.hour)*time.Hour + 30*time.Minute),
			DurationHours: decimal.RequireFromString(d.duration),
			Location:      pricing.LocationBase,
		})
		require.NoError(t, err)
		_, err = f.svc.Transition(context.Background(), l.ID, StatusConfirmed)
		require.NoError(t, err)
	}

	count, total, err := f.svc.BulkMarkPaid(context.Background(), studentID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, "45.00", total.StringFixed(2))

	// Everything settled: nothing outstanding, second run is a no-op.
	_, outstanding, err := f.svc.ListByStudent(context.Background(), studentID)
	require.NoError(t, err)
	assert.True(t, outstanding.IsZero())

	count, total, err = f.svc.BulkMarkPaid(context.Background(), studentID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.True(t, total.IsZero())

	_, _, err = f.svc.BulkMarkPaid(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

// ---- no-overlap property ----

func TestAcceptedLessonsNeverOverlap(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewSource(42))

	durations := []string{"0.5", "1", "1.5", "2"}
	var accepted []*Lesson

	for i := 0; i < 200; i++ {
		start := f.monday.Add(14*time.Hour + 30*time.Minute).
			Add(time.Duration(rng.Intn(9)) * 30 * time.Minute)
		d := durations[rng.Intn(len(durations))]

		l, err := f.svc.Request(context.Background(), CreateRequest{
			StudentID:     studentID,
			Start:         start,
			DurationHours: decimal.RequireFromString(d),
			Location:      pricing.LocationBase,
		})
		if err != nil {
			if !errors.Is(err, ErrOverlap) && !errors.Is(err, ErrOutOfWindow) {
				t.Fatalf("unexpected rejection: %v", err)
			}
			continue
		}
		accepted = append(accepted, l)
	}

	require.NotEmpty(t, accepted)
	for i := 0; i < len(accepted); i++ {
		for j := i + 1; j < len(accepted); j++ {
			a, b := accepted[i], accepted[j]
			assert.False(t, a.Overlaps(b.Start, b.End()),
				"lessons %s and %s overlap", a.ID, b.ID)
		}
	}
}
