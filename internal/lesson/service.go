package lesson

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/frago0312/fg-ripetizioni/internal/availability"
	"github.com/frago0312/fg-ripetizioni/internal/closure"
	"github.com/frago0312/fg-ripetizioni/internal/notify"
	"github.com/frago0312/fg-ripetizioni/internal/pricing"
	"github.com/frago0312/fg-ripetizioni/internal/student"
	"github.com/frago0312/fg-ripetizioni/internal/tariff"
)

// SlotGranularity is the step between candidate start times offered to
// students. Lessons themselves may have any duration; the grid is only for
// discovery.
const SlotGranularity = 30 * time.Minute

type CreateRequest struct {
	StudentID     string
	Start         time.Time
	DurationHours decimal.Decimal
	Location      pricing.Location
	Note          string
}

// DaySlots is the result of free-slot enumeration for one date. When no
// slots are offered, Note tells the student why.
type DaySlots struct {
	Date  time.Time
	Slots []string // "HH:MM", ascending
	Note  string   // empty when Slots is non-empty
}

// Dashboard is the tutor's view over the ledger.
type Dashboard struct {
	Pending       []*Lesson // requested, oldest start first
	Upcoming      []*Lesson // confirmed, starting from now
	MonthEarnings decimal.Decimal
}

type Service interface {
	// Request validates a proposed lesson against the weekly availability,
	// the closure calendar and the existing ledger, prices it against the
	// current tariff and creates it in requested state.
	Request(ctx context.Context, req CreateRequest) (*Lesson, error)
	// FreeSlots lists candidate start times for a date at SlotGranularity steps.
	FreeSlots(ctx context.Context, date time.Time) (*DaySlots, error)

	GetByID(ctx context.Context, id string) (*Lesson, error)
	// ListByStudent returns the student's lessons, newest first, together
	// with the outstanding amount (confirmed and unpaid).
	ListByStudent(ctx context.Context, studentID string) ([]*Lesson, decimal.Decimal, error)

	// Transition moves a requested lesson to confirmed or rejected.
	Transition(ctx context.Context, id string, target Status) (*Lesson, error)
	MarkPaid(ctx context.Context, id string) (*Lesson, error)
	BulkMarkPaid(ctx context.Context, studentID string) (int, decimal.Decimal, error)

	TutorDashboard(ctx context.Context) (*Dashboard, error)
	ExportCSV(ctx context.Context, from, to *time.Time, w io.Writer) error
}

type service struct {
	repo         Repository
	students     student.Service
	availability availability.Service
	closures     closure.Service
	tariffs      tariff.Service
	notifier     notify.Notifier
	log          *zap.Logger
	zone         *time.Location

	now func() time.Time
}

func NewService(
	repo Repository,
	students student.Service,
	availabilitySvc availability.Service,
	closures closure.Service,
	tariffs tariff.Service,
	notifier notify.Notifier,
	log *zap.Logger,
	zone *time.Location,
) Service {
	return &service{
		repo:         repo,
		students:     students,
		availability: availabilitySvc,
		closures:     closures,
		tariffs:      tariffs,
		notifier:     notifier,
		log:          log,
		zone:         zone,
		now:          time.Now,
	}
}

func (s *service) Request(ctx context.Context, req CreateRequest) (*Lesson, error) {
	if !req.DurationHours.IsPositive() {
		return nil, ErrInvalidDuration
	}
	if !req.Location.Valid() {
		return nil, ErrInvalidLocation
	}

	st, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	start := req.Start.In(s.zone)
	proposed := &Lesson{
		StudentID:     req.StudentID,
		Start:         start,
		DurationHours: req.DurationHours,
		Location:      req.Location,
		Note:          req.Note,
	}
	end := proposed.End()

	// 1. No booking in the past.
	if start.Before(s.now().In(s.zone)) {
		return nil, ErrPast
	}

	// 2. Closure calendar wins over weekly availability.
	if _, err := s.closures.FindCovering(ctx, start); err == nil {
		return nil, ErrClosed
	} else if !errors.Is(err, closure.ErrNotFound) {
		return nil, err
	}

	// 3+4. Weekly window for that weekday must exist and contain the lesson.
	entry, err := s.availability.GetByWeekday(ctx, availability.WeekdayOf(start))
	if err != nil {
		if errors.Is(err, availability.ErrNotFound) {
			return nil, ErrNoAvailability
		}
		return nil, err
	}
	windowStart, windowEnd, err := entry.Window(start, s.zone)
	if err != nil {
		return nil, fmt.Errorf("bad availability entry for weekday %d: %w", entry.Weekday, err)
	}
	if start.Before(windowStart) || end.After(windowEnd) {
		return nil, ErrOutOfWindow
	}

	// 5. Pairwise interval overlap against active lessons. Lessons have
	// variable duration, so fixed-slot bucketing would miss conflicts.
	others, err := s.repo.ListActiveStartingBefore(ctx, end)
	if err != nil {
		return nil, err
	}
	for _, other := range others {
		if other.Overlaps(start, end) {
			return nil, ErrOverlap
		}
	}

	// 6. Price against the tariff in force right now. The snapshot lives in
	// the lesson from here on; tariff changes never touch it.
	current, err := s.tariffs.Current(ctx)
	if err != nil {
		return nil, err
	}
	proposed.Status = StatusRequested
	proposed.Price = pricing.PriceFor(req.DurationHours, req.Location, current.BaseRate)

	// The insert re-runs the overlap check inside the database (exclusion
	// constraint), closing the check-then-act race between two requesters.
	if err := s.repo.Create(ctx, proposed); err != nil {
		return nil, err
	}
	proposed.StudentName = st.FullName()
	proposed.StudentEmail = st.Email

	s.emit(ctx, notify.EventBookingRequested, proposed, "")
	return proposed, nil
}

func (s *service) FreeSlots(ctx context.Context, date time.Time) (*DaySlots, error) {
	date = date.In(s.zone)
	out := &DaySlots{Date: date}

	if c, err := s.closures.FindCovering(ctx, date); err == nil {
		out.Note = "Not available: " + closureReason(c)
		return out, nil
	} else if !errors.Is(err, closure.ErrNotFound) {
		return nil, err
	}

	entry, err := s.availability.GetByWeekday(ctx, availability.WeekdayOf(date))
	if err != nil {
		if errors.Is(err, availability.ErrNotFound) {
			out.Note = "No lessons on this weekday"
			return out, nil
		}
		return nil, err
	}

	windowStart, windowEnd, err := entry.Window(date, s.zone)
	if err != nil {
		return nil, fmt.Errorf("bad availability entry for weekday %d: %w", entry.Weekday, err)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.zone)
	booked, err := s.repo.ListActiveBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	// A candidate is taken when its start instant is swallowed by an existing
	// lesson. This deliberately ignores the requested duration; the real
	// interval check runs again on submission.
	for cur := windowStart; cur.Before(windowEnd); cur = cur.Add(SlotGranularity) {
		taken := false
		for _, l := range booked {
			if !cur.Before(l.Start) && cur.Before(l.End()) {
				taken = true
				break
			}
		}
		if !taken {
			out.Slots = append(out.Slots, cur.Format("15:04"))
		}
	}

	if len(out.Slots) == 0 {
		out.Note = "Fully booked"
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Lesson, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByStudent(ctx context.Context, studentID string) ([]*Lesson, decimal.Decimal, error) {
	lessons, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	outstanding, err := s.repo.SumUnpaid(ctx, studentID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return lessons, outstanding, nil
}

func (s *service) Transition(ctx context.Context, id string, target Status) (*Lesson, error) {
	if target != StatusConfirmed && target != StatusRejected {
		return nil, ErrInvalidStatus
	}

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusRequested {
		return nil, ErrInvalidTransition
	}

	// Conditional update so a concurrent decision cannot double-fire.
	changed, err := s.repo.UpdateStatusFrom(ctx, id, StatusRequested, target)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrInvalidTransition
	}
	l.Status = target

	switch target {
	case StatusConfirmed:
		link := notify.CalendarLink(
			"Tutoring lesson - "+l.StudentName,
			l.Start.In(s.zone), l.End().In(s.zone),
			l.Location.Label(), l.Note,
		)
		s.emit(ctx, notify.EventBookingConfirmed, l, link)
	case StatusRejected:
		s.emit(ctx, notify.EventBookingRejected, l, "")
	}
	return l, nil
}

func (s *service) MarkPaid(ctx context.Context, id string) (*Lesson, error) {
	if err := s.repo.SetPaid(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) BulkMarkPaid(ctx context.Context, studentID string) (int, decimal.Decimal, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return 0, decimal.Zero, ErrStudentNotFound
		}
		return 0, decimal.Zero, err
	}
	return s.repo.BulkMarkPaid(ctx, studentID)
}

func (s *service) TutorDashboard(ctx context.Context) (*Dashboard, error) {
	pending, err := s.repo.ListByStatusFrom(ctx, StatusRequested, nil)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.zone)
	upcoming, err := s.repo.ListByStatusFrom(ctx, StatusConfirmed, &now)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.zone)
	earnings, err := s.repo.SumPaidSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Pending:       pending,
		Upcoming:      upcoming,
		MonthEarnings: earnings,
	}, nil
}

// emit hands the event to the notification gateway. Delivery is best effort:
// a failure is logged and the booking outcome stands.
func (s *service) emit(ctx context.Context, kind notify.EventKind, l *Lesson, calendarLink string) {
	ev := notify.Event{
		Kind: kind,
		Lesson: notify.LessonSnapshot{
			LessonID:      l.ID,
			StudentName:   l.StudentName,
			StudentEmail:  l.StudentEmail,
			Start:         l.Start.In(s.zone),
			End:           l.End().In(s.zone),
			LocationLabel: l.Location.Label(),
			Price:         l.Price,
			Note:          l.Note,
		},
		CalendarLink: calendarLink,
	}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.log.Warn("notification delivery failed",
			zap.String("kind", string(kind)),
			zap.String("lesson_id", l.ID),
			zap.Error(err),
		)
	}
}

func closureReason(c *closure.Closure) string {
	if c.Reason != "" {
		return c.Reason
	}
	return "closed"
}
