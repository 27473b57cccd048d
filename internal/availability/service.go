package availability

import (
	"context"
)

type Service interface {
	// Set creates or replaces the working window for a weekday.
	Set(ctx context.Context, weekday int, startTime, endTime string) (*Entry, error)
	GetByWeekday(ctx context.Context, weekday int) (*Entry, error)
	List(ctx context.Context) ([]*Entry, error)
	Delete(ctx context.Context, weekday int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Set(ctx context.Context, weekday int, startTime, endTime string) (*Entry, error) {
	if weekday < 0 || weekday > 6 {
		return nil, ErrInvalidWeekday
	}

	sh, sm, err := ParseClock(startTime)
	if err != nil {
		return nil, err
	}
	eh, em, err := ParseClock(endTime)
	if err != nil {
		return nil, err
	}
	if sh*60+sm >= eh*60+em {
		return nil, ErrInvalidTimeRange
	}

	e := &Entry{
		Weekday:   weekday,
		StartTime: startTime,
		EndTime:   endTime,
	}
	if err := s.repo.Upsert(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) GetByWeekday(ctx context.Context, weekday int) (*Entry, error) {
	if weekday < 0 || weekday > 6 {
		return nil, ErrInvalidWeekday
	}
	return s.repo.GetByWeekday(ctx, weekday)
}

func (s *service) List(ctx context.Context) ([]*Entry, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, weekday int) error {
	if weekday < 0 || weekday > 6 {
		return ErrInvalidWeekday
	}
	return s.repo.Delete(ctx, weekday)
}
