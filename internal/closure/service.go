package closure

import (
	"context"
	"time"
)

type CreateRequest struct {
	StartDate time.Time
	EndDate   *time.Time // nil means single-day closure
	Reason    string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Closure, error)
	Delete(ctx context.Context, id string) error
	ListUpcoming(ctx context.Context, from time.Time) ([]*Closure, error)
	FindCovering(ctx context.Context, date time.Time) (*Closure, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Closure, error) {
	end := req.StartDate
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if end.Before(req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	c := &Closure{
		StartDate: req.StartDate,
		EndDate:   end,
		Reason:    req.Reason,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListUpcoming(ctx context.Context, from time.Time) ([]*Closure, error) {
	return s.repo.ListFrom(ctx, from)
}

func (s *service) FindCovering(ctx context.Context, date time.Time) (*Closure, error) {
	return s.repo.FindCovering(ctx, date)
}
