package tariff

import (
	"context"

	"github.com/shopspring/decimal"
)

type Service interface {
	Current(ctx context.Context) (*Setting, error)
	Update(ctx context.Context, rate decimal.Decimal) (*Setting, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Current(ctx context.Context) (*Setting, error) {
	return s.repo.Get(ctx)
}

func (s *service) Update(ctx context.Context, rate decimal.Decimal) (*Setting, error) {
	if !rate.IsPositive() {
		return nil, ErrInvalidRate
	}
	return s.repo.Set(ctx, rate)
}
