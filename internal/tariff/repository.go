package tariff

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Get returns the stored setting, or the default rate when none was saved yet.
	Get(ctx context.Context) (*Setting, error)
	Set(ctx context.Context, rate decimal.Decimal) (*Setting, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Get(ctx context.Context) (*Setting, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	// Numeric columns travel as text so decimals stay exact.
	query, args, err := psql.Select("base_rate::text", "updated_at").
		From("public.tariff_settings").
		Where(squirrel.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get tariff query failed: %w", err)
	}

	var (
		rateStr string
		s       Setting
	)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rateStr, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &Setting{BaseRate: DefaultBaseRate}, nil
		}
		return nil, fmt.Errorf("get tariff failed: %w", err)
	}

	s.BaseRate, err = decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("parse stored tariff failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) Set(ctx context.Context, rate decimal.Decimal) (*Setting, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.tariff_settings").
		Columns("id", "base_rate").
		Values(1, rate.String()).
		Suffix("ON CONFLICT (id) DO UPDATE SET base_rate = EXCLUDED.base_rate, updated_at = now()").
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build set tariff query failed: %w", err)
	}

	s := &Setting{BaseRate: rate}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("set tariff failed: %w", err)
	}
	return s, nil
}
