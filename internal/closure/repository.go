package closure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Closure) error
	Delete(ctx context.Context, id string) error
	ListFrom(ctx context.Context, from time.Time) ([]*Closure, error)

	// FindCovering returns the first closure whose range contains the date,
	// or ErrNotFound when the date is open.
	FindCovering(ctx context.Context, date time.Time) (*Closure, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, c *Closure) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.closures").
		Columns("start_date", "end_date", "reason").
		Values(c.StartDate, c.EndDate, c.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create closure query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt)
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.closures").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete closure query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete closure failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListFrom(ctx context.Context, from time.Time) ([]*Closure, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "start_date", "end_date", "reason", "created_at").
		From("public.closures").
		Where(squirrel.GtOrEq{"end_date": from}).
		OrderBy("start_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list closures query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list closures failed: %w", err)
	}
	defer rows.Close()

	var closures []*Closure
	for rows.Next() {
		var c Closure
		if err := rows.Scan(&c.ID, &c.StartDate, &c.EndDate, &c.Reason, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan closure failed: %w", err)
		}
		closures = append(closures, &c)
	}
	return closures, nil
}

func (r *pgxRepository) FindCovering(ctx context.Context, date time.Time) (*Closure, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "start_date", "end_date", "reason", "created_at").
		From("public.closures").
		Where(squirrel.LtOrEq{"start_date": date}).
		Where(squirrel.GtOrEq{"end_date": date}).
		OrderBy("start_date ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find closure query failed: %w", err)
	}

	var c Closure
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.StartDate, &c.EndDate, &c.Reason, &c.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find closure failed: %w", err)
	}
	return &c, nil
}
