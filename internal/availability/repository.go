package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Upsert replaces any existing entry for the same weekday.
	Upsert(ctx context.Context, e *Entry) error
	GetByWeekday(ctx context.Context, weekday int) (*Entry, error)
	List(ctx context.Context) ([]*Entry, error)
	Delete(ctx context.Context, weekday int) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Upsert(ctx context.Context, e *Entry) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.weekly_availability").
		Columns("weekday", "start_time", "end_time").
		Values(e.Weekday, e.StartTime, e.EndTime).
		Suffix("ON CONFLICT (weekday) DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, updated_at = now()").
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert availability query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&e.UpdatedAt); err != nil {
		return fmt.Errorf("upsert availability failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByWeekday(ctx context.Context, weekday int) (*Entry, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("weekday", "start_time::text", "end_time::text", "updated_at").
		From("public.weekly_availability").
		Where(squirrel.Eq{"weekday": weekday}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get availability query failed: %w", err)
	}

	var e Entry
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&e.Weekday, &e.StartTime, &e.EndTime, &e.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get availability failed: %w", err)
	}
	return &e, nil
}

func (r *pgxRepository) List(ctx context.Context) ([]*Entry, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("weekday", "start_time::text", "end_time::text", "updated_at").
		From("public.weekly_availability").
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list availability query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availability failed: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Weekday, &e.StartTime, &e.EndTime, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan availability failed: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

func (r *pgxRepository) Delete(ctx context.Context, weekday int) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.weekly_availability").
		Where(squirrel.Eq{"weekday": weekday}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete availability query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete availability failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
