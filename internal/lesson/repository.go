package lesson

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/frago0312/fg-ripetizioni/internal/pricing"
)

type Repository interface {
	// Create inserts the lesson. The lessons table carries an exclusion
	// constraint over the occupied time range of non-rejected rows, so two
	// concurrent requests for overlapping slots cannot both land; the loser
	// gets ErrOverlap.
	Create(ctx context.Context, l *Lesson) error
	GetByID(ctx context.Context, id string) (*Lesson, error)
	ListByStudent(ctx context.Context, studentID string) ([]*Lesson, error)

	// ListActiveStartingBefore returns requested/confirmed lessons starting
	// before the given instant (conflict pre-filter).
	ListActiveStartingBefore(ctx context.Context, before time.Time) ([]*Lesson, error)
	// ListActiveBetween returns requested/confirmed lessons starting within
	// [from, to) (free-slot enumeration).
	ListActiveBetween(ctx context.Context, from, to time.Time) ([]*Lesson, error)

	// UpdateStatusFrom flips the status only when the current status matches
	// from, reporting whether a row changed. Re-validation at write time.
	UpdateStatusFrom(ctx context.Context, id string, from, to Status) (bool, error)

	SetPaid(ctx context.Context, id string) error
	// BulkMarkPaid marks all confirmed unpaid lessons of the student paid in
	// one statement and returns how many and the sum of their prices.
	BulkMarkPaid(ctx context.Context, studentID string) (int, decimal.Decimal, error)

	SumUnpaid(ctx context.Context, studentID string) (decimal.Decimal, error)
	SumPaidSince(ctx context.Context, from time.Time) (decimal.Decimal, error)

	ListByStatusFrom(ctx context.Context, status Status, from *time.Time) ([]*Lesson, error)
	ListConfirmedBetween(ctx context.Context, from, to *time.Time) ([]*Lesson, error)
}

var activeStatuses = []string{string(StatusRequested), string(StatusConfirmed)}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, l *Lesson) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.lessons").
		Columns("student_id", "start_time", "duration_hours", "location", "status", "price", "note").
		Values(l.StudentID, l.Start, l.DurationHours.String(), string(l.Location), string(l.Status), l.Price.String(), l.Note).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create lesson query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
			return ErrOverlap
		}
		return fmt.Errorf("create lesson failed: %w", err)
	}
	return nil
}

const lessonColumns = "l.id, l.student_id, s.first_name || ' ' || s.last_name, s.email, " +
	"l.start_time, l.duration_hours::text, l.location, l.status, l.price::text, l.paid, " +
	"COALESCE(l.note, ''), l.created_at, l.updated_at"

func (r *pgxRepository) selectLessons() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(lessonColumns).
		From("public.lessons l").
		Join("public.students s ON l.student_id = s.id")
}

func scanLesson(row pgx.Row) (*Lesson, error) {
	var (
		l                    Lesson
		durationStr, prcStr  string
		locationStr, statStr string
	)
	if err := row.Scan(
		&l.ID, &l.StudentID, &l.StudentName, &l.StudentEmail,
		&l.Start, &durationStr, &locationStr, &statStr, &prcStr, &l.Paid,
		&l.Note, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if l.DurationHours, err = decimal.NewFromString(durationStr); err != nil {
		return nil, fmt.Errorf("parse duration failed: %w", err)
	}
	if l.Price, err = decimal.NewFromString(prcStr); err != nil {
		return nil, fmt.Errorf("parse price failed: %w", err)
	}
	l.Location = pricing.Location(locationStr)
	l.Status = Status(statStr)
	return &l, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Lesson, error) {
	query, args, err := r.selectLessons().Where(squirrel.Eq{"l.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get lesson query failed: %w", err)
	}

	l, err := scanLesson(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get lesson failed: %w", err)
	}
	return l, nil
}

func (r *pgxRepository) queryLessons(ctx context.Context, builder squirrel.SelectBuilder) ([]*Lesson, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list lessons query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lessons failed: %w", err)
	}
	defer rows.Close()

	var lessons []*Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson failed: %w", err)
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

func (r *pgxRepository) ListByStudent(ctx context.Context, studentID string) ([]*Lesson, error) {
	return r.queryLessons(ctx, r.selectLessons().
		Where(squirrel.Eq{"l.student_id": studentID}).
		OrderBy("l.start_time DESC"))
}

func (r *pgxRepository) ListActiveStartingBefore(ctx context.Context, before time.Time) ([]*Lesson, error) {
	return r.queryLessons(ctx, r.selectLessons().
		Where(squirrel.Eq{"l.status": activeStatuses}).
		Where(squirrel.Lt{"l.start_time": before}).
		OrderBy("l.start_time ASC"))
}

func (r *pgxRepository) ListActiveBetween(ctx context.Context, from, to time.Time) ([]*Lesson, error) {
	return r.queryLessons(ctx, r.selectLessons().
		Where(squirrel.Eq{"l.status": activeStatuses}).
		Where(squirrel.GtOrEq{"l.start_time": from}).
		Where(squirrel.Lt{"l.start_time": to}).
		OrderBy("l.start_time ASC"))
}

func (r *pgxRepository) UpdateStatusFrom(ctx context.Context, id string, from, to Status) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.lessons").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update lesson status failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) SetPaid(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.lessons").
		Set("paid", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set paid query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set lesson paid failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) BulkMarkPaid(ctx context.Context, studentID string) (int, decimal.Decimal, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.lessons").
		Set("paid", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"student_id": studentID, "status": string(StatusConfirmed), "paid": false}).
		Suffix("RETURNING price::text").
		ToSql()
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("build bulk mark paid query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("bulk mark paid failed: %w", err)
	}
	defer rows.Close()

	count := 0
	total := decimal.Zero
	for rows.Next() {
		var prcStr string
		if err := rows.Scan(&prcStr); err != nil {
			return 0, decimal.Zero, fmt.Errorf("scan price failed: %w", err)
		}
		p, err := decimal.NewFromString(prcStr)
		if err != nil {
			return 0, decimal.Zero, fmt.Errorf("parse price failed: %w", err)
		}
		total = total.Add(p)
		count++
	}
	return count, total, rows.Err()
}

func (r *pgxRepository) SumUnpaid(ctx context.Context, studentID string) (decimal.Decimal, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("COALESCE(sum(price), 0)::text").
		From("public.lessons").
		Where(squirrel.Eq{"student_id": studentID, "status": string(StatusConfirmed), "paid": false}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build sum unpaid query failed: %w", err)
	}
	return r.scanSum(ctx, query, args)
}

func (r *pgxRepository) SumPaidSince(ctx context.Context, from time.Time) (decimal.Decimal, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("COALESCE(sum(price), 0)::text").
		From("public.lessons").
		Where(squirrel.Eq{"status": string(StatusConfirmed), "paid": true}).
		Where(squirrel.GtOrEq{"start_time": from}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build sum paid query failed: %w", err)
	}
	return r.scanSum(ctx, query, args)
}

func (r *pgxRepository) scanSum(ctx context.Context, query string, args []interface{}) (decimal.Decimal, error) {
	var sumStr string
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sumStr); err != nil {
		return decimal.Zero, fmt.Errorf("sum lessons failed: %w", err)
	}
	sum, err := decimal.NewFromString(sumStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse sum failed: %w", err)
	}
	return sum, nil
}

func (r *pgxRepository) ListByStatusFrom(ctx context.Context, status Status, from *time.Time) ([]*Lesson, error) {
	builder := r.selectLessons().
		Where(squirrel.Eq{"l.status": string(status)}).
		OrderBy("l.start_time ASC")
	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"l.start_time": *from})
	}
	return r.queryLessons(ctx, builder)
}

func (r *pgxRepository) ListConfirmedBetween(ctx context.Context, from, to *time.Time) ([]*Lesson, error) {
	builder := r.selectLessons().
		Where(squirrel.Eq{"l.status": string(StatusConfirmed)}).
		OrderBy("l.start_time DESC")
	if from != nil {
		builder = builder.Where(squirrel.GtOrEq{"l.start_time": *from})
	}
	if to != nil {
		builder = builder.Where(squirrel.Lt{"l.start_time": *to})
	}
	return r.queryLessons(ctx, builder)
}
