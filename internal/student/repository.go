package student

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, s *Student) error
	GetByID(ctx context.Context, id string) (*Student, error)
	GetByEmail(ctx context.Context, email string) (*Student, error)

	// EnsureProfile creates an empty profile row for the student if one does
	// not exist yet. Idempotent.
	EnsureProfile(ctx context.Context, studentID string) error
	GetProfile(ctx context.Context, studentID string) (*Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, s *Student) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.students").
		Columns("email", "password_hash", "first_name", "last_name", "is_tutor").
		Values(s.Email, s.PasswordHash, s.FirstName, s.LastName, s.IsTutor).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create student query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create student failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Student, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*Student, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *pgxRepository) getBy(ctx context.Context, cond squirrel.Eq) (*Student, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "email", "password_hash", "first_name", "last_name", "is_tutor", "created_at",
	).
		From("public.students").
		Where(cond).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get student query failed: %w", err)
	}

	var s Student
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.Email, &s.PasswordHash, &s.FirstName, &s.LastName, &s.IsTutor, &s.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get student failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) EnsureProfile(ctx context.Context, studentID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.profiles").
		Columns("student_id").
		Values(studentID).
		Suffix("ON CONFLICT (student_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build ensure profile query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("ensure profile failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetProfile(ctx context.Context, studentID string) (*Profile, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("student_id", "phone", "school", "updated_at").
		From("public.profiles").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get profile query failed: %w", err)
	}

	var p Profile
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.StudentID, &p.Phone, &p.School, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) UpdateProfile(ctx context.Context, p *Profile) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.profiles").
		Set("phone", p.Phone).
		Set("school", p.School).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"student_id": p.StudentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update profile query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
