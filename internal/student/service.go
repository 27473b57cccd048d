package student

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/frago0312/fg-ripetizioni/internal/auth"
)

// Service defines business logic related to student accounts.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Student, error)
	Login(ctx context.Context, email, password string) (*Student, error)
	GetByID(ctx context.Context, id string) (*Student, error)

	Profile(ctx context.Context, studentID string) (*Profile, error)
	UpdateProfile(ctx context.Context, studentID, phone, school string) (*Profile, error)
}

type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher

	minPasswordLength int
}

// NewService creates a new student Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Student, error) {
	cleanEmail := normalizeEmail(req.Email)
	if cleanEmail == "" {
		return nil, fmt.Errorf("email is required")
	}

	if len(req.Password) < s.minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", s.minPasswordLength)
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	// If the error is something other than "not found", propagate it.
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	st := &Student{
		Email:        cleanEmail,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	// Registration is the one place a profile is brought into existence.
	// Idempotent, so a retry after a partial failure is safe.
	if err := s.repo.EnsureProfile(ctx, st.ID); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return st, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Student, error) {
	st, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch student: %w", err)
	}

	if err := s.hasher.Compare(st.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return st, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Student, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Profile(ctx context.Context, studentID string) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, studentID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Accounts created before profiles existed may miss the row.
	if err := s.repo.EnsureProfile(ctx, studentID); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, studentID)
}

func (s *service) UpdateProfile(ctx context.Context, studentID, phone, school string) (*Profile, error) {
	p := &Profile{
		StudentID: studentID,
		Phone:     strings.TrimSpace(phone),
		School:    strings.TrimSpace(school),
	}
	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same lazy creation as Profile reads.
			if err := s.repo.EnsureProfile(ctx, studentID); err != nil {
				return nil, err
			}
			if err := s.repo.UpdateProfile(ctx, p); err != nil {
				return nil, err
			}
			return s.repo.GetProfile(ctx, studentID)
		}
		return nil, err
	}
	return s.repo.GetProfile(ctx, studentID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
