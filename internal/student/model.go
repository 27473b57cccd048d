package student

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound           = errors.New("student not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Student represents an account in the system. The tutor is a student record
// with IsTutor set; there is exactly one tutor.
type Student struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsTutor      bool
	CreatedAt    time.Time
}

// FullName returns "First Last" with missing parts trimmed away.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Profile holds extra contact details attached to a student account.
// Every student has at most one profile row.
type Profile struct {
	StudentID string
	Phone     string
	School    string
	UpdatedAt time.Time
}
