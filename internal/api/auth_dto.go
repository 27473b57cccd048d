package api

import (
	"time"

	"github.com/frago0312/fg-ripetizioni/internal/student"
)

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type StudentResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsTutor   bool      `json:"is_tutor"`
	CreatedAt time.Time `json:"created_at"`
}

func NewStudentResponse(s *student.Student) StudentResponse {
	return StudentResponse{
		ID:        s.ID,
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		IsTutor:   s.IsTutor,
		CreatedAt: s.CreatedAt,
	}
}

type RegisterResponse struct {
	Student StudentResponse `json:"student"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	Student     StudentResponse `json:"student"`
}

type UpdateProfileRequest struct {
	Phone  string `json:"phone"`
	School string `json:"school"`
}

type ProfileResponse struct {
	Phone  string `json:"phone"`
	School string `json:"school"`
}

func NewProfileResponse(p *student.Profile) ProfileResponse {
	return ProfileResponse{
		Phone:  p.Phone,
		School: p.School,
	}
}
