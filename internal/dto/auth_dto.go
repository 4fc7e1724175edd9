package dto

import "github.com/guru03-coder/SlideSense/internal/models"

// LoginRequest carries portal credentials. Staff authenticate with their
// email address, students with their roll number; both travel in the
// identifier field.
type LoginRequest struct {
	Role       string `json:"role" validate:"required,oneof=staff student"`
	Identifier string `json:"identifier" validate:"required,min=3"`
	Password   string `json:"password" validate:"required"`
}

// VerifyRequest optionally carries the token in the request body instead of
// the Authorization header.
type VerifyRequest struct {
	Token string `json:"token"`
}

// ProfileResponse describes the authenticated account.
type ProfileResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	RollNumber string `json:"roll_number,omitempty"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role"`
}

// LoginResponse returns the bearer token and the resolved profile.
type LoginResponse struct {
	Token   string          `json:"token"`
	Role    string          `json:"role"`
	Profile ProfileResponse `json:"profile"`
}

// VerifyResponse reports whether a presented token is still usable.
type VerifyResponse struct {
	Valid   bool             `json:"valid"`
	Role    string           `json:"role,omitempty"`
	Profile *ProfileResponse `json:"profile,omitempty"`
}

// NewStaffProfile converts a staff account into a profile DTO.
func NewStaffProfile(account models.StaffAccount) ProfileResponse {
	return ProfileResponse{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Role:  models.RoleStaff,
	}
}

// NewStudentProfile converts a student account into a profile DTO.
func NewStudentProfile(account models.StudentAccount) ProfileResponse {
	return ProfileResponse{
		ID:         account.ID,
		Name:       account.Name,
		Email:      account.Email,
		RollNumber: account.RollNumber,
		Department: account.Department,
		Role:       models.RoleStudent,
	}
}
