package models

// Roles accepted by the authentication layer.
const (
	RoleStaff   = "staff"
	RoleStudent = "student"
)

// StaffAccount is a reviewer login identified by email address.
type StaffAccount struct {
	ID       string
	Name     string
	Email    string
	Password string
}

// StudentAccount is a student login identified by roll number.
type StudentAccount struct {
	ID         string
	Name       string
	Email      string
	RollNumber string
	Department string
	Password   string
}
