package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/guru03-coder/SlideSense/internal/models"
)

// ErrAccountNotFound indicates no account matches the supplied identifier.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository resolves portal logins from the configured credential
// set. The portal ships with a fixed demo roster, so accounts live in memory.
type AccountRepository interface {
	FindStaffByEmail(ctx context.Context, email string) (models.StaffAccount, error)
	FindStudentByRoll(ctx context.Context, roll string) (models.StudentAccount, error)
	Students(ctx context.Context) ([]models.StudentAccount, error)
}

type staticAccountRepository struct {
	staff    []models.StaffAccount
	students []models.StudentAccount
}

// NewAccountRepository builds a repository over a fixed credential set.
func NewAccountRepository(staff []models.StaffAccount, students []models.StudentAccount) AccountRepository {
	return &staticAccountRepository{staff: staff, students: students}
}

func (r *staticAccountRepository) FindStaffByEmail(ctx context.Context, email string) (models.StaffAccount, error) {
	if err := ctx.Err(); err != nil {
		return models.StaffAccount{}, err
	}

	needle := strings.ToLower(strings.TrimSpace(email))
	for _, account := range r.staff {
		if strings.ToLower(account.Email) == needle {
			return account, nil
		}
	}
	return models.StaffAccount{}, ErrAccountNotFound
}

func (r *staticAccountRepository) FindStudentByRoll(ctx context.Context, roll string) (models.StudentAccount, error) {
	if err := ctx.Err(); err != nil {
		return models.StudentAccount{}, err
	}

	needle := strings.ToUpper(strings.TrimSpace(roll))
	for _, account := range r.students {
		if strings.ToUpper(account.RollNumber) == needle {
			return account, nil
		}
	}
	return models.StudentAccount{}, ErrAccountNotFound
}

func (r *staticAccountRepository) Students(ctx context.Context) ([]models.StudentAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]models.StudentAccount, len(r.students))
	copy(out, r.students)
	return out, nil
}
