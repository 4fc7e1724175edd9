package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/guru03-coder/SlideSense/internal/dto"
	"github.com/guru03-coder/SlideSense/internal/models"
	"github.com/guru03-coder/SlideSense/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the identifier/password pair did not
	// match any account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the presented token failed verification.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// AuthService authenticates portal accounts and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Verify(ctx context.Context, token string) (dto.VerifyResponse, error)
}

type authService struct {
	accounts  repository.AccountRepository
	validator *validator.Validate
	secret    string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(accounts repository.AccountRepository, validator *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		accounts:  accounts,
		validator: validator,
		secret:    secret,
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	switch strings.ToLower(strings.TrimSpace(payload.Role)) {
	case models.RoleStaff:
		account, err := s.accounts.FindStaffByEmail(ctx, payload.Identifier)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return dto.LoginResponse{}, ErrInvalidCredentials
			}
			return dto.LoginResponse{}, err
		}
		if !passwordsMatch(account.Password, payload.Password) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}

		token, err := s.issueToken(account.Email, models.RoleStaff, account.Name)
		if err != nil {
			return dto.LoginResponse{}, err
		}

		s.logger.Info().Str("email", account.Email).Msg("staff login succeeded")
		return dto.LoginResponse{
			Token:   token,
			Role:    models.RoleStaff,
			Profile: dto.NewStaffProfile(account),
		}, nil

	case models.RoleStudent:
		account, err := s.accounts.FindStudentByRoll(ctx, payload.Identifier)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return dto.LoginResponse{}, ErrInvalidCredentials
			}
			return dto.LoginResponse{}, err
		}
		if !passwordsMatch(account.Password, payload.Password) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}

		token, err := s.issueToken(account.RollNumber, models.RoleStudent, account.Name)
		if err != nil {
			return dto.LoginResponse{}, err
		}

		s.logger.Info().Str("roll_number", account.RollNumber).Msg("student login succeeded")
		return dto.LoginResponse{
			Token:   token,
			Role:    models.RoleStudent,
			Profile: dto.NewStudentProfile(account),
		}, nil

	default:
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
}

func (s *authService) Verify(ctx context.Context, tokenString string) (dto.VerifyResponse, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return dto.VerifyResponse{Valid: false}, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return dto.VerifyResponse{Valid: false}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return dto.VerifyResponse{Valid: false}, ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)

	switch strings.ToLower(role) {
	case models.RoleStaff:
		account, err := s.accounts.FindStaffByEmail(ctx, subject)
		if err != nil {
			return dto.VerifyResponse{Valid: false}, ErrInvalidToken
		}
		profile := dto.NewStaffProfile(account)
		return dto.VerifyResponse{Valid: true, Role: models.RoleStaff, Profile: &profile}, nil

	case models.RoleStudent:
		account, err := s.accounts.FindStudentByRoll(ctx, subject)
		if err != nil {
			return dto.VerifyResponse{Valid: false}, ErrInvalidToken
		}
		profile := dto.NewStudentProfile(account)
		return dto.VerifyResponse{Valid: true, Role: models.RoleStudent, Profile: &profile}, nil

	default:
		return dto.VerifyResponse{Valid: false}, ErrInvalidToken
	}
}

func (s *authService) issueToken(subject, role, name string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"name": name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func passwordsMatch(expected, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) == 1
}
