package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"eventhub/internal/models"
	"eventhub/internal/policy"
	"eventhub/internal/repository"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetProfile(ctx context.Context, actor *models.User) (*models.User, error)
}

type authService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if verr := validateCredentials(username, email, password); verr != nil {
		return nil, verr
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up username: %w", err)
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique indexes are the authoritative guard; the pre-checks
		// above only pick the right message ahead of the common case.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if _, lookupErr := s.users.FindByUsername(ctx, username); lookupErr == nil {
				return nil, ErrDuplicateUsername
			}
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown username and
// wrong password return the same error so callers cannot probe for
// account existence.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up username: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) GetProfile(ctx context.Context, actor *models.User) (*models.User, error) {
	if err := policy.Check(actor, policy.ActionViewProfile); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return user, nil
}

func validateCredentials(username, email, password string) error {
	if n := utf8.RuneCountInString(username); n < 3 || n > 64 {
		return &ValidationError{Field: "username", Message: "must be between 3 and 64 characters"}
	}
	if err := validate.Var(email, "required,email,max=120"); err != nil {
		return &ValidationError{Field: "email", Message: "must be a valid email address of at most 120 characters"}
	}
	if utf8.RuneCountInString(password) < 6 {
		return &ValidationError{Field: "password", Message: "must be at least 6 characters long"}
	}
	return nil
}
