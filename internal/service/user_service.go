package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"gavel/internal/models"
	"gavel/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

type UserService struct {
	userRepo repository.UserRepository
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := strings.TrimSpace(strings.ToLower(in.Email))

	if firstName == "" || lastName == "" {
		return nil, models.NewValidationError("First and last name are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, models.NewValidationError("Invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// EmailExists cannot see a concurrent registration; the unique index
		// settles the race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("An account with this email already exists")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the credentials and returns the user. The same error
// is returned for an unknown email and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUnauthorizedError("Invalid email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	return user, nil
}

// UpdateProfileInput carries a partial profile update. Nil fields are left
// unchanged.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// UpdateProfile applies a partial update to the caller's own profile. Email
// changes are re-validated and checked for uniqueness.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		firstName := strings.TrimSpace(*in.FirstName)
		if firstName == "" {
			return nil, models.NewValidationError("First name must not be empty")
		}
		user.FirstName = firstName
	}
	if in.LastName != nil {
		lastName := strings.TrimSpace(*in.LastName)
		if lastName == "" {
			return nil, models.NewValidationError("Last name must not be empty")
		}
		user.LastName = lastName
	}
	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, models.NewValidationError("Invalid email address")
		}
		if email != user.Email {
			exists, err := s.userRepo.EmailExists(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, models.NewConflictError("An account with this email already exists")
			}
		}
		user.Email = email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("An account with this email already exists")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, err
	}
	return user, nil
}
