package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kite-oss/task-schedule-api/internal/constants"
	"github.com/kite-oss/task-schedule-api/internal/models"
	"github.com/kite-oss/task-schedule-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken       = errors.New("a user with this email already exists")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", constants.MinPasswordLength)
	ErrPasswordRequired = errors.New("password is required for this role")
	ErrNotOwnPassword   = errors.New("you can only reset your own password")
	ErrFailedToHash     = errors.New("failed to hash password")
)

// UserService handles account management. Faculty accounts may be created
// without a password; they exist for assignment only and cannot log in.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns all users ordered by role then department.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns one user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Name       string
	Email      string
	Role       models.Role
	Department string
	Password   string
}

// CreateUser creates an account. Every role except faculty requires a
// password; faculty without one gets a non-login account.
func (s *UserService) CreateUser(input CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: "email is required"}
	}
	if !input.Role.Valid() {
		return nil, &ValidationError{Field: "role", Message: fmt.Sprintf("invalid role %q", input.Role)}
	}
	if input.Department != "" && !constants.IsValidDepartment(input.Department) {
		return nil, &ValidationError{Field: "department", Message: fmt.Sprintf("invalid department %q", input.Department)}
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	var passwordHash string
	if input.Password == "" {
		if input.Role != models.RoleFaculty {
			return nil, ErrPasswordRequired
		}
	} else {
		if len(input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHash
		}
		passwordHash = string(hashed)
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Role:         input.Role,
		Department:   input.Department,
		PasswordHash: passwordHash,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateUserInput carries the mutable profile fields; nil means absent.
type UpdateUserInput struct {
	Name       *string
	Email      *string
	Role       *models.Role
	Department *string
}

// UpdateUser applies the provided profile fields.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, &ValidationError{Field: "email", Message: "email is required"}
		}
		if email != user.Email {
			if _, err := s.userRepo.FindByEmail(email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, &ValidationError{Field: "role", Message: fmt.Sprintf("invalid role %q", *input.Role)}
		}
		user.Role = *input.Role
	}
	if input.Department != nil {
		if *input.Department != "" && !constants.IsValidDepartment(*input.Department) {
			return nil, &ValidationError{Field: "department", Message: fmt.Sprintf("invalid department %q", *input.Department)}
		}
		user.Department = *input.Department
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(id uint64) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ResetPassword sets a new password. Actors may only reset their own.
func (s *UserService) ResetPassword(actor models.User, targetID uint64, password string) (*models.User, error) {
	user, err := s.GetUser(targetID)
	if err != nil {
		return nil, err
	}

	if actor.ID != targetID {
		return nil, ErrNotOwnPassword
	}
	if len(password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHash
	}
	user.PasswordHash = string(hashed)

	if err := s.userRepo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}

	return user, nil
}
