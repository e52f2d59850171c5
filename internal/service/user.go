package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkordes/timetable/backend/internal/auth"
	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/repo"
)

// Deliberately loose: catches obvious typos, leaves the rest to the
// mail server.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const passwordMinLen = 8

// UserInput carries the fields for creating a user account.
type UserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.Role
}

// UserService implements business logic for User operations.
type UserService struct {
	users repo.UserRepo
}

// NewUserService constructs a UserService backed by the provided repo.
func NewUserService(users repo.UserRepo) *UserService {
	return &UserService{users: users}
}

// Create validates input, hashes the password, and persists a new user.
// The email is normalized to lowercase; a duplicate yields domain.ErrConflict.
func (s *UserService) Create(ctx context.Context, in UserInput) (domain.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.FirstName == "" || in.LastName == "" {
		return domain.User{}, fmt.Errorf("service.UserService.Create: first and last name are required: %w", domain.ErrValidation)
	}
	if !emailRe.MatchString(in.Email) {
		return domain.User{}, fmt.Errorf("service.UserService.Create: invalid email: %w", domain.ErrValidation)
	}
	if len(in.Password) < passwordMinLen {
		return domain.User{}, fmt.Errorf("service.UserService.Create: password must be at least %d characters: %w",
			passwordMinLen, domain.ErrValidation)
	}
	if in.Role != domain.RoleAdmin && in.Role != domain.RoleUser {
		return domain.User{}, fmt.Errorf("service.UserService.Create: role must be admin or user: %w", domain.ErrValidation)
	}

	hash, salt, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Create: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Role:         in.Role,
		PasswordHash: hash,
		PasswordSalt: salt,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Create: %w", err)
	}
	return user, nil
}

// EnsureAdmin creates an admin account with the given input unless a user
// with that email already exists, in which case the existing account is
// returned untouched, whatever its role. The boolean reports whether a new
// account was created. Safe to run on every deployment.
func (s *UserService) EnsureAdmin(ctx context.Context, in UserInput) (domain.User, bool, error) {
	in.Role = domain.RoleAdmin

	existing, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, false, fmt.Errorf("service.UserService.EnsureAdmin: %w", err)
	}

	user, err := s.Create(ctx, in)
	if err != nil {
		return domain.User{}, false, err
	}
	return user, true, nil
}

// GetByID returns one user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return user, nil
}

// List returns all users ordered by ID. Always returns a non-nil slice.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.UserService.List: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
