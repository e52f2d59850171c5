package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/timetable/backend/internal/auth"
	"github.com/pkordes/timetable/backend/internal/domain"
	"github.com/pkordes/timetable/backend/internal/repo"
)

// AuthService handles credential checks and token issuance.
type AuthService struct {
	users  repo.UserRepo
	issuer *auth.TokenIssuer
}

// NewAuthService constructs an AuthService from the user repo and token issuer.
func NewAuthService(users repo.UserRepo, issuer *auth.TokenIssuer) *AuthService {
	return &AuthService{users: users, issuer: issuer}
}

// Login checks the credentials and, on success, records the login time and
// returns the user plus a signed token. Unknown email and wrong password are
// indistinguishable to the caller: both yield domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
		}
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if !auth.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	user.LastLoginAt = &now

	token, err := s.issuer.Sign(user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return user, token, nil
}
