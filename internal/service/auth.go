// Package service contains the business logic for the Travenion API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"travenion/internal/domain"
	"travenion/internal/repo"
	"travenion/internal/token"
)

// AuthService implements registration, login, and account management.
type AuthService struct {
	users  repo.UserRepo
	tokens *token.Issuer
}

// NewAuthService constructs an AuthService backed by the provided UserRepo
// and token issuer.
func NewAuthService(users repo.UserRepo, tokens *token.Issuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new account with a bcrypt-hashed password.
// Returns domain.ErrValidation for missing fields or a short password, and
// domain.ErrConflict when the username or email is already taken.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: username, email, and password are required", domain.ErrValidation)
	}
	if len(password) < 6 {
		return domain.User{}, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns a signed bearer token.
// Returns domain.ErrUnauthorized for an unknown username or wrong password;
// the two cases are deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}
	if !user.IsActive {
		return "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}

	signed, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return signed, nil
}

// GetUser returns the account with the given ID.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.GetUser: %w", err)
	}
	return user, nil
}

// UpdateProfile changes nickname, email, and avatar. Fields left empty in the
// request keep their current value; the handler passes the merged record.
// Returns domain.ErrConflict when the new email belongs to another account.
func (s *AuthService) UpdateProfile(ctx context.Context, user domain.User) (domain.User, error) {
	if strings.TrimSpace(user.Email) == "" {
		return domain.User{}, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	taken, err := s.users.EmailTaken(ctx, user.Email, user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.UpdateProfile: %w", err)
	}
	if taken {
		return domain.User{}, fmt.Errorf("%w: email already in use", domain.ErrConflict)
	}

	updated, err := s.users.UpdateProfile(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.UpdateProfile: %w", err)
	}
	return updated, nil
}

// ChangePassword verifies the current password and stores a hash of the new one.
// Returns domain.ErrUnauthorized when the current password is wrong and
// domain.ErrValidation when the new password is too short.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if len(next) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", domain.ErrValidation)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("service.AuthService.ChangePassword: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return fmt.Errorf("service.AuthService.ChangePassword: %w: wrong password", domain.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service.AuthService.ChangePassword: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("service.AuthService.ChangePassword: %w", err)
	}
	return nil
}

// ListOtherUsers returns the user directory for the share picker, excluding
// the caller. Always returns a non-nil slice so callers can safely range over it.
func (s *AuthService) ListOtherUsers(ctx context.Context, callerID uuid.UUID) ([]domain.User, error) {
	users, err := s.users.ListOthers(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("service.AuthService.ListOtherUsers: %w", err)
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}
