package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/alshahriar/gymfit/internal/storage"
	"github.com/alshahriar/gymfit/model"
)

// AuthenticateService handles password logins and startup account seeding.
type AuthenticateService struct {
	store storage.Store
}

func NewAuthenticateService(store storage.Store) *AuthenticateService {
	return &AuthenticateService{store: store}
}

// PasswordLogin verifies a username/password pair. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AuthenticateService) PasswordLogin(ctx context.Context, username string, password string) (*model.User, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.store.Users().SetLastLogin(ctx, user.ID); err != nil {
		slog.Warn("Failed to record login time", "user", user.Username, "error", err)
	}
	return user, nil
}

// GetUserByID loads an account by its primary id.
func (s *AuthenticateService) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	return s.store.Users().GetByID(ctx, userID)
}

// EnsureAdmin creates the seed admin account if it does not exist yet.
// An existing account is never overwritten.
func (s *AuthenticateService) EnsureAdmin(ctx context.Context, username, email, password, displayName string) error {
	if _, err := s.store.Users().GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if displayName == "" {
		displayName = "Admin User"
	}
	admin := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         model.RoleAdmin,
		DisplayName:  displayName,
	}
	if err := s.store.Users().Create(ctx, &admin); err != nil {
		return err
	}
	slog.Info("Seeded admin account", "username", username)
	return nil
}

// ChangePassword sets a new password after verifying the current one, and
// clears any forced-change flag on the account.
func (s *AuthenticateService) ChangePassword(ctx context.Context, userID uint, current, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.Users().UpdatePassword(ctx, userID, string(passwordHash), false)
}
