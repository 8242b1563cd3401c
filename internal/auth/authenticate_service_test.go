package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alshahriar/gymfit/internal/storage"
	"github.com/alshahriar/gymfit/model"
)

func TestPasswordLogin(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewAuthenticateService(store)
	ctx := context.Background()

	seedUser(t, store, "jane", "jane@example.com", "secret123")

	user, err := svc.PasswordLogin(ctx, "jane", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "jane", user.Username)

	got, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLoginAt)
}

func TestPasswordLoginRejectsBadCredentials(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewAuthenticateService(store)
	ctx := context.Background()

	seedUser(t, store, "jane", "jane@example.com", "secret123")

	_, err := svc.PasswordLogin(ctx, "jane", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.PasswordLogin(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown user must look like a wrong password")
}

func TestEnsureAdmin(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewAuthenticateService(store)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "admin@example.com", "changeme", ""))

	admin, err := store.Users().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.Equal(t, "Admin User", admin.DisplayName)
	assert.False(t, admin.PasswordChangeRequired)

	// Idempotent: a second run must not touch the existing account.
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "other@example.com", "different", "Other"))
	again, err := store.Users().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin.Email, again.Email)
	assert.Equal(t, admin.PasswordHash, again.PasswordHash)
}

func TestChangePassword(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewAuthenticateService(store)
	ctx := context.Background()

	user := seedUser(t, store, "jane", "jane@example.com", "old-password")
	require.NoError(t, store.Users().UpdatePassword(ctx, user.ID, user.PasswordHash, true))

	err := svc.ChangePassword(ctx, user.ID, "old-password", "one", "two")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	err = svc.ChangePassword(ctx, user.ID, "wrong", "new-password", "new-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "old-password", "new-password", "new-password"))
	got, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("new-password")))
	assert.False(t, got.PasswordChangeRequired, "changing the password clears the forced-change flag")
}
