package auth

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alshahriar/gymfit/internal/mail"
	"github.com/alshahriar/gymfit/internal/storage"
	"github.com/alshahriar/gymfit/model"
	"github.com/alshahriar/gymfit/params"
)

type captureSender struct {
	ch chan *mail.Message
}

func newCaptureSender() *captureSender {
	return &captureSender{ch: make(chan *mail.Message, 8)}
}

func (s *captureSender) Send(msg *mail.Message) error {
	s.ch <- msg
	return nil
}

func (s *captureSender) wait(t *testing.T) *mail.Message {
	t.Helper()
	select {
	case msg := <-s.ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("expected an email to be dispatched")
		return nil
	}
}

func (s *captureSender) assertSilent(t *testing.T) {
	t.Helper()
	select {
	case msg := <-s.ch:
		t.Fatalf("unexpected email to %v", msg.To)
	case <-time.After(50 * time.Millisecond):
	}
}

var resetLinkRe = regexp.MustCompile(`reset-password/([A-Za-z0-9_-]+)`)

func seedUser(t *testing.T, store storage.Store, username, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleMember,
		DisplayName:  username,
	}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func requestToken(t *testing.T, svc *ResetService, sender *captureSender, email string) string {
	t.Helper()
	require.NoError(t, svc.RequestReset(context.Background(), email, "http://localhost:3000"))
	msg := sender.wait(t)
	m := resetLinkRe.FindStringSubmatch(msg.Body)
	require.Len(t, m, 2, "reset email must carry the link")
	return m[1]
}

func TestRequestResetUnknownEmail(t *testing.T) {
	store := storage.NewMemoryStore()
	sender := newCaptureSender()
	svc := NewResetService(store, sender)

	err := svc.RequestReset(context.Background(), "nobody@example.com", "http://localhost:3000")
	assert.NoError(t, err, "unknown emails must not be distinguishable")
	sender.assertSilent(t)
}

func TestResetPassword(t *testing.T) {
	store := storage.NewMemoryStore()
	sender := newCaptureSender()
	svc := NewResetService(store, sender)
	ctx := context.Background()

	user := seedUser(t, store, "jane", "jane@example.com", "old-password")
	token := requestToken(t, svc, sender, "Jane@Example.com")

	require.NoError(t, svc.Reset(ctx, token, "new-password", "new-password"))

	got, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("new-password")))
	assert.False(t, got.PasswordChangeRequired)
}

func TestResetTokenSingleUse(t *testing.T) {
	store := storage.NewMemoryStore()
	sender := newCaptureSender()
	svc := NewResetService(store, sender)
	ctx := context.Background()

	seedUser(t, store, "jane", "jane@example.com", "old-password")
	token := requestToken(t, svc, sender, "jane@example.com")

	require.NoError(t, svc.Reset(ctx, token, "first", "first"))
	err := svc.Reset(ctx, token, "second", "second")
	assert.ErrorIs(t, err, ErrTokenInvalid, "a spent token must look like an unknown one")
}

func TestResetTokenExpired(t *testing.T) {
	store := storage.NewMemoryStore()
	sender := newCaptureSender()
	svc := NewResetService(store, sender)
	ctx := context.Background()

	seedUser(t, store, "jane", "jane@example.com", "old-password")

	issued := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token := requestToken(t, svc, sender, "jane@example.com")

	svc.now = func() time.Time { return issued.Add(params.ResetTokenValidity + time.Second) }
	err := svc.Reset(ctx, token, "new-password", "new-password")
	assert.ErrorIs(t, err, ErrTokenExpired)

	// Not consumed: trying again still reports expiry, not invalidity.
	err = svc.Reset(ctx, token, "new-password", "new-password")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestResetPasswordMismatch(t *testing.T) {
	store := storage.NewMemoryStore()
	sender := newCaptureSender()
	svc := NewResetService(store, sender)

	seedUser(t, store, "jane", "jane@example.com", "old-password")
	token := requestToken(t, svc, sender, "jane@example.com")

	err := svc.Reset(context.Background(), token, "one", "two")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	// The mismatch must not burn the token.
	require.NoError(t, svc.Reset(context.Background(), token, "new-password", "new-password"))
}

func TestResetTokenStateTrumpsMismatch(t *testing.T) {
	store := storage.NewMemoryStore()
	sender := newCaptureSender()
	svc := NewResetService(store, sender)
	ctx := context.Background()

	seedUser(t, store, "jane", "jane@example.com", "old-password")

	// A dead link is reported as such even when the passwords also differ.
	err := svc.Reset(ctx, "no-such-token", "one", "two")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	issued := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token := requestToken(t, svc, sender, "jane@example.com")
	svc.now = func() time.Time { return issued.Add(params.ResetTokenValidity + time.Second) }
	err = svc.Reset(ctx, token, "one", "two")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestResetTokensAreUnique(t *testing.T) {
	store := storage.NewMemoryStore()
	sender := newCaptureSender()
	svc := NewResetService(store, sender)

	seedUser(t, store, "jane", "jane@example.com", "old-password")
	first := requestToken(t, svc, sender, "jane@example.com")
	second := requestToken(t, svc, sender, "jane@example.com")
	assert.NotEqual(t, first, second)
	assert.GreaterOrEqual(t, len(first), 43, "token must carry at least 32 bytes of entropy")
}
