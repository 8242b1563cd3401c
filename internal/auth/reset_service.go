package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alshahriar/gymfit/internal/mail"
	"github.com/alshahriar/gymfit/internal/storage"
	"github.com/alshahriar/gymfit/model"
	"github.com/alshahriar/gymfit/params"
)

// ResetService implements the forgot/reset password flow with single-use,
// time-limited tokens.
type ResetService struct {
	store      storage.Store
	mailSender mail.MailSender
	now        func() time.Time
}

func NewResetService(store storage.Store, mailSender mail.MailSender) *ResetService {
	return &ResetService{
		store:      store,
		mailSender: mailSender,
		now:        time.Now,
	}
}

func generateResetToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Errorf("failed to generate random bytes: %w", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// RequestReset mints a reset token and mails the link when the email
// belongs to an account. It reports success either way so callers cannot
// probe which emails are registered.
func (s *ResetService) RequestReset(ctx context.Context, email string, baseURL string) error {
	user, err := s.store.Users().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	} else if err != nil {
		return err
	}

	token := &model.PasswordResetToken{
		Token:     generateResetToken(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(params.ResetTokenValidity),
	}
	if err := s.store.ResetTokens().Create(ctx, token); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(baseURL, "/"), token.Token)
	go func(to, link string) {
		if err := mail.SendPasswordResetLink(s.mailSender, to, link); err != nil {
			slog.Error("Failed to send password reset email", "error", err)
		}
	}(user.Email, resetLink)
	return nil
}

// Reset redeems a token and sets the new password. An expired token is
// reported but not consumed; a spent token is indistinguishable from an
// unknown one.
func (s *ResetService) Reset(ctx context.Context, token string, newPassword, confirmPassword string) error {
	return s.store.Transaction(ctx, func(tx storage.Store) error {
		rec, err := tx.ResetTokens().GetUnused(ctx, token)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTokenInvalid
		} else if err != nil {
			return err
		}
		if !rec.Redeemable(s.now()) {
			return ErrTokenExpired
		}
		if newPassword != confirmPassword {
			return ErrPasswordMismatch
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := tx.Users().UpdatePassword(ctx, rec.UserID, string(passwordHash), false); err != nil {
			return err
		}
		return tx.ResetTokens().MarkUsed(ctx, rec.ID)
	})
}
