package members

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alshahriar/gymfit/internal/mail"
	"github.com/alshahriar/gymfit/internal/storage"
	"github.com/alshahriar/gymfit/model"
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

var (
	adminActor  = Actor{Username: "admin", Role: model.RoleAdmin}
	memberActor = Actor{Username: "somebody", Role: model.RoleMember}
)

func newTestService() (*Service, *storage.MemoryStore, *captureSender) {
	store := storage.NewMemoryStore()
	sender := newCaptureSender()
	svc := NewService(store, sender)
	svc.now = func() time.Time {
		return time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	}
	return svc, store, sender
}

func submitForm(email, plan string) RegistrationForm {
	return RegistrationForm{
		FirstName: "John",
		LastName:  "Doe",
		Email:     email,
		Phone:     "0123456789",
		DOB:       "1990-05-20",
		Gender:    "male",
		Address:   "12 High Street",
		Plan:      plan,
	}
}

func TestSubmitAssignsSequentialCodes(t *testing.T) {
	svc, _, sender := newTestService()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		reg, err := svc.Submit(ctx, submitForm(fmt.Sprintf("user%d@example.com", i), "basic"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("REG%03d", i), reg.Code())
		assert.Equal(t, model.RegistrationPending, reg.Status)
		sender.wait(t)
	}

	count, err := svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSubmitNormalizesInput(t *testing.T) {
	svc, _, sender := newTestService()

	form := submitForm("  John.Doe@Example.COM ", " Premium ")
	form.FirstName = "  John "
	reg, err := svc.Submit(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "john.doe@example.com", reg.Email)
	assert.Equal(t, "premium", reg.Plan)
	assert.Equal(t, "John", reg.FirstName)

	msg := sender.wait(t)
	assert.Equal(t, []string{"john.doe@example.com"}, msg.To)
}

func TestSubmitDuplicatePendingEmail(t *testing.T) {
	svc, _, sender := newTestService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, submitForm("dup@example.com", "basic"))
	require.NoError(t, err)
	sender.wait(t)

	_, err = svc.Submit(ctx, submitForm("DUP@example.com", "premium"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	count, err := svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "rejected submission must not change the ledger")
}

func TestSubmitDuplicateMemberEmail(t *testing.T) {
	svc, _, sender := newTestService()
	ctx := context.Background()

	reg, err := svc.Submit(ctx, submitForm("taken@example.com", "basic"))
	require.NoError(t, err)
	sender.wait(t)
	_, err = svc.Approve(ctx, reg.Code(), adminActor)
	require.NoError(t, err)
	sender.wait(t)

	_, err = svc.Submit(ctx, submitForm("taken@example.com", "basic"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestApprovePremium(t *testing.T) {
	svc, store, sender := newTestService()
	ctx := context.Background()

	form := submitForm("a@example.com", "premium")
	reg, err := svc.Submit(ctx, form)
	require.NoError(t, err)
	sender.wait(t)

	member, err := svc.Approve(ctx, "REG001", adminActor)
	require.NoError(t, err)

	assert.Equal(t, "M001", member.Code())
	assert.Equal(t, "Premium Plan", member.Plan)
	assert.Equal(t, 7500, member.Amount)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), member.JoinDate)
	assert.Equal(t, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), member.ExpiryDate)
	assert.Equal(t, model.MemberActive, member.Status)
	assert.Equal(t, model.PaymentPending, member.PaymentStatus)

	user, err := store.Users().GetByUsername(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)
	assert.Equal(t, model.RoleMember, user.Role)
	assert.Equal(t, "John Doe", user.DisplayName)
	assert.True(t, user.PasswordChangeRequired)

	// The one-time credential in the notice must match the stored hash.
	msg := sender.wait(t)
	assert.Equal(t, []string{"a@example.com"}, msg.To)
	assert.Contains(t, msg.Body, "M001")
	assert.Contains(t, msg.Body, "a")

	_, err = store.Registrations().PendingByID(ctx, reg.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "approved registration must leave the pending queue")
}

func TestApproveValidityByPlan(t *testing.T) {
	tests := []struct {
		plan         string
		amount       int
		validityDays int
	}{
		{"basic", 2500, 30},
		{"standard", 4500, 30},
		{"premium", 7500, 365},
	}
	for _, tt := range tests {
		t.Run(tt.plan, func(t *testing.T) {
			svc, _, sender := newTestService()
			ctx := context.Background()

			reg, err := svc.Submit(ctx, submitForm("p@example.com", tt.plan))
			require.NoError(t, err)
			sender.wait(t)

			member, err := svc.Approve(ctx, reg.Code(), adminActor)
			require.NoError(t, err)
			assert.Equal(t, tt.amount, member.Amount)
			assert.Equal(t, member.JoinDate.AddDate(0, 0, tt.validityDays), member.ExpiryDate)
		})
	}
}

func TestApproveRequiresAdmin(t *testing.T) {
	svc, _, sender := newTestService()
	ctx := context.Background()

	reg, err := svc.Submit(ctx, submitForm("x@example.com", "basic"))
	require.NoError(t, err)
	sender.wait(t)

	_, err = svc.Approve(ctx, reg.Code(), memberActor)
	assert.ErrorIs(t, err, ErrUnauthorized)

	count, _ := svc.PendingCount(ctx)
	assert.Equal(t, int64(1), count)
}

func TestApproveIsTerminal(t *testing.T) {
	svc, _, sender := newTestService()
	ctx := context.Background()

	reg, err := svc.Submit(ctx, submitForm("x@example.com", "basic"))
	require.NoError(t, err)
	sender.wait(t)

	_, err = svc.Approve(ctx, reg.Code(), adminActor)
	require.NoError(t, err)
	sender.wait(t)

	_, err = svc.Approve(ctx, reg.Code(), adminActor)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
	err = svc.Reject(ctx, reg.Code(), adminActor)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestApproveUnknownCode(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, code := range []string{"REG999", "M001", "REG", "REGabc", ""} {
		_, err := svc.Approve(ctx, code, adminActor)
		assert.ErrorIs(t, err, ErrRegistrationNotFound, "code %q", code)
	}
}

func TestApproveUsernameCollision(t *testing.T) {
	svc, store, sender := newTestService()
	ctx := context.Background()

	err := store.Users().Create(ctx, &model.User{
		Username:     "a",
		Email:        "other@example.com",
		PasswordHash: "x",
		Role:         model.RoleMember,
	})
	require.NoError(t, err)

	reg, err := svc.Submit(ctx, submitForm("a@example.com", "basic"))
	require.NoError(t, err)
	sender.wait(t)

	member, err := svc.Approve(ctx, reg.Code(), adminActor)
	require.NoError(t, err)

	username := fmt.Sprintf("a%d", member.ID)
	_, err = store.Users().GetByUsername(ctx, username)
	assert.NoError(t, err, "collided username should fall back to %q", username)
}

func TestApproveReturningMember(t *testing.T) {
	svc, store, sender := newTestService()
	ctx := context.Background()

	reg, err := svc.Submit(ctx, submitForm("back@example.com", "basic"))
	require.NoError(t, err)
	sender.wait(t)
	first, err := svc.Approve(ctx, reg.Code(), adminActor)
	require.NoError(t, err)
	sender.wait(t)

	before, err := store.Users().GetByUsername(ctx, "back")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMember(ctx, first.Code(), adminActor))

	// Deleting a member keeps the login account, so the returning
	// applicant's email is still bound to it.
	reg, err = svc.Submit(ctx, submitForm("back@example.com", "premium"))
	require.NoError(t, err)
	sender.wait(t)
	second, err := svc.Approve(ctx, reg.Code(), adminActor)
	require.NoError(t, err)
	assert.Equal(t, "M002", second.Code())

	after, err := store.Users().GetByUsername(ctx, "back")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID, "the surviving account is reused, not duplicated")
	assert.NotEqual(t, before.PasswordHash, after.PasswordHash, "re-approval issues a fresh one-time credential")
	assert.True(t, after.PasswordChangeRequired)

	msg := sender.wait(t)
	assert.Contains(t, msg.Body, "back", "the notice carries the reused username")
}

func TestRejectRegistration(t *testing.T) {
	svc, _, sender := newTestService()
	ctx := context.Background()

	reg, err := svc.Submit(ctx, submitForm("r@example.com", "basic"))
	require.NoError(t, err)
	sender.wait(t)

	require.NoError(t, svc.Reject(ctx, reg.Code(), adminActor))

	_, err = svc.Approve(ctx, reg.Code(), adminActor)
	assert.ErrorIs(t, err, ErrRegistrationNotFound, "rejection is terminal")

	members, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestRejectUnknownRegistration(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.Reject(context.Background(), "REG042", adminActor)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestRejectRequiresAdmin(t *testing.T) {
	svc, _, sender := newTestService()
	ctx := context.Background()

	reg, err := svc.Submit(ctx, submitForm("r@example.com", "basic"))
	require.NoError(t, err)
	sender.wait(t)

	assert.ErrorIs(t, svc.Reject(ctx, reg.Code(), memberActor), ErrUnauthorized)
}

func TestMemberIDsNeverReissued(t *testing.T) {
	svc, _, sender := newTestService()
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		reg, err := svc.Submit(ctx, submitForm(fmt.Sprintf("m%d@example.com", i), "basic"))
		require.NoError(t, err)
		sender.wait(t)
		_, err = svc.Approve(ctx, reg.Code(), adminActor)
		require.NoError(t, err)
		sender.wait(t)
	}

	require.NoError(t, svc.DeleteMember(ctx, "M001", adminActor))

	reg, err := svc.Submit(ctx, submitForm("m3@example.com", "basic"))
	require.NoError(t, err)
	sender.wait(t)
	member, err := svc.Approve(ctx, reg.Code(), adminActor)
	require.NoError(t, err)
	assert.Equal(t, "M003", member.Code(), "deleted ids must not be reissued")
}

func TestUpdateMember(t *testing.T) {
	svc, _, sender := newTestService()
	ctx := context.Background()

	reg, err := svc.Submit(ctx, submitForm("u@example.com", "basic"))
	require.NoError(t, err)
	sender.wait(t)
	member, err := svc.Approve(ctx, reg.Code(), adminActor)
	require.NoError(t, err)
	sender.wait(t)

	upd := MemberUpdate{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "0987654321",
		Plan:      "premium",
		Status:    model.MemberInactive,
	}
	require.NoError(t, svc.UpdateMember(ctx, member.Code(), upd, adminActor))

	got, err := svc.GetMember(ctx, member.Code())
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "Premium Plan", got.Plan)
	assert.Equal(t, model.MemberInactive, got.Status)
}

func TestUpdateMemberDuplicateEmail(t *testing.T) {
	svc, _, sender := newTestService()
	ctx := context.Background()

	var codes []string
	for i := 1; i <= 2; i++ {
		reg, err := svc.Submit(ctx, submitForm(fmt.Sprintf("e%d@example.com", i), "basic"))
		require.NoError(t, err)
		sender.wait(t)
		member, err := svc.Approve(ctx, reg.Code(), adminActor)
		require.NoError(t, err)
		sender.wait(t)
		codes = append(codes, member.Code())
	}

	upd := MemberUpdate{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "e1@example.com",
		Phone:     "0123456789",
		Plan:      "basic",
		Status:    model.MemberActive,
	}
	err := svc.UpdateMember(ctx, codes[1], upd, adminActor)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	got, err := svc.GetMember(ctx, codes[1])
	require.NoError(t, err)
	assert.Equal(t, "e2@example.com", got.Email, "failed update must not change the member")
}

func TestUpdateMemberRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.UpdateMember(context.Background(), "M001", MemberUpdate{}, memberActor)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDeleteMember(t *testing.T) {
	svc, _, sender := newTestService()
	ctx := context.Background()

	reg, err := svc.Submit(ctx, submitForm("d@example.com", "basic"))
	require.NoError(t, err)
	sender.wait(t)
	member, err := svc.Approve(ctx, reg.Code(), adminActor)
	require.NoError(t, err)
	sender.wait(t)

	require.NoError(t, svc.DeleteMember(ctx, member.Code(), adminActor))

	_, err = svc.GetMember(ctx, member.Code())
	assert.ErrorIs(t, err, ErrMemberNotFound)
	err = svc.DeleteMember(ctx, member.Code(), adminActor)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestDeleteMemberRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.DeleteMember(context.Background(), "M001", memberActor)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestOneTimeCredentialLogsIn(t *testing.T) {
	svc, store, sender := newTestService()
	ctx := context.Background()

	reg, err := svc.Submit(ctx, submitForm("c@example.com", "basic"))
	require.NoError(t, err)
	sender.wait(t)
	_, err = svc.Approve(ctx, reg.Code(), adminActor)
	require.NoError(t, err)
	sender.wait(t)

	user, err := store.Users().GetByUsername(ctx, "c")
	require.NoError(t, err)
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("not-the-credential"))
	assert.Error(t, err, "credential must not be a guessable constant")
}
