package members

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alshahriar/gymfit/internal/mail"
	"github.com/alshahriar/gymfit/internal/storage"
	"github.com/alshahriar/gymfit/model"
)

// Actor identifies who is performing an operation. Admin-only operations
// reject everyone else with ErrUnauthorized.
type Actor struct {
	Username string
	Role     string
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// RegistrationForm carries the applicant fields from the public signup form.
type RegistrationForm struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	DOB       string
	Gender    string
	Address   string
	Plan      string
}

// MemberUpdate carries the editable member fields. Zero values overwrite;
// the admin edit form always posts the full set.
type MemberUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Plan      string
	Status    string
}

// Service implements the registration-to-membership lifecycle. Multi-write
// operations run inside a single store transaction; notifications are
// dispatched after commit and never fail the operation.
type Service struct {
	store      storage.Store
	mailSender mail.MailSender
	now        func() time.Time
}

func NewService(store storage.Store, mailSender mail.MailSender) *Service {
	return &Service{
		store:      store,
		mailSender: mailSender,
		now:        time.Now,
	}
}

// Submit files a new membership application. The applicant email must not
// appear among pending registrations nor existing members.
func (s *Service) Submit(ctx context.Context, form RegistrationForm) (*model.Registration, error) {
	reg := &model.Registration{
		FirstName:   strings.TrimSpace(form.FirstName),
		LastName:    strings.TrimSpace(form.LastName),
		Email:       normalizeEmail(form.Email),
		Phone:       strings.TrimSpace(form.Phone),
		DOB:         form.DOB,
		Gender:      form.Gender,
		Address:     form.Address,
		Plan:        strings.ToLower(strings.TrimSpace(form.Plan)),
		SubmittedAt: s.now(),
		Status:      model.RegistrationPending,
	}

	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		if _, err := tx.Registrations().PendingByEmail(ctx, reg.Email); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if _, err := tx.Members().GetByEmail(ctx, reg.Email); err == nil {
			return ErrDuplicateEmail
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return tx.Registrations().Create(ctx, reg)
	})
	if err != nil {
		return nil, err
	}

	go func(reg model.Registration) {
		if err := mail.SendWelcome(s.mailSender, reg.Email, reg.FirstName); err != nil {
			slog.Error("Failed to send welcome email", "registration", reg.Code(), "error", err)
		}
	}(*reg)
	return reg, nil
}

// Approve turns a pending registration into an active member and provisions
// a login account with a one-time credential. The registration status flip,
// the member row and the account land in one transaction.
func (s *Service) Approve(ctx context.Context, code string, actor Actor) (*model.Member, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}
	id, err := parseCode("REG", code)
	if err != nil {
		return nil, ErrRegistrationNotFound
	}

	var (
		member   *model.Member
		username string
		oneTime  string
	)
	err = s.store.Transaction(ctx, func(tx storage.Store) error {
		reg, err := tx.Registrations().PendingByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrRegistrationNotFound
		} else if err != nil {
			return err
		}

		plan := LookupPlan(reg.Plan)
		joinDate := s.now()
		member = &model.Member{
			FirstName:     reg.FirstName,
			LastName:      reg.LastName,
			Email:         reg.Email,
			Phone:         reg.Phone,
			DOB:           reg.DOB,
			Gender:        reg.Gender,
			Address:       reg.Address,
			Plan:          PlanLabel(reg.Plan),
			Amount:        plan.Amount,
			JoinDate:      joinDate,
			ExpiryDate:    joinDate.AddDate(0, 0, plan.ValidityDays),
			Status:        model.MemberActive,
			PaymentStatus: model.PaymentPending,
		}
		if err := tx.Members().Create(ctx, member); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return ErrDuplicateEmail
			}
			return err
		}

		oneTime = uuid.NewString()
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(oneTime), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		// A returning member keeps their old account: deleting a member
		// leaves the login behind, so the email may already be taken.
		// Reuse that account with a fresh one-time credential instead of
		// tripping over the email unique index.
		if existing, err := tx.Users().GetByEmail(ctx, reg.Email); err == nil {
			username = existing.Username
			if err := tx.Users().UpdatePassword(ctx, existing.ID, string(passwordHash), true); err != nil {
				return err
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		} else {
			username = usernameFromEmail(reg.Email)
			user := model.User{
				Username:               username,
				Email:                  reg.Email,
				PasswordHash:           string(passwordHash),
				Role:                   model.RoleMember,
				DisplayName:            reg.FullName(),
				PasswordChangeRequired: true,
			}
			if err := tx.Users().Create(ctx, &user); errors.Is(err, storage.ErrDuplicate) {
				// Username collision with an unrelated account; disambiguate
				// with the member sequence number.
				username = fmt.Sprintf("%s%d", usernameFromEmail(reg.Email), member.ID)
				user.ID = 0
				user.Username = username
				if err := tx.Users().Create(ctx, &user); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
		}

		return tx.Registrations().SetStatus(ctx, reg.ID, model.RegistrationApproved)
	})
	if err != nil {
		return nil, err
	}

	go func(m model.Member, username, oneTime string) {
		if err := mail.SendApprovalNotice(s.mailSender, &m, username, oneTime); err != nil {
			slog.Error("Failed to send approval email", "member", m.Code(), "error", err)
		}
	}(*member, username, oneTime)
	return member, nil
}

// Reject marks a pending registration rejected. Terminal; no notification.
func (s *Service) Reject(ctx context.Context, code string, actor Actor) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}
	id, err := parseCode("REG", code)
	if err != nil {
		return ErrRegistrationNotFound
	}
	return s.store.Transaction(ctx, func(tx storage.Store) error {
		reg, err := tx.Registrations().PendingByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrRegistrationNotFound
		} else if err != nil {
			return err
		}
		return tx.Registrations().SetStatus(ctx, reg.ID, model.RegistrationRejected)
	})
}

// UpdateMember overwrites the editable fields of a member. A recognized
// plan name is stored as its display label; anything else is stored as
// given. Changing the email re-checks uniqueness across members.
func (s *Service) UpdateMember(ctx context.Context, code string, upd MemberUpdate, actor Actor) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}
	id, err := parseCode("M", code)
	if err != nil {
		return ErrMemberNotFound
	}
	return s.store.Transaction(ctx, func(tx storage.Store) error {
		member, err := tx.Members().GetByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return ErrMemberNotFound
		} else if err != nil {
			return err
		}

		member.FirstName = strings.TrimSpace(upd.FirstName)
		member.LastName = strings.TrimSpace(upd.LastName)
		member.Email = normalizeEmail(upd.Email)
		member.Phone = strings.TrimSpace(upd.Phone)
		member.Status = upd.Status
		if _, ok := planCatalog[strings.ToLower(strings.TrimSpace(upd.Plan))]; ok {
			member.Plan = PlanLabel(upd.Plan)
		} else if upd.Plan != "" {
			member.Plan = upd.Plan
		}

		if err := tx.Members().Update(ctx, member); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
}

// DeleteMember removes a member permanently. The login account linked by
// email is left alone.
func (s *Service) DeleteMember(ctx context.Context, code string, actor Actor) error {
	if !actor.IsAdmin() {
		return ErrUnauthorized
	}
	id, err := parseCode("M", code)
	if err != nil {
		return ErrMemberNotFound
	}
	if err := s.store.Members().Delete(ctx, id); errors.Is(err, storage.ErrNotFound) {
		return ErrMemberNotFound
	} else if err != nil {
		return err
	}
	return nil
}

func (s *Service) GetMember(ctx context.Context, code string) (*model.Member, error) {
	id, err := parseCode("M", code)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	member, err := s.store.Members().GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrMemberNotFound
	} else if err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) ListMembers(ctx context.Context) ([]model.Member, error) {
	return s.store.Members().List(ctx)
}

func (s *Service) ListPendingRegistrations(ctx context.Context) ([]model.Registration, error) {
	return s.store.Registrations().ListPending(ctx)
}

func (s *Service) PendingCount(ctx context.Context) (int64, error) {
	return s.store.Registrations().CountPending(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}

// parseCode extracts the numeric part of a public id such as "REG001" or
// "M042".
func parseCode(prefix, code string) (uint, error) {
	digits, found := strings.CutPrefix(code, prefix)
	if !found || digits == "" {
		return 0, fmt.Errorf("malformed %s code: %q", prefix, code)
	}
	id, err := strconv.ParseUint(digits, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("malformed %s code: %q", prefix, code)
	}
	return uint(id), nil
}
