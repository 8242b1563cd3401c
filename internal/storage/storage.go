package storage

import (
	"context"
	"errors"

	"github.com/alshahriar/gymfit/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string, changeRequired bool) error
	SetLastLogin(ctx context.Context, id uint) error
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *model.Registration) error
	PendingByID(ctx context.Context, id uint) (*model.Registration, error)
	PendingByEmail(ctx context.Context, email string) (*model.Registration, error)
	ListPending(ctx context.Context) ([]model.Registration, error)
	CountPending(ctx context.Context) (int64, error)
	SetStatus(ctx context.Context, id uint, status string) error
}

type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id uint) (*model.Member, error)
	GetByEmail(ctx context.Context, email string) (*model.Member, error)
	List(ctx context.Context) ([]model.Member, error)
	Update(ctx context.Context, member *model.Member) error
	Delete(ctx context.Context, id uint) error
}

type ResetTokenRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	GetUnused(ctx context.Context, token string) (*model.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id uint) error
}

// Store is the single repository abstraction every service goes through.
// Transaction runs fn against a store bound to one database transaction;
// returning an error rolls back every write made through that store.
type Store interface {
	Users() UserRepository
	Members() MemberRepository
	Registrations() RegistrationRepository
	ResetTokens() ResetTokenRepository
	Transaction(ctx context.Context, fn func(Store) error) error
}
