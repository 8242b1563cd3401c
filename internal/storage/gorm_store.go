package storage

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/alshahriar/gymfit/model"
)

// GormStore is the production Store backed by a MySQL database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository                 { return &gormUserRepository{s.db} }
func (s *GormStore) Members() MemberRepository             { return &gormMemberRepository{s.db} }
func (s *GormStore) Registrations() RegistrationRepository { return &gormRegistrationRepository{s.db} }
func (s *GormStore) ResetTokens() ResetTokenRepository     { return &gormResetTokenRepository{s.db} }

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

// wrapErr maps driver errors to the storage sentinels. MySQL reports
// unique index violations as error 1062.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrDuplicate
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

type gormUserRepository struct {
	db *gorm.DB
}

func (r *gormUserRepository) Create(ctx context.Context, user *model.User) error {
	return wrapErr(r.db.WithContext(ctx).Create(user).Error)
}

func (r *gormUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

func (r *gormUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

func (r *gormUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string, changeRequired bool) error {
	ret := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash":            passwordHash,
		"password_change_required": changeRequired,
	})
	if ret.Error != nil {
		return wrapErr(ret.Error)
	}
	if ret.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) SetLastLogin(ctx context.Context, id uint) error {
	return wrapErr(r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("last_login_at", gorm.Expr("NOW()")).Error)
}

type gormRegistrationRepository struct {
	db *gorm.DB
}

func (r *gormRegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	return wrapErr(r.db.WithContext(ctx).Create(reg).Error)
}

func (r *gormRegistrationRepository) PendingByID(ctx context.Context, id uint) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, model.RegistrationPending).
		First(&reg).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return &reg, nil
}

func (r *gormRegistrationRepository) PendingByEmail(ctx context.Context, email string) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Where("email = ? AND status = ?", email, model.RegistrationPending).
		First(&reg).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return &reg, nil
}

func (r *gormRegistrationRepository) ListPending(ctx context.Context) ([]model.Registration, error) {
	var regs []model.Registration
	err := r.db.WithContext(ctx).
		Where("status = ?", model.RegistrationPending).
		Order("id").
		Find(&regs).Error
	return regs, wrapErr(err)
}

func (r *gormRegistrationRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Registration{}).
		Where("status = ?", model.RegistrationPending).
		Count(&count).Error
	return count, wrapErr(err)
}

func (r *gormRegistrationRepository) SetStatus(ctx context.Context, id uint, status string) error {
	ret := r.db.WithContext(ctx).Model(&model.Registration{}).
		Where("id = ?", id).
		Update("status", status)
	if ret.Error != nil {
		return wrapErr(ret.Error)
	}
	if ret.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormMemberRepository struct {
	db *gorm.DB
}

func (r *gormMemberRepository) Create(ctx context.Context, member *model.Member) error {
	return wrapErr(r.db.WithContext(ctx).Create(member).Error)
}

func (r *gormMemberRepository) GetByID(ctx context.Context, id uint) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &member, nil
}

func (r *gormMemberRepository) GetByEmail(ctx context.Context, email string) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &member, nil
}

func (r *gormMemberRepository) List(ctx context.Context) ([]model.Member, error) {
	var members []model.Member
	err := r.db.WithContext(ctx).Order("id").Find(&members).Error
	return members, wrapErr(err)
}

func (r *gormMemberRepository) Update(ctx context.Context, member *model.Member) error {
	return wrapErr(r.db.WithContext(ctx).Save(member).Error)
}

func (r *gormMemberRepository) Delete(ctx context.Context, id uint) error {
	ret := r.db.WithContext(ctx).Delete(&model.Member{}, id)
	if ret.Error != nil {
		return wrapErr(ret.Error)
	}
	if ret.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormResetTokenRepository struct {
	db *gorm.DB
}

func (r *gormResetTokenRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	return wrapErr(r.db.WithContext(ctx).Create(token).Error)
}

func (r *gormResetTokenRepository) GetUnused(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	var rec model.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND used = ?", token, false).
		First(&rec).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return &rec, nil
}

func (r *gormResetTokenRepository) MarkUsed(ctx context.Context, id uint) error {
	ret := r.db.WithContext(ctx).Model(&model.PasswordResetToken{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if ret.Error != nil {
		return wrapErr(ret.Error)
	}
	if ret.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
