package model

import "time"

// PasswordResetToken is a single-use, time-boxed credential recovery
// artifact. Spent tokens are kept with Used set rather than deleted.
type PasswordResetToken struct {
	ID        uint   `gorm:"primarykey"`
	Token     string `gorm:"uniqueIndex;size:128;not null"`
	UserID    uint   `gorm:"not null;index"`
	ExpiresAt time.Time
	Used      bool `gorm:"default:false;not null"`
	CreatedAt time.Time
}

func (t *PasswordResetToken) Redeemable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
