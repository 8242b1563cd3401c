package model

import "time"

const (
	RoleAdmin   = "admin"
	RoleTrainer = "trainer"
	RoleMember  = "member"
)

// User stores a login account. Accounts are seeded at startup (admin) or
// provisioned when a registration is approved.
type User struct {
	ID                     uint   `gorm:"primarykey"`
	Username               string `gorm:"uniqueIndex;size:64;not null"`
	Email                  string `gorm:"uniqueIndex;size:256;not null"`
	PasswordHash           string `gorm:"size:128;not null"`
	Role                   string `gorm:"size:16;not null;default:member"`
	DisplayName            string `gorm:"size:128;not null"`
	PasswordChangeRequired bool   `gorm:"default:false;not null"`
	LastLoginAt            *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
