package model

import (
	"fmt"
	"time"
)

const (
	MemberActive   = "active"
	MemberInactive = "inactive"
	MemberExpired  = "expired"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Member is an approved gym member. Created only as a side effect of
// approving a registration; deleted rows are gone for good, the login
// account linked by email stays.
type Member struct {
	ID            uint   `gorm:"primarykey"`
	FirstName     string `gorm:"size:64;not null"`
	LastName      string `gorm:"size:64;not null"`
	Email         string `gorm:"uniqueIndex;size:256;not null"`
	Phone         string `gorm:"size:32;not null"`
	DOB           string `gorm:"size:20"`
	Gender        string `gorm:"size:10"`
	Address       string `gorm:"type:text"`
	Plan          string `gorm:"size:64;not null"` // display label, e.g. "Premium Plan"
	Amount        int    `gorm:"not null"`
	JoinDate      time.Time
	ExpiryDate    time.Time
	Status        string `gorm:"size:16;not null;default:active"`
	PaymentStatus string `gorm:"size:16;not null;default:pending"`
	PaymentMethod string `gorm:"size:32"`
	TransactionID string `gorm:"size:128"`
	PaymentDate   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Code returns the public member id, e.g. "M001".
func (m Member) Code() string {
	return fmt.Sprintf("M%03d", m.ID)
}

func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}
