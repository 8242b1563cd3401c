package model

import (
	"fmt"
	"time"
)

const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

// Registration is a membership application awaiting admin action.
// Rows are never deleted; approval and rejection are terminal status
// transitions so a code is never reissued.
type Registration struct {
	ID          uint   `gorm:"primarykey"`
	FirstName   string `gorm:"size:64;not null"`
	LastName    string `gorm:"size:64;not null"`
	Email       string `gorm:"size:256;not null;index"`
	Phone       string `gorm:"size:32;not null"`
	DOB         string `gorm:"size:20"`
	Gender      string `gorm:"size:10"`
	Address     string `gorm:"type:text"`
	Plan        string `gorm:"size:32;not null"`
	SubmittedAt time.Time
	Status      string `gorm:"size:16;not null;default:pending;index"`
}

// Code returns the public registration id, e.g. "REG001".
func (r Registration) Code() string {
	return fmt.Sprintf("REG%03d", r.ID)
}

func (r Registration) FullName() string {
	return r.FirstName + " " + r.LastName
}
