package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User types accepted on the waitlist. The canonical set is the one the
// storage layer enforces; the submission client offers the same options.
const (
	UserTypeBuyer      = "buyer"
	UserTypeSeller     = "seller"
	UserTypeInfluencer = "influencer"
)

// UserTypes lists every accepted user type, in display order.
var UserTypes = []string{UserTypeBuyer, UserTypeSeller, UserTypeInfluencer}

// WaitlistEntry is a single signup record. Entries are written exactly once
// through the waitlist endpoint and never updated or deleted; the unique
// index on email is the sole arbiter of one-entry-per-email.
type WaitlistEntry struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Email     string    `gorm:"not null;uniqueIndex" json:"email"`
	Name      string    `gorm:"not null" json:"name"`
	UserType  string    `gorm:"column:user_type;not null" json:"user_type"`
	Feedback  string    `gorm:"not null;default:''" json:"feedback"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist"
}

func (e *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// IsValidUserType reports whether t is a member of the canonical set.
func IsValidUserType(t string) bool {
	for _, ut := range UserTypes {
		if ut == t {
			return true
		}
	}
	return false
}
