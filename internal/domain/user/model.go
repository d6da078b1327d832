package user

import (
	"time"

	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/types"
)

// User is one subscriber. Users are soft-deleted: DeletedAt is set and the
// row drops out of billing and every notification sweep.
type User struct {
	ID            int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string           `json:"name" gorm:"not null"`
	WhatsApp      string           `json:"whatsapp" gorm:"not null;index"`
	PPPoEUsername *string          `json:"pppoe_username,omitempty" gorm:"uniqueIndex"`
	Status        types.UserStatus `json:"status" gorm:"default:ACTIVE;index"`
	Address       string           `json:"address,omitempty"`
	Notes         string           `json:"notes,omitempty"`

	// Per-subscriber notification overrides; nil falls back to the global
	// settings values.
	DueDay           *int `json:"due_day,omitempty"`
	ReminderInterval *int `json:"reminder_interval,omitempty"`
	ReminderEnabled  bool `json:"reminder_enabled" gorm:"default:true"`

	JoinedAt  *time.Time `json:"joined_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// IsBillable reports whether the user participates in bill generation and
// automatic notifications.
func (u *User) IsBillable() bool {
	return u.Status == types.UserStatusActive && u.DeletedAt == nil
}

// Validate checks required fields before persistence.
func (u *User) Validate() error {
	if u.Name == "" {
		return ierr.NewError("user name is required").Mark(ierr.ErrValidation)
	}
	if u.WhatsApp == "" {
		return ierr.NewError("user whatsapp number is required").Mark(ierr.ErrValidation)
	}
	return nil
}
