package bill

import (
	"time"

	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/types"
)

// Bill is one subscriber's obligation for one (month, year) billing period.
// At most one bill exists per (user, month, year); the unique index enforces
// it at the store level and bill generation enforces it by set-difference.
type Bill struct {
	ID     int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID int64            `json:"user_id" gorm:"not null;index;uniqueIndex:ux_bills_user_period,priority:1"`
	Month  int              `json:"month" gorm:"not null;uniqueIndex:ux_bills_user_period,priority:2"`
	Year   int              `json:"year" gorm:"not null;uniqueIndex:ux_bills_user_period,priority:3"`
	Amount int64            `json:"amount" gorm:"not null"`
	Status types.BillStatus `json:"status" gorm:"default:UNPAID;index"`

	// PaymentToken is the public token embedded in payment links.
	PaymentToken string `json:"payment_token" gorm:"not null;uniqueIndex"`

	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// Period is a (month, year) billing period.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// PeriodOf returns the billing period for a moment in the billing timezone.
func PeriodOf(t time.Time, loc *time.Location) Period {
	local := t.In(loc)
	return Period{Month: int(local.Month()), Year: local.Year()}
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ierr.NewErrorf("period month must be 1-12, got %d", p.Month).
			Mark(ierr.ErrValidation)
	}
	if p.Year < 2000 {
		return ierr.NewErrorf("period year out of range: %d", p.Year).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (b *Bill) Validate() error {
	if b.UserID == 0 {
		return ierr.NewError("bill user_id is required").Mark(ierr.ErrValidation)
	}
	if b.Month < 1 || b.Month > 12 {
		return ierr.NewErrorf("bill month must be 1-12, got %d", b.Month).
			Mark(ierr.ErrValidation)
	}
	if b.Year < 2000 {
		return ierr.NewErrorf("bill year out of range: %d", b.Year).
			Mark(ierr.ErrValidation)
	}
	if b.Amount <= 0 {
		return ierr.NewError("bill amount must be positive").Mark(ierr.ErrValidation)
	}
	if b.PaymentToken == "" {
		return ierr.NewError("bill payment token is required").Mark(ierr.ErrValidation)
	}
	return nil
}
