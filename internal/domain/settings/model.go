package settings

import (
	"time"

	ierr "github.com/netbill/netbill/internal/errors"
)

const (
	// SingletonID is the fixed primary key of the one settings row.
	SingletonID = 1

	DefaultDueDay           = 10
	DefaultReminderInterval = 3
	DefaultReminderTime     = "09:00"
	DefaultAutoBillTime     = "09:00"
)

// Settings is the singleton configuration row holding every admin-editable
// policy knob the dispatcher and scheduler consume. It is loaded per tick and
// passed explicitly rather than through a package global.
type Settings struct {
	Singleton  int    `json:"-" gorm:"primaryKey;default:1"`
	MonthlyFee int64  `json:"monthly_fee" gorm:"not null;default:0"`
	AppURL     string `json:"app_url" gorm:"default:''"`

	// Master switch plus per-kind auto-send switches.
	WAEnabled                bool `json:"wa_enabled" gorm:"default:false"`
	AutoNotifyNewBill        bool `json:"auto_notify_new_bill" gorm:"default:false"`
	AutoNotifyPaymentSuccess bool `json:"auto_notify_payment_success" gorm:"default:false"`
	AutoReminderEnabled      bool `json:"auto_reminder_enabled" gorm:"default:false"`

	// Daily trigger times, HH:mm in the billing timezone. Stored values may
	// carry 12h markers; they are normalized before comparison.
	ReminderTime string `json:"reminder_time" gorm:"default:09:00"`
	AutoBillTime string `json:"auto_bill_time" gorm:"default:09:00"`

	// Quiet hours window; automatic sends inside it are held, not dropped.
	QuietHoursStart   string `json:"quiet_hours_start" gorm:"default:21:00"`
	QuietHoursEnd     string `json:"quiet_hours_end" gorm:"default:08:00"`
	QuietHoursWeekend bool   `json:"quiet_hours_weekend" gorm:"default:true"`

	// Global notification defaults, overridable per subscriber.
	GlobalDueDay           int `json:"global_due_day" gorm:"default:10"`
	GlobalReminderInterval int `json:"global_reminder_interval" gorm:"default:3"`

	// Message templates, placeholder syntax {name} {month} {year} {amount}
	// {date} {day} {link} {method} {br}.
	BillTemplate     string `json:"bill_template"`
	PaymentTemplate  string `json:"payment_template"`
	ReminderTemplate string `json:"reminder_template"`

	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName keeps the singleton row in the settings table.
func (Settings) TableName() string {
	return "settings"
}

// Default returns the settings row as created on first boot.
func Default() *Settings {
	return &Settings{
		Singleton:              SingletonID,
		ReminderTime:           DefaultReminderTime,
		AutoBillTime:           DefaultAutoBillTime,
		QuietHoursStart:        "21:00",
		QuietHoursEnd:          "08:00",
		QuietHoursWeekend:      true,
		GlobalDueDay:           DefaultDueDay,
		GlobalReminderInterval: DefaultReminderInterval,
	}
}

// EffectiveDueDay resolves a subscriber override against the global default.
func (s *Settings) EffectiveDueDay(override *int) int {
	if override != nil && *override > 0 {
		return *override
	}
	if s.GlobalDueDay > 0 {
		return s.GlobalDueDay
	}
	return DefaultDueDay
}

// EffectiveReminderInterval resolves a subscriber override against the
// global default.
func (s *Settings) EffectiveReminderInterval(override *int) int {
	if override != nil && *override > 0 {
		return *override
	}
	if s.GlobalReminderInterval > 0 {
		return s.GlobalReminderInterval
	}
	return DefaultReminderInterval
}

func (s *Settings) Validate() error {
	if s.GlobalDueDay < 1 || s.GlobalDueDay > 31 {
		return ierr.NewErrorf("global due day must be 1-31, got %d", s.GlobalDueDay).
			Mark(ierr.ErrValidation)
	}
	if s.GlobalReminderInterval < 1 {
		return ierr.NewError("global reminder interval must be at least 1 day").
			Mark(ierr.ErrValidation)
	}
	if s.MonthlyFee < 0 {
		return ierr.NewError("monthly fee cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}
