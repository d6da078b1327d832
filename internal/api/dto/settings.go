package dto

import (
	"github.com/netbill/netbill/internal/domain/settings"
)

// UpdateSettingsRequest is a partial update: only the fields present in the
// body are applied to the singleton row.
type UpdateSettingsRequest struct {
	MonthlyFee *int64  `json:"monthly_fee,omitempty"`
	AppURL     *string `json:"app_url,omitempty"`

	WAEnabled                *bool `json:"wa_enabled,omitempty"`
	AutoNotifyNewBill        *bool `json:"auto_notify_new_bill,omitempty"`
	AutoNotifyPaymentSuccess *bool `json:"auto_notify_payment_success,omitempty"`
	AutoReminderEnabled      *bool `json:"auto_reminder_enabled,omitempty"`

	ReminderTime *string `json:"reminder_time,omitempty"`
	AutoBillTime *string `json:"auto_bill_time,omitempty"`

	QuietHoursStart   *string `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd     *string `json:"quiet_hours_end,omitempty"`
	QuietHoursWeekend *bool   `json:"quiet_hours_weekend,omitempty"`

	GlobalDueDay           *int `json:"global_due_day,omitempty"`
	GlobalReminderInterval *int `json:"global_reminder_interval,omitempty"`

	BillTemplate     *string `json:"bill_template,omitempty"`
	PaymentTemplate  *string `json:"payment_template,omitempty"`
	ReminderTemplate *string `json:"reminder_template,omitempty"`
}

// Apply copies the present fields onto the current settings. Validation runs
// afterwards on the merged result.
func (r *UpdateSettingsRequest) Apply(set *settings.Settings) {
	if r.MonthlyFee != nil {
		set.MonthlyFee = *r.MonthlyFee
	}
	if r.AppURL != nil {
		set.AppURL = *r.AppURL
	}
	if r.WAEnabled != nil {
		set.WAEnabled = *r.WAEnabled
	}
	if r.AutoNotifyNewBill != nil {
		set.AutoNotifyNewBill = *r.AutoNotifyNewBill
	}
	if r.AutoNotifyPaymentSuccess != nil {
		set.AutoNotifyPaymentSuccess = *r.AutoNotifyPaymentSuccess
	}
	if r.AutoReminderEnabled != nil {
		set.AutoReminderEnabled = *r.AutoReminderEnabled
	}
	if r.ReminderTime != nil {
		set.ReminderTime = *r.ReminderTime
	}
	if r.AutoBillTime != nil {
		set.AutoBillTime = *r.AutoBillTime
	}
	if r.QuietHoursStart != nil {
		set.QuietHoursStart = *r.QuietHoursStart
	}
	if r.QuietHoursEnd != nil {
		set.QuietHoursEnd = *r.QuietHoursEnd
	}
	if r.QuietHoursWeekend != nil {
		set.QuietHoursWeekend = *r.QuietHoursWeekend
	}
	if r.GlobalDueDay != nil {
		set.GlobalDueDay = *r.GlobalDueDay
	}
	if r.GlobalReminderInterval != nil {
		set.GlobalReminderInterval = *r.GlobalReminderInterval
	}
	if r.BillTemplate != nil {
		set.BillTemplate = *r.BillTemplate
	}
	if r.PaymentTemplate != nil {
		set.PaymentTemplate = *r.PaymentTemplate
	}
	if r.ReminderTemplate != nil {
		set.ReminderTemplate = *r.ReminderTemplate
	}
}
