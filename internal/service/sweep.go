package service

import (
	"context"
	"time"

	"github.com/netbill/netbill/internal/domain/settings"
	"github.com/netbill/netbill/internal/domain/user"
	"github.com/netbill/netbill/internal/types"
	"github.com/netbill/netbill/internal/whatsapp"
	"github.com/samber/lo"
)

// statusSyncBatchSize bounds how many pending rows one sync pass polls.
const statusSyncBatchSize = 20

// SweepService runs the periodic delivery passes. Each sweep is self
// contained: it re-reads settings, walks its candidate set and hands each
// item to the dispatcher. A failure on one item never stops the sweep.
type SweepService interface {
	// ReminderSweep sends unpaid-bill reminders to subscribers whose
	// reminder day matches today.
	ReminderSweep(ctx context.Context) error

	// AutoBillSweep sends new-bill notifications for unpaid bills that have
	// not been notified yet.
	AutoBillSweep(ctx context.Context) error

	// RetryHeldSweep re-attempts notifications that were held by quiet hours
	// or failed earlier. It is a no-op while quiet hours are active.
	RetryHeldSweep(ctx context.Context) error

	// StatusSyncSweep polls the gateway for delivery-status transitions on
	// recently sent messages.
	StatusSyncSweep(ctx context.Context) error
}

type sweepService struct {
	ServiceParams
	notifier NotificationService
	loc      *time.Location

	now func() time.Time
}

func NewSweepService(params ServiceParams, notifier NotificationService) SweepService {
	return &sweepService{
		ServiceParams: params,
		notifier:      notifier,
		loc:           params.Config.Location(),
		now:           time.Now,
	}
}

// IsReminderDay reports whether a reminder is due on dayOfMonth for a bill
// with the given due day and reminder interval. Reminders fire on the due day
// itself and then every interval days after it. When the due day does not
// exist in the current month, the last day of the month stands in for it.
func IsReminderDay(dayOfMonth, dueDay, interval, lastDayOfMonth int) bool {
	if interval <= 0 {
		interval = settings.DefaultReminderInterval
	}
	effectiveDue := dueDay
	if effectiveDue > lastDayOfMonth {
		effectiveDue = lastDayOfMonth
	}
	if dayOfMonth == effectiveDue {
		return true
	}
	if dayOfMonth > effectiveDue {
		return (dayOfMonth-effectiveDue)%interval == 0
	}
	return false
}

func lastDayOfMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// activeUsersByID loads the billable subscribers keyed by ID. Bills whose
// owner is missing from the map belong to churned subscribers and are skipped.
func (s *sweepService) activeUsersByID(ctx context.Context) (map[int64]*user.User, error) {
	users, err := s.UserRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(users, func(u *user.User) (int64, *user.User) {
		return u.ID, u
	}), nil
}

func (s *sweepService) ReminderSweep(ctx context.Context) error {
	set, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if !set.WAEnabled || !set.AutoReminderEnabled {
		return nil
	}

	users, err := s.activeUsersByID(ctx)
	if err != nil {
		return err
	}

	unpaid, err := s.BillRepo.ListByStatus(ctx, types.BillStatusUnpaid)
	if err != nil {
		return err
	}

	today := s.now().In(s.loc)
	sent := 0
	for _, b := range unpaid {
		u, ok := users[b.UserID]
		if !ok || !u.ReminderEnabled {
			continue
		}
		due := set.EffectiveDueDay(u.DueDay)
		interval := set.EffectiveReminderInterval(u.ReminderInterval)
		if !IsReminderDay(today.Day(), due, interval, lastDayOfMonth(today)) {
			continue
		}

		outcome, err := s.notifier.SendReminderNotification(ctx, b, u, set, false)
		if err != nil {
			s.Logger.Errorw("reminder send failed, continuing sweep",
				"error", err, "bill_id", b.ID, "user_id", u.ID)
			continue
		}
		if outcome == types.OutcomeSent {
			sent++
		}
	}

	s.Logger.Infow("reminder sweep finished", "candidates", len(unpaid), "sent", sent)
	return nil
}

func (s *sweepService) AutoBillSweep(ctx context.Context) error {
	set, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if !set.WAEnabled || !set.AutoNotifyNewBill {
		return nil
	}
	return s.sweepUnpaidBills(ctx, set)
}

// sweepUnpaidBills pushes new-bill notifications for every unpaid bill. The
// dedup guard inside the dispatcher keeps already-notified bills quiet, so
// the walk is safe to repeat.
func (s *sweepService) sweepUnpaidBills(ctx context.Context, set *settings.Settings) error {
	users, err := s.activeUsersByID(ctx)
	if err != nil {
		return err
	}

	unpaid, err := s.BillRepo.ListByStatus(ctx, types.BillStatusUnpaid)
	if err != nil {
		return err
	}

	sent := 0
	for _, b := range unpaid {
		u, ok := users[b.UserID]
		if !ok {
			continue
		}
		outcome, err := s.notifier.SendBillNotification(ctx, b, u, set, false)
		if err != nil {
			s.Logger.Errorw("bill notification failed, continuing sweep",
				"error", err, "bill_id", b.ID, "user_id", u.ID)
			continue
		}
		if outcome == types.OutcomeSent {
			sent++
		}
	}

	s.Logger.Infow("auto bill sweep finished", "candidates", len(unpaid), "sent", sent)
	return nil
}

func (s *sweepService) RetryHeldSweep(ctx context.Context) error {
	set, err := s.SettingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if !set.WAEnabled {
		return nil
	}
	if IsWithinQuietHours(set.QuietHoursStart, set.QuietHoursEnd, s.now().In(s.loc)) {
		s.Logger.Debugw("retry sweep skipped, quiet hours active")
		return nil
	}

	users, err := s.activeUsersByID(ctx)
	if err != nil {
		return err
	}

	// Paid bills whose receipt never went out. The dedup guard filters the
	// ones that already have a successful receipt log.
	paid, err := s.BillRepo.ListByStatus(ctx, types.BillStatusPaid)
	if err != nil {
		return err
	}
	for _, b := range paid {
		u, ok := users[b.UserID]
		if !ok {
			continue
		}
		p, err := s.PaymentRepo.GetLatestByBill(ctx, b.ID)
		if err != nil {
			s.Logger.Errorw("failed to load payment for receipt retry",
				"error", err, "bill_id", b.ID)
			continue
		}
		if _, err := s.notifier.SendReceiptNotification(ctx, b, u, set, p, false); err != nil {
			s.Logger.Errorw("receipt retry failed, continuing sweep",
				"error", err, "bill_id", b.ID, "user_id", u.ID)
		}
	}

	if set.AutoNotifyNewBill {
		if err := s.sweepUnpaidBills(ctx, set); err != nil {
			return err
		}
	}
	return nil
}

func (s *sweepService) StatusSyncSweep(ctx context.Context) error {
	pending, err := s.MessageLogRepo.ListPendingStatus(ctx, statusSyncBatchSize)
	if err != nil {
		return err
	}

	updated := 0
	for _, row := range pending {
		if row.WAMessageID == nil || *row.WAMessageID == "" {
			continue
		}
		raw, err := s.Gateway.MessageStatus(ctx, *row.WAMessageID)
		if err != nil {
			s.Logger.Debugw("gateway status lookup failed",
				"error", err, "message_log_id", row.ID)
			continue
		}
		if raw == whatsapp.MessageStatusUnknown {
			continue
		}
		status, ok := whatsapp.ParseMessageStatus(raw)
		if !ok || status == row.Status {
			continue
		}
		if err := s.MessageLogRepo.UpdateStatus(ctx, row.ID, status); err != nil {
			s.Logger.Errorw("failed to persist delivery status",
				"error", err, "message_log_id", row.ID, "status", status)
			continue
		}
		updated++
	}

	if updated > 0 {
		s.Logger.Infow("delivery status sync finished",
			"polled", len(pending), "updated", updated)
	}
	return nil
}
