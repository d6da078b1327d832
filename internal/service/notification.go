package service

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/netbill/netbill/internal/domain/bill"
	"github.com/netbill/netbill/internal/domain/messagelog"
	"github.com/netbill/netbill/internal/domain/payment"
	"github.com/netbill/netbill/internal/domain/settings"
	"github.com/netbill/netbill/internal/domain/user"
	"github.com/netbill/netbill/internal/types"
	"github.com/samber/lo"
)

const (
	rateLimitDelayMin = 2 * time.Second
	rateLimitDelayMax = 5 * time.Second
)

// NotificationService is the single entry point for the three outbound
// notification kinds. Every path runs the same pipeline: toggle check, dedup
// (bill/receipt), quiet hours, rate-limit delay, render, deliver, log.
type NotificationService interface {
	// SendBillNotification notifies a subscriber about a new bill. Manual
	// sends bypass the per-kind toggle and the rate-limit delay, but never
	// the master switch.
	SendBillNotification(ctx context.Context, b *bill.Bill, u *user.User, set *settings.Settings, manual bool) (types.NotificationOutcome, error)

	// SendReceiptNotification confirms a payment. The payment row, when
	// present, supplies the paid date, amount and method label.
	SendReceiptNotification(ctx context.Context, b *bill.Bill, u *user.User, set *settings.Settings, p *payment.Payment, manual bool) (types.NotificationOutcome, error)

	// SendReminderNotification nudges a subscriber about an unpaid bill.
	// Reminders are intentionally not deduplicated; manual sends bypass the
	// auto-reminder toggle and the rate-limit delay.
	SendReminderNotification(ctx context.Context, b *bill.Bill, u *user.User, set *settings.Settings, manual bool) (types.NotificationOutcome, error)
}

type notificationService struct {
	ServiceParams
	loc *time.Location

	// injectable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	delay func() time.Duration
}

// NewNotificationService creates the dispatcher.
func NewNotificationService(params ServiceParams) NotificationService {
	return &notificationService{
		ServiceParams: params,
		loc:           params.Config.Location(),
		now:           time.Now,
		sleep:         sleepContext,
		delay:         randomDelay,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// randomDelay returns a uniform delay in [2s, 5s] to avoid bursting the
// gateway during sweeps.
func randomDelay() time.Duration {
	return rateLimitDelayMin + time.Duration(rand.Int63n(int64(rateLimitDelayMax-rateLimitDelayMin)+1))
}

func (s *notificationService) SendBillNotification(ctx context.Context, b *bill.Bill, u *user.User, set *settings.Settings, manual bool) (types.NotificationOutcome, error) {
	if !set.WAEnabled || (!set.AutoNotifyNewBill && !manual) {
		return types.OutcomeSkipped, nil
	}

	if outcome, done, err := s.applyPolicy(ctx, types.NotificationKindBill, b.ID, true, set); done {
		return outcome, err
	}

	if !manual {
		if err := s.rateLimit(ctx, types.NotificationKindBill, u.Name); err != nil {
			return "", err
		}
	}

	createdAt := b.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	msg := ProcessTemplate(set.BillTemplate, TemplateData{
		Name:   u.Name,
		Month:  MonthName(b.Month),
		Year:   strconv.Itoa(b.Year),
		Amount: FormatAmount(b.Amount),
		Date:   FormatDate(createdAt, s.loc),
		Day:    strconv.Itoa(createdAt.In(s.loc).Day()),
		Link:   PaymentLink(set.AppURL, b.PaymentToken),
	})

	return s.deliver(ctx, types.NotificationKindBill, b, u, msg)
}

func (s *notificationService) SendReceiptNotification(ctx context.Context, b *bill.Bill, u *user.User, set *settings.Settings, p *payment.Payment, manual bool) (types.NotificationOutcome, error) {
	if !set.WAEnabled || (!set.AutoNotifyPaymentSuccess && !manual) {
		return types.OutcomeSkipped, nil
	}

	if outcome, done, err := s.applyPolicy(ctx, types.NotificationKindReceipt, b.ID, true, set); done {
		return outcome, err
	}

	if !manual {
		if err := s.rateLimit(ctx, types.NotificationKindReceipt, u.Name); err != nil {
			return "", err
		}
	}

	amount := b.Amount
	paidAt := lo.FromPtr(b.PaidAt)
	method := ""
	if p != nil {
		amount = p.Amount
		paidAt = p.PaidAt
		method = PrettyPaymentMethod(p.Method, p.PaymentType, p.Issuer)
	}
	if paidAt.IsZero() {
		paidAt = s.now()
	}

	msg := ProcessTemplate(set.PaymentTemplate, TemplateData{
		Name:   u.Name,
		Month:  MonthName(b.Month),
		Year:   strconv.Itoa(b.Year),
		Amount: FormatAmount(amount),
		Date:   FormatDate(paidAt, s.loc),
		Day:    strconv.Itoa(paidAt.In(s.loc).Day()),
		Link:   PaymentLink(set.AppURL, b.PaymentToken),
		Method: method,
	})

	return s.deliver(ctx, types.NotificationKindReceipt, b, u, msg)
}

func (s *notificationService) SendReminderNotification(ctx context.Context, b *bill.Bill, u *user.User, set *settings.Settings, manual bool) (types.NotificationOutcome, error) {
	if !set.WAEnabled || (!set.AutoReminderEnabled && !manual) {
		return types.OutcomeSkipped, nil
	}

	// reminders are periodic on purpose; no dedup guard here
	if outcome, done, err := s.applyPolicy(ctx, types.NotificationKindReminder, b.ID, false, set); done {
		return outcome, err
	}

	if !manual {
		if err := s.rateLimit(ctx, types.NotificationKindReminder, u.Name); err != nil {
			return "", err
		}
	}

	createdAt := b.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	msg := ProcessTemplate(set.ReminderTemplate, TemplateData{
		Name:   u.Name,
		Month:  MonthName(b.Month),
		Year:   strconv.Itoa(b.Year),
		Amount: FormatAmount(b.Amount),
		Date:   FormatDate(createdAt, s.loc),
		Day:    strconv.Itoa(createdAt.In(s.loc).Day()),
		Link:   PaymentLink(set.AppURL, b.PaymentToken),
	})

	return s.deliver(ctx, types.NotificationKindReminder, b, u, msg)
}

// applyPolicy runs the dedup guard and quiet-hours checks shared by every
// send path. done=true means the caller must return the outcome as is.
func (s *notificationService) applyPolicy(ctx context.Context, kind types.NotificationKind, billID int64, dedup bool, set *settings.Settings) (types.NotificationOutcome, bool, error) {
	if dedup {
		sent, err := s.MessageLogRepo.HasSuccessful(ctx, kind, billID)
		if err != nil {
			return "", true, err
		}
		if sent {
			s.Logger.Infow("duplicate notification skipped",
				"kind", kind, "bill_id", billID)
			return types.OutcomeAlreadySent, true, nil
		}
	}

	if IsWithinQuietHours(set.QuietHoursStart, set.QuietHoursEnd, s.now().In(s.loc)) {
		s.Logger.Infow("notification held due to quiet hours",
			"kind", kind, "bill_id", billID)
		return types.OutcomeHeld, true, nil
	}

	return "", false, nil
}

func (s *notificationService) rateLimit(ctx context.Context, kind types.NotificationKind, name string) error {
	d := s.delay()
	s.Logger.Debugw("rate limiting before send",
		"kind", kind, "recipient_name", name, "delay_ms", d.Milliseconds())
	return s.sleep(ctx, d)
}

// deliver sends the rendered message and records the outcome. A failed log
// write after a successful send is logged but never surfaced, so logging can
// not mask a delivered message.
func (s *notificationService) deliver(ctx context.Context, kind types.NotificationKind, b *bill.Bill, u *user.User, msg string) (types.NotificationOutcome, error) {
	result, sendErr := s.Gateway.SendMessage(ctx, u.WhatsApp, msg)

	logRow := &messagelog.MessageLog{
		Recipient: u.WhatsApp,
		UserID:    lo.ToPtr(u.ID),
		BillID:    lo.ToPtr(b.ID),
		Message:   msg,
		Kind:      kind,
		Status:    types.MessageStatusSent,
	}
	if sendErr != nil {
		logRow.Status = types.MessageStatusFailed
	} else if result != nil && result.MessageID != "" {
		logRow.WAMessageID = lo.ToPtr(result.MessageID)
	}

	if logErr := s.MessageLogRepo.Create(ctx, logRow); logErr != nil {
		s.Logger.Errorw("failed to record message log",
			"error", logErr, "kind", kind, "bill_id", b.ID)
	}

	if sendErr != nil {
		s.Logger.Errorw("failed to send notification",
			"error", sendErr, "kind", kind, "bill_id", b.ID, "recipient", u.WhatsApp)
		return "", sendErr
	}

	s.Logger.Infow("notification sent",
		"kind", kind, "bill_id", b.ID, "user_id", u.ID)
	return types.OutcomeSent, nil
}

