package service

import (
	"context"

	"github.com/netbill/netbill/internal/domain/messagelog"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/types"
)

// DispatchService backs the operator-facing endpoints: manual sends for a
// single bill and the message log listing. Manual sends skip the per-kind
// toggle and the rate-limit delay but still honor the master switch, the
// dedup guard and quiet hours.
type DispatchService interface {
	ManualSend(ctx context.Context, billID int64, kind types.NotificationKind) (types.NotificationOutcome, error)
	ListLogs(ctx context.Context, filter messagelog.Filter) ([]*messagelog.MessageLog, error)
}

type dispatchService struct {
	ServiceParams
	notifier NotificationService
	settings SettingsService
}

func NewDispatchService(params ServiceParams, notifier NotificationService, settings SettingsService) DispatchService {
	return &dispatchService{
		ServiceParams: params,
		notifier:      notifier,
		settings:      settings,
	}
}

func (s *dispatchService) ManualSend(ctx context.Context, billID int64, kind types.NotificationKind) (types.NotificationOutcome, error) {
	if !kind.Validate() {
		return "", ierr.NewErrorf("invalid notification kind: %s", kind).
			Mark(ierr.ErrValidation)
	}

	set, err := s.settings.Get(ctx)
	if err != nil {
		return "", err
	}
	if !set.WAEnabled {
		return "", ierr.NewError("whatsapp notifications are disabled").
			WithHint("Enable WhatsApp notifications in settings before sending").
			Mark(ierr.ErrValidation)
	}

	b, err := s.BillRepo.Get(ctx, billID)
	if err != nil {
		return "", err
	}
	u, err := s.UserRepo.Get(ctx, b.UserID)
	if err != nil {
		return "", err
	}

	switch kind {
	case types.NotificationKindBill:
		return s.notifier.SendBillNotification(ctx, b, u, set, true)
	case types.NotificationKindReceipt:
		p, err := s.PaymentRepo.GetLatestByBill(ctx, b.ID)
		if err != nil {
			return "", err
		}
		return s.notifier.SendReceiptNotification(ctx, b, u, set, p, true)
	case types.NotificationKindReminder:
		return s.notifier.SendReminderNotification(ctx, b, u, set, true)
	default:
		return "", ierr.NewErrorf("kind %s cannot be sent manually", kind).
			Mark(ierr.ErrValidation)
	}
}

func (s *dispatchService) ListLogs(ctx context.Context, filter messagelog.Filter) ([]*messagelog.MessageLog, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	return s.MessageLogRepo.List(ctx, filter)
}
