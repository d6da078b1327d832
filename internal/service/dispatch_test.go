package service

import (
	"context"
	"testing"
	"time"

	"github.com/netbill/netbill/internal/domain/bill"
	"github.com/netbill/netbill/internal/domain/messagelog"
	"github.com/netbill/netbill/internal/domain/payment"
	"github.com/netbill/netbill/internal/domain/user"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/testutil"
	"github.com/netbill/netbill/internal/types"
	"github.com/stretchr/testify/suite"
)

type DispatchServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  DispatchService
	notifier *notificationService
	params   ServiceParams

	now time.Time
}

func TestDispatchService(t *testing.T) {
	suite.Run(t, new(DispatchServiceSuite))
}

func (s *DispatchServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		Gateway:        s.GetGateway(),
		UserRepo:       s.GetStores().UserRepo,
		BillRepo:       s.GetStores().BillRepo,
		PaymentRepo:    s.GetStores().PaymentRepo,
		MessageLogRepo: s.GetStores().MessageLogRepo,
		SettingsRepo:   s.GetStores().SettingsRepo,
	}

	s.now = time.Date(2026, time.March, 10, 10, 0, 0, 0, s.params.Config.Location())

	s.notifier = NewNotificationService(s.params).(*notificationService)
	s.notifier.now = func() time.Time { return s.now }
	s.notifier.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	s.notifier.delay = func() time.Duration { return 0 }

	s.service = NewDispatchService(s.params, s.notifier, NewSettingsService(s.params))
}

func (s *DispatchServiceSuite) enable(perKind bool) {
	set, err := s.params.SettingsRepo.Get(context.Background())
	s.NoError(err)
	set.WAEnabled = true
	set.AutoNotifyNewBill = perKind
	set.AutoNotifyPaymentSuccess = perKind
	set.AutoReminderEnabled = perKind
	set.BillTemplate = "Tagihan untuk {name}"
	set.PaymentTemplate = "Pembayaran {name} via {method}"
	set.ReminderTemplate = "Ingat {name}"
	s.NoError(s.params.SettingsRepo.Update(context.Background(), set))
}

func (s *DispatchServiceSuite) seedBill() *bill.Bill {
	u := &user.User{Name: "Budi", WhatsApp: "62811", Status: types.UserStatusActive}
	s.NoError(s.params.UserRepo.Create(context.Background(), u))

	b := &bill.Bill{
		UserID:       u.ID,
		Month:        3,
		Year:         2026,
		Amount:       50000,
		Status:       types.BillStatusUnpaid,
		PaymentToken: "tok-1",
		CreatedAt:    s.now,
	}
	s.NoError(s.params.BillRepo.Create(context.Background(), b))
	return b
}

func (s *DispatchServiceSuite) TestManualSendBypassesDisabledToggle() {
	s.enable(false)
	b := s.seedBill()

	outcome, err := s.service.ManualSend(context.Background(), b.ID, types.NotificationKindBill)
	s.NoError(err)
	s.Equal(types.OutcomeSent, outcome)
	s.Equal(1, s.GetGateway().SendCount())
}

func (s *DispatchServiceSuite) TestManualSendRejectedWhenMasterOff() {
	b := s.seedBill()

	_, err := s.service.ManualSend(context.Background(), b.ID, types.NotificationKindBill)
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Zero(s.GetGateway().SendCount())
}

func (s *DispatchServiceSuite) TestManualSendUnknownBill() {
	s.enable(true)

	_, err := s.service.ManualSend(context.Background(), 9999, types.NotificationKindBill)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *DispatchServiceSuite) TestManualReceiptUsesLatestPayment() {
	s.enable(false)
	b := s.seedBill()
	s.NoError(s.params.BillRepo.MarkPaid(context.Background(), b.ID, s.now))

	s.NoError(s.params.PaymentRepo.Create(context.Background(), &payment.Payment{
		BillID: b.ID, Amount: 50000, Method: types.PaymentMethodCash, PaidAt: s.now.Add(-2 * time.Hour),
	}))
	s.NoError(s.params.PaymentRepo.Create(context.Background(), &payment.Payment{
		BillID: b.ID, Amount: 50000, Method: types.PaymentMethodMidtrans, PaymentType: "qris", PaidAt: s.now.Add(-time.Hour),
	}))

	outcome, err := s.service.ManualSend(context.Background(), b.ID, types.NotificationKindReceipt)
	s.NoError(err)
	s.Equal(types.OutcomeSent, outcome)

	sent := s.GetGateway().Sent()
	s.Require().Len(sent, 1)
	s.Equal("Pembayaran Budi via QRIS", sent[0].Message)
}

func (s *DispatchServiceSuite) TestManualReceiptWithoutPayment() {
	s.enable(false)
	b := s.seedBill()
	s.NoError(s.params.BillRepo.MarkPaid(context.Background(), b.ID, s.now))

	// no payment row; the receipt still goes out with the bill amount
	outcome, err := s.service.ManualSend(context.Background(), b.ID, types.NotificationKindReceipt)
	s.NoError(err)
	s.Equal(types.OutcomeSent, outcome)
}

func (s *DispatchServiceSuite) TestManualSendRejectsBadKind() {
	s.enable(true)
	b := s.seedBill()

	_, err := s.service.ManualSend(context.Background(), b.ID, types.NotificationKind("BOGUS"))
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *DispatchServiceSuite) TestListLogsAppliesFilterAndDefaults() {
	s.enable(true)
	b := s.seedBill()

	outcome, err := s.service.ManualSend(context.Background(), b.ID, types.NotificationKindBill)
	s.NoError(err)
	s.Equal(types.OutcomeSent, outcome)

	logs, err := s.service.ListLogs(context.Background(), messagelog.Filter{Kind: types.NotificationKindBill})
	s.NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(types.NotificationKindBill, logs[0].Kind)

	logs, err = s.service.ListLogs(context.Background(), messagelog.Filter{Kind: types.NotificationKindReceipt})
	s.NoError(err)
	s.Empty(logs)
}

func (s *DispatchServiceSuite) TestListLogsClampsLimit() {
	ctx := context.Background()
	for i := 0; i < 60; i++ {
		s.NoError(s.params.MessageLogRepo.Create(ctx, &messagelog.MessageLog{
			Recipient: "6281200000001",
			Message:   "ping",
			Kind:      types.NotificationKindOther,
			Status:    types.MessageStatusSent,
		}))
	}

	logs, err := s.service.ListLogs(ctx, messagelog.Filter{})
	s.NoError(err)
	s.Len(logs, 50)

	logs, err = s.service.ListLogs(ctx, messagelog.Filter{Limit: 150})
	s.NoError(err)
	s.Len(logs, 60)

	logs, err = s.service.ListLogs(ctx, messagelog.Filter{Limit: 500})
	s.NoError(err)
	s.Len(logs, 60)
}
