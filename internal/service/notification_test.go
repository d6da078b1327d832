package service

import (
	"context"
	"testing"
	"time"

	"github.com/netbill/netbill/internal/domain/bill"
	"github.com/netbill/netbill/internal/domain/messagelog"
	"github.com/netbill/netbill/internal/domain/payment"
	"github.com/netbill/netbill/internal/domain/settings"
	"github.com/netbill/netbill/internal/domain/user"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/testutil"
	"github.com/netbill/netbill/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type NotificationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service *notificationService
	params  ServiceParams

	now time.Time
}

func TestNotificationService(t *testing.T) {
	suite.Run(t, new(NotificationServiceSuite))
}

func (s *NotificationServiceSuite) SetupTest() {
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

	s.service = NewNotificationService(s.params).(*notificationService)

	// daytime, outside the default quiet window
	s.now = time.Date(2026, time.March, 10, 10, 0, 0, 0, s.params.Config.Location())
	s.service.now = func() time.Time { return s.now }
	s.service.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	s.service.delay = func() time.Duration { return 0 }
}

func (s *NotificationServiceSuite) settings() *settings.Settings {
	set := settings.Default()
	set.WAEnabled = true
	set.AutoNotifyNewBill = true
	set.AutoNotifyPaymentSuccess = true
	set.AutoReminderEnabled = true
	set.AppURL = "https://netbill.example"
	set.BillTemplate = "Tagihan {month} {year} untuk {name}: Rp {amount}. Bayar: {link}"
	set.PaymentTemplate = "Pembayaran {name} via {method} diterima {date}."
	set.ReminderTemplate = "Ingat {name}, tagihan {month} belum dibayar."
	return set
}

func (s *NotificationServiceSuite) seedBill() (*bill.Bill, *user.User) {
	u := &user.User{Name: "Budi", WhatsApp: "6281234567890", Status: types.UserStatusActive}
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
	return b, u
}

func (s *NotificationServiceSuite) TestSendBillNotificationRendersAndLogs() {
	b, u := s.seedBill()
	set := s.settings()

	outcome, err := s.service.SendBillNotification(context.Background(), b, u, set, false)
	s.NoError(err)
	s.Equal(types.OutcomeSent, outcome)

	sent := s.GetGateway().Sent()
	s.Require().Len(sent, 1)
	s.Equal("6281234567890", sent[0].Phone)
	s.Equal("Tagihan Maret 2026 untuk Budi: Rp 50.000. Bayar: https://netbill.example/pay/tok-1", sent[0].Message)

	logs, err := s.params.MessageLogRepo.List(context.Background(), messagelog.Filter{})
	s.NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(types.NotificationKindBill, logs[0].Kind)
	s.Equal(types.MessageStatusSent, logs[0].Status)
	s.NotNil(logs[0].WAMessageID)
}

func (s *NotificationServiceSuite) TestDuplicateBillNotificationShortCircuits() {
	b, u := s.seedBill()
	set := s.settings()

	outcome, err := s.service.SendBillNotification(context.Background(), b, u, set, false)
	s.NoError(err)
	s.Equal(types.OutcomeSent, outcome)

	outcome, err = s.service.SendBillNotification(context.Background(), b, u, set, false)
	s.NoError(err)
	s.Equal(types.OutcomeAlreadySent, outcome)

	// the short circuit happens before the gateway is touched
	s.Equal(1, s.GetGateway().SendCount())
}

func (s *NotificationServiceSuite) TestDedupCountsDeliveredAndRead() {
	b, u := s.seedBill()
	set := s.settings()

	for _, status := range []types.MessageStatus{types.MessageStatusDelivered, types.MessageStatusRead} {
		s.SetupTest()
		b, u = s.seedBill()

		s.NoError(s.params.MessageLogRepo.Create(context.Background(), &messagelog.MessageLog{
			Recipient: u.WhatsApp,
			BillID:    lo.ToPtr(b.ID),
			Message:   "sebelumnya",
			Kind:      types.NotificationKindBill,
			Status:    status,
		}))

		outcome, err := s.service.SendBillNotification(context.Background(), b, u, set, false)
		s.NoError(err)
		s.Equal(types.OutcomeAlreadySent, outcome)
		s.Zero(s.GetGateway().SendCount())
	}
}

func (s *NotificationServiceSuite) TestFailedAttemptDoesNotBlockRetry() {
	b, u := s.seedBill()
	set := s.settings()

	s.NoError(s.params.MessageLogRepo.Create(context.Background(), &messagelog.MessageLog{
		Recipient: u.WhatsApp,
		BillID:    lo.ToPtr(b.ID),
		Message:   "gagal",
		Kind:      types.NotificationKindBill,
		Status:    types.MessageStatusFailed,
	}))

	outcome, err := s.service.SendBillNotification(context.Background(), b, u, set, false)
	s.NoError(err)
	s.Equal(types.OutcomeSent, outcome)
	s.Equal(1, s.GetGateway().SendCount())
}

func (s *NotificationServiceSuite) TestQuietHoursHoldsAutomaticSend() {
	b, u := s.seedBill()
	set := s.settings()

	s.now = time.Date(2026, time.March, 10, 22, 30, 0, 0, s.params.Config.Location())

	outcome, err := s.service.SendBillNotification(context.Background(), b, u, set, false)
	s.NoError(err)
	s.Equal(types.OutcomeHeld, outcome)
	s.Zero(s.GetGateway().SendCount())

	// nothing was logged, so the retry sweep will pick it up
	logs, err := s.params.MessageLogRepo.List(context.Background(), messagelog.Filter{})
	s.NoError(err)
	s.Empty(logs)
}

func (s *NotificationServiceSuite) TestQuietHoursHoldsManualSendToo() {
	b, u := s.seedBill()
	set := s.settings()

	s.now = time.Date(2026, time.March, 10, 23, 0, 0, 0, s.params.Config.Location())

	outcome, err := s.service.SendBillNotification(context.Background(), b, u, set, true)
	s.NoError(err)
	s.Equal(types.OutcomeHeld, outcome)
	s.Zero(s.GetGateway().SendCount())
}

func (s *NotificationServiceSuite) TestMasterSwitchSkipsEverything() {
	b, u := s.seedBill()
	set := s.settings()
	set.WAEnabled = false

	for _, manual := range []bool{false, true} {
		outcome, err := s.service.SendBillNotification(context.Background(), b, u, set, manual)
		s.NoError(err)
		s.Equal(types.OutcomeSkipped, outcome)
	}

	outcome, err := s.service.SendReminderNotification(context.Background(), b, u, set, true)
	s.NoError(err)
	s.Equal(types.OutcomeSkipped, outcome)

	s.Zero(s.GetGateway().SendCount())
}

func (s *NotificationServiceSuite) TestManualSendBypassesPerKindToggle() {
	b, u := s.seedBill()
	set := s.settings()
	set.AutoNotifyNewBill = false

	outcome, err := s.service.SendBillNotification(context.Background(), b, u, set, false)
	s.NoError(err)
	s.Equal(types.OutcomeSkipped, outcome)

	outcome, err = s.service.SendBillNotification(context.Background(), b, u, set, true)
	s.NoError(err)
	s.Equal(types.OutcomeSent, outcome)
	s.Equal(1, s.GetGateway().SendCount())
}

func (s *NotificationServiceSuite) TestRemindersAreNotDeduplicated() {
	b, u := s.seedBill()
	set := s.settings()

	for i := 0; i < 2; i++ {
		outcome, err := s.service.SendReminderNotification(context.Background(), b, u, set, false)
		s.NoError(err)
		s.Equal(types.OutcomeSent, outcome)
	}
	s.Equal(2, s.GetGateway().SendCount())
}

func (s *NotificationServiceSuite) TestReceiptUsesPaymentDetails() {
	b, u := s.seedBill()
	set := s.settings()

	paidAt := time.Date(2026, time.March, 12, 14, 0, 0, 0, s.params.Config.Location())
	p := &payment.Payment{
		BillID:      b.ID,
		Amount:      50000,
		Method:      types.PaymentMethodMidtrans,
		PaymentType: "gopay",
		PaidAt:      paidAt,
	}
	s.NoError(s.params.PaymentRepo.Create(context.Background(), p))

	outcome, err := s.service.SendReceiptNotification(context.Background(), b, u, set, p, false)
	s.NoError(err)
	s.Equal(types.OutcomeSent, outcome)

	sent := s.GetGateway().Sent()
	s.Require().Len(sent, 1)
	s.Equal("Pembayaran Budi via GoPay diterima 12 Maret 2026.", sent[0].Message)
}

func (s *NotificationServiceSuite) TestGatewayFailureIsLoggedAsFailed() {
	b, u := s.seedBill()
	set := s.settings()

	s.GetGateway().FailSends(ierr.NewError("gateway down").Mark(ierr.ErrHTTPClient))

	_, err := s.service.SendBillNotification(context.Background(), b, u, set, false)
	s.Error(err)

	logs, lerr := s.params.MessageLogRepo.List(context.Background(), messagelog.Filter{})
	s.NoError(lerr)
	s.Require().Len(logs, 1)
	s.Equal(types.MessageStatusFailed, logs[0].Status)
	s.Nil(logs[0].WAMessageID)
}
