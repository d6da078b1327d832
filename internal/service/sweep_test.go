package service

import (
	"context"
	"testing"
	"time"

	"github.com/netbill/netbill/internal/domain/bill"
	"github.com/netbill/netbill/internal/domain/messagelog"
	"github.com/netbill/netbill/internal/domain/payment"
	"github.com/netbill/netbill/internal/domain/user"
	"github.com/netbill/netbill/internal/testutil"
	"github.com/netbill/netbill/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestIsReminderDay(t *testing.T) {
	tests := []struct {
		name     string
		day      int
		dueDay   int
		interval int
		lastDay  int
		expected bool
	}{
		{"before due day", 9, 10, 3, 31, false},
		{"on due day", 10, 10, 3, 31, true},
		{"one day after", 11, 10, 3, 31, false},
		{"two days after", 12, 10, 3, 31, false},
		{"first interval", 13, 10, 3, 31, true},
		{"second interval", 16, 10, 3, 31, true},
		{"third interval", 19, 10, 3, 31, true},
		{"off interval", 20, 10, 3, 31, false},
		{"due day 31 in 30 day month", 30, 31, 3, 30, true},
		{"due day 31 in 30 day month before end", 29, 31, 3, 30, false},
		{"due day 30 in february", 28, 30, 3, 28, true},
		{"interval one fires daily after due", 14, 10, 1, 31, true},
		{"zero interval falls back to default", 13, 10, 0, 31, true},
		{"first of month with due day 1", 1, 1, 3, 31, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsReminderDay(tt.day, tt.dueDay, tt.interval, tt.lastDay))
		})
	}
}

type SweepServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  *sweepService
	notifier *notificationService
	params   ServiceParams

	now time.Time
}

func TestSweepService(t *testing.T) {
	suite.Run(t, new(SweepServiceSuite))
}

func (s *SweepServiceSuite) SetupTest() {
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

	// daytime on the global due day
	s.now = time.Date(2026, time.March, 10, 9, 0, 0, 0, s.params.Config.Location())

	s.notifier = NewNotificationService(s.params).(*notificationService)
	s.notifier.now = func() time.Time { return s.now }
	s.notifier.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	s.notifier.delay = func() time.Duration { return 0 }

	s.service = NewSweepService(s.params, s.notifier).(*sweepService)
	s.service.now = func() time.Time { return s.now }
}

func (s *SweepServiceSuite) enableAll() {
	set, err := s.params.SettingsRepo.Get(context.Background())
	s.NoError(err)
	set.WAEnabled = true
	set.AutoNotifyNewBill = true
	set.AutoNotifyPaymentSuccess = true
	set.AutoReminderEnabled = true
	set.MonthlyFee = 50000
	set.BillTemplate = "Tagihan {month} untuk {name}"
	set.PaymentTemplate = "Pembayaran {name} diterima"
	set.ReminderTemplate = "Ingat {name}"
	s.NoError(s.params.SettingsRepo.Update(context.Background(), set))
}

func (s *SweepServiceSuite) seedUserWithBill(name, phone string, status types.BillStatus) (*user.User, *bill.Bill) {
	u := &user.User{Name: name, WhatsApp: phone, Status: types.UserStatusActive, ReminderEnabled: true}
	s.NoError(s.params.UserRepo.Create(context.Background(), u))

	b := &bill.Bill{
		UserID:       u.ID,
		Month:        3,
		Year:         2026,
		Amount:       50000,
		Status:       status,
		PaymentToken: "tok-" + phone,
		CreatedAt:    s.now.AddDate(0, 0, -9),
	}
	s.NoError(s.params.BillRepo.Create(context.Background(), b))
	return u, b
}

func (s *SweepServiceSuite) TestReminderSweepSendsOnDueDay() {
	s.enableAll()
	s.seedUserWithBill("Budi", "62811", types.BillStatusUnpaid)
	s.seedUserWithBill("Ani", "62812", types.BillStatusPaid)

	s.NoError(s.service.ReminderSweep(context.Background()))

	sent := s.GetGateway().Sent()
	s.Require().Len(sent, 1)
	s.Equal("62811", sent[0].Phone)
	s.Equal("Ingat Budi", sent[0].Message)
}

func (s *SweepServiceSuite) TestReminderSweepSkipsOffDays() {
	s.enableAll()
	s.seedUserWithBill("Budi", "62811", types.BillStatusUnpaid)

	s.now = time.Date(2026, time.March, 11, 9, 0, 0, 0, s.params.Config.Location())
	s.NoError(s.service.ReminderSweep(context.Background()))
	s.Zero(s.GetGateway().SendCount())

	// next interval day fires again
	s.now = time.Date(2026, time.March, 13, 9, 0, 0, 0, s.params.Config.Location())
	s.NoError(s.service.ReminderSweep(context.Background()))
	s.Equal(1, s.GetGateway().SendCount())
}

func (s *SweepServiceSuite) TestReminderSweepHonorsUserOverrides() {
	s.enableAll()
	u, _ := s.seedUserWithBill("Budi", "62811", types.BillStatusUnpaid)
	u.DueDay = lo.ToPtr(15)
	s.NoError(s.params.UserRepo.Update(context.Background(), u))

	// global due day, but this user is due on the 15th
	s.NoError(s.service.ReminderSweep(context.Background()))
	s.Zero(s.GetGateway().SendCount())

	s.now = time.Date(2026, time.March, 15, 9, 0, 0, 0, s.params.Config.Location())
	s.NoError(s.service.ReminderSweep(context.Background()))
	s.Equal(1, s.GetGateway().SendCount())
}

func (s *SweepServiceSuite) TestReminderSweepSkipsOptedOutUser() {
	s.enableAll()
	u, _ := s.seedUserWithBill("Budi", "62811", types.BillStatusUnpaid)
	u.ReminderEnabled = false
	s.NoError(s.params.UserRepo.Update(context.Background(), u))

	s.NoError(s.service.ReminderSweep(context.Background()))
	s.Zero(s.GetGateway().SendCount())
}

func (s *SweepServiceSuite) TestReminderSweepDisabledByToggle() {
	s.enableAll()
	set, err := s.params.SettingsRepo.Get(context.Background())
	s.NoError(err)
	set.AutoReminderEnabled = false
	s.NoError(s.params.SettingsRepo.Update(context.Background(), set))

	s.seedUserWithBill("Budi", "62811", types.BillStatusUnpaid)

	s.NoError(s.service.ReminderSweep(context.Background()))
	s.Zero(s.GetGateway().SendCount())
}

func (s *SweepServiceSuite) TestAutoBillSweepNotifiesOnce() {
	s.enableAll()
	s.seedUserWithBill("Budi", "62811", types.BillStatusUnpaid)
	s.seedUserWithBill("Ani", "62812", types.BillStatusUnpaid)

	s.NoError(s.service.AutoBillSweep(context.Background()))
	s.Equal(2, s.GetGateway().SendCount())

	// second pass is silenced by the dedup guard
	s.NoError(s.service.AutoBillSweep(context.Background()))
	s.Equal(2, s.GetGateway().SendCount())
}

func (s *SweepServiceSuite) TestRetryHeldSweepSkippedDuringQuietHours() {
	s.enableAll()
	s.seedUserWithBill("Budi", "62811", types.BillStatusUnpaid)

	s.now = time.Date(2026, time.March, 10, 22, 30, 0, 0, s.params.Config.Location())
	s.NoError(s.service.RetryHeldSweep(context.Background()))
	s.Zero(s.GetGateway().SendCount())
}

func (s *SweepServiceSuite) TestRetryHeldSweepSendsMissedReceipts() {
	s.enableAll()
	u, b := s.seedUserWithBill("Budi", "62811", types.BillStatusPaid)
	s.NoError(s.params.PaymentRepo.Create(context.Background(), &payment.Payment{
		BillID: b.ID,
		Amount: 50000,
		Method: types.PaymentMethodCash,
		PaidAt: s.now.AddDate(0, 0, -1),
	}))

	s.NoError(s.service.RetryHeldSweep(context.Background()))

	sent := s.GetGateway().Sent()
	s.Require().Len(sent, 1)
	s.Equal(u.WhatsApp, sent[0].Phone)
	s.Equal("Pembayaran Budi diterima", sent[0].Message)

	// already-receipted bills stay quiet on the next pass
	s.NoError(s.service.RetryHeldSweep(context.Background()))
	s.Equal(1, s.GetGateway().SendCount())
}

func (s *SweepServiceSuite) TestRetryHeldSweepAlsoRetriesUnnotifiedBills() {
	s.enableAll()
	s.seedUserWithBill("Budi", "62811", types.BillStatusUnpaid)

	s.NoError(s.service.RetryHeldSweep(context.Background()))
	s.Equal(1, s.GetGateway().SendCount())
}

func (s *SweepServiceSuite) TestStatusSyncAppliesTransitions() {
	s.enableAll()
	u, b := s.seedUserWithBill("Budi", "62811", types.BillStatusUnpaid)

	row := &messagelog.MessageLog{
		Recipient:   u.WhatsApp,
		UserID:      lo.ToPtr(u.ID),
		BillID:      lo.ToPtr(b.ID),
		Message:     "Tagihan Maret untuk Budi",
		Kind:        types.NotificationKindBill,
		Status:      types.MessageStatusSent,
		WAMessageID: lo.ToPtr("wa-1"),
	}
	s.NoError(s.params.MessageLogRepo.Create(context.Background(), row))
	s.GetGateway().SetStatus("wa-1", "DELIVERED")

	s.NoError(s.service.StatusSyncSweep(context.Background()))

	logs, err := s.params.MessageLogRepo.List(context.Background(), messagelog.Filter{})
	s.NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(types.MessageStatusDelivered, logs[0].Status)
}

func (s *SweepServiceSuite) TestStatusSyncIgnoresUnknown() {
	s.enableAll()
	u, b := s.seedUserWithBill("Budi", "62811", types.BillStatusUnpaid)

	row := &messagelog.MessageLog{
		Recipient:   u.WhatsApp,
		UserID:      lo.ToPtr(u.ID),
		BillID:      lo.ToPtr(b.ID),
		Message:     "Tagihan Maret untuk Budi",
		Kind:        types.NotificationKindBill,
		Status:      types.MessageStatusSent,
		WAMessageID: lo.ToPtr("wa-2"),
	}
	s.NoError(s.params.MessageLogRepo.Create(context.Background(), row))

	s.NoError(s.service.StatusSyncSweep(context.Background()))

	logs, err := s.params.MessageLogRepo.List(context.Background(), messagelog.Filter{})
	s.NoError(err)
	s.Require().Len(logs, 1)
	s.Equal(types.MessageStatusSent, logs[0].Status)
}
