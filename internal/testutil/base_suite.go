package testutil

import (
	"github.com/netbill/netbill/internal/config"
	"github.com/netbill/netbill/internal/domain/bill"
	"github.com/netbill/netbill/internal/domain/messagelog"
	"github.com/netbill/netbill/internal/domain/payment"
	"github.com/netbill/netbill/internal/domain/settings"
	"github.com/netbill/netbill/internal/domain/user"
	"github.com/netbill/netbill/internal/logger"
	"github.com/stretchr/testify/suite"
)

// Stores groups the in-memory repositories handed to services under test.
type Stores struct {
	UserRepo       user.Repository
	BillRepo       bill.Repository
	PaymentRepo    payment.Repository
	MessageLogRepo messagelog.Repository
	SettingsRepo   settings.Repository

	Users       *InMemoryUserStore
	Bills       *InMemoryBillStore
	Payments    *InMemoryPaymentStore
	MessageLogs *InMemoryMessageLogStore
	Settings    *InMemorySettingsStore
}

// BaseServiceTestSuite wires fresh in-memory stores and a fake gateway for
// every test.
type BaseServiceTestSuite struct {
	suite.Suite

	stores  Stores
	gateway *FakeGateway
	logger  *logger.Logger
	config  *config.Configuration
}

func (s *BaseServiceTestSuite) SetupTest() {
	users := NewInMemoryUserStore()
	bills := NewInMemoryBillStore()
	payments := NewInMemoryPaymentStore()
	logs := NewInMemoryMessageLogStore()
	set := NewInMemorySettingsStore()

	s.stores = Stores{
		UserRepo:       users,
		BillRepo:       bills,
		PaymentRepo:    payments,
		MessageLogRepo: logs,
		SettingsRepo:   set,

		Users:       users,
		Bills:       bills,
		Payments:    payments,
		MessageLogs: logs,
		Settings:    set,
	}
	s.gateway = NewFakeGateway()
	s.logger = logger.NewNopLogger()
	s.config = config.GetDefaultConfig()
}

func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.Users.Clear()
	s.stores.Bills.Clear()
	s.stores.Payments.Clear()
	s.stores.MessageLogs.Clear()
	s.stores.Settings.Clear()
	s.gateway.Reset()
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetGateway() *FakeGateway {
	return s.gateway
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}
