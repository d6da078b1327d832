package service

import (
	"github.com/netbill/netbill/internal/config"
	"github.com/netbill/netbill/internal/domain/bill"
	"github.com/netbill/netbill/internal/domain/messagelog"
	"github.com/netbill/netbill/internal/domain/payment"
	"github.com/netbill/netbill/internal/domain/settings"
	"github.com/netbill/netbill/internal/domain/user"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/postgres"
	"github.com/netbill/netbill/internal/whatsapp"
)

// ServiceParams bundles every dependency a service can need so constructors
// stay stable as services grow.
type ServiceParams struct {
	Logger  *logger.Logger
	Config  *config.Configuration
	DB      postgres.IClient
	Gateway whatsapp.Gateway

	UserRepo       user.Repository
	BillRepo       bill.Repository
	PaymentRepo    payment.Repository
	MessageLogRepo messagelog.Repository
	SettingsRepo   settings.Repository
}
