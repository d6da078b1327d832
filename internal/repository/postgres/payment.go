package postgres

import (
	"context"
	"errors"

	domainPayment "github.com/netbill/netbill/internal/domain/payment"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/postgres"
	"gorm.io/gorm"
)

type paymentRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewPaymentRepository creates a new payment repository.
func NewPaymentRepository(client postgres.IClient, logger *logger.Logger) domainPayment.Repository {
	return &paymentRepository{client: client, logger: logger}
}

func (r *paymentRepository) Create(ctx context.Context, p *domainPayment.Payment) error {
	r.logger.Debugw("creating payment", "bill_id", p.BillID, "method", p.Method)

	if err := r.client.Querier(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ierr.WithError(err).
				WithHint("A payment with this transaction id already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create payment").
			WithReportableDetails(map[string]interface{}{"bill_id": p.BillID}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) GetLatestByBill(ctx context.Context, billID int64) (*domainPayment.Payment, error) {
	var p domainPayment.Payment
	err := r.client.Querier(ctx).
		Where("bill_id = ?", billID).
		Order("paid_at DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A bill without a payment row is a normal state, not an error.
			return nil, nil
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get latest payment for bill").
			WithReportableDetails(map[string]interface{}{"bill_id": billID}).
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}
