package postgres

import (
	"context"
	"errors"
	"time"

	domainBill "github.com/netbill/netbill/internal/domain/bill"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/logger"
	"github.com/netbill/netbill/internal/postgres"
	"github.com/netbill/netbill/internal/types"
	"gorm.io/gorm"
)

type billRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewBillRepository creates a new bill repository.
func NewBillRepository(client postgres.IClient, logger *logger.Logger) domainBill.Repository {
	return &billRepository{client: client, logger: logger}
}

func (r *billRepository) Create(ctx context.Context, b *domainBill.Bill) error {
	if err := b.Validate(); err != nil {
		return err
	}

	r.logger.Debugw("creating bill", "user_id", b.UserID, "month", b.Month, "year", b.Year)

	if err := r.client.Querier(ctx).Create(b).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ierr.WithError(err).
				WithHint("A bill for this subscriber and period already exists").
				WithReportableDetails(map[string]interface{}{
					"user_id": b.UserID,
					"month":   b.Month,
					"year":    b.Year,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create bill").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// CreateBulk inserts all bills inside one transaction so a mid-batch failure
// never leaves the period partially billed.
func (r *billRepository) CreateBulk(ctx context.Context, bills []*domainBill.Bill) error {
	if len(bills) == 0 {
		return nil
	}
	for _, b := range bills {
		if err := b.Validate(); err != nil {
			return err
		}
	}

	return r.client.WithTx(ctx, func(ctx context.Context) error {
		acquired, err := r.client.TryAdvisoryLock(ctx, postgres.BillGenerationLockKey)
		if err != nil {
			return err
		}
		if !acquired {
			return ierr.NewError("bill generation already in progress").
				WithHint("Another generation run holds the lock; retry shortly").
				Mark(ierr.ErrAlreadyExists)
		}

		if err := r.client.Querier(ctx).Create(bills).Error; err != nil {
			return ierr.WithError(err).
				WithHint("Failed to insert generated bills").
				WithReportableDetails(map[string]interface{}{"count": len(bills)}).
				Mark(ierr.ErrDatabase)
		}
		return nil
	})
}

func (r *billRepository) Get(ctx context.Context, id int64) (*domainBill.Bill, error) {
	var b domainBill.Bill
	err := r.client.Querier(ctx).First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewErrorf("bill %d not found", id).
				WithHint("Bill not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get bill").
			WithReportableDetails(map[string]interface{}{"id": id}).
			Mark(ierr.ErrDatabase)
	}
	return &b, nil
}

func (r *billRepository) ListByPeriod(ctx context.Context, period domainBill.Period) ([]*domainBill.Bill, error) {
	var bills []*domainBill.Bill
	err := r.client.Querier(ctx).
		Where("month = ? AND year = ?", period.Month, period.Year).
		Order("id").
		Find(&bills).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list bills for period").
			WithReportableDetails(map[string]interface{}{
				"month": period.Month,
				"year":  period.Year,
			}).
			Mark(ierr.ErrDatabase)
	}
	return bills, nil
}

func (r *billRepository) ListByStatus(ctx context.Context, status types.BillStatus) ([]*domainBill.Bill, error) {
	var bills []*domainBill.Bill
	err := r.client.Querier(ctx).
		Where("status = ?", status).
		Order("id").
		Find(&bills).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list bills by status").
			WithReportableDetails(map[string]interface{}{"status": status}).
			Mark(ierr.ErrDatabase)
	}
	return bills, nil
}

func (r *billRepository) MarkPaid(ctx context.Context, id int64, paidAt time.Time) error {
	result := r.client.Querier(ctx).Model(&domainBill.Bill{}).
		Where("id = ? AND status = ?", id, types.BillStatusUnpaid).
		Updates(map[string]interface{}{
			"status":  types.BillStatusPaid,
			"paid_at": paidAt,
		})
	if result.Error != nil {
		return ierr.WithError(result.Error).
			WithHint("Failed to mark bill paid").
			WithReportableDetails(map[string]interface{}{"id": id}).
			Mark(ierr.ErrDatabase)
	}
	if result.RowsAffected == 0 {
		return ierr.NewErrorf("bill %d not found or already paid", id).
			WithHint("Bill not found or already paid").
			Mark(ierr.ErrNotFound)
	}
	return nil
}
