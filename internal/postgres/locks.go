package postgres

import (
	"context"

	ierr "github.com/netbill/netbill/internal/errors"
	"gorm.io/gorm"
)

// BillGenerationLockKey serializes monthly bill generation across replicas.
const BillGenerationLockKey = "bill_generation"

// TryAdvisoryLock attempts a transaction-scoped advisory lock and reports
// whether it was acquired. The lock releases automatically on commit or
// rollback. Must be called inside WithTx.
func (c *Client) TryAdvisoryLock(ctx context.Context, key string) (bool, error) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok {
		return false, ierr.NewError("advisory lock requires a transaction").
			Mark(ierr.ErrInternal)
	}

	var acquired bool
	if err := tx.WithContext(ctx).
		Raw("SELECT pg_try_advisory_xact_lock(hashtext(?))", key).
		Scan(&acquired).Error; err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to acquire advisory lock").
			WithReportableDetails(map[string]interface{}{"key": key}).
			Mark(ierr.ErrDatabase)
	}
	return acquired, nil
}
