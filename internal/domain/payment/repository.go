package payment

import "context"

// Repository defines persistence operations for payments.
type Repository interface {
	// Create inserts a payment row.
	Create(ctx context.Context, p *Payment) error

	// GetLatestByBill returns the most recent payment for a bill, or nil
	// when the bill has none.
	GetLatestByBill(ctx context.Context, billID int64) (*Payment, error)
}
