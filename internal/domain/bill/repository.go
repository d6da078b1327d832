package bill

import (
	"context"
	"time"

	"github.com/netbill/netbill/internal/types"
)

// Repository defines persistence operations for bills.
type Repository interface {
	// Create inserts a single bill.
	Create(ctx context.Context, b *Bill) error

	// CreateBulk inserts all given bills atomically; a failure on any row
	// leaves none of them persisted.
	CreateBulk(ctx context.Context, bills []*Bill) error

	// Get retrieves a bill by ID.
	Get(ctx context.Context, id int64) (*Bill, error)

	// ListByPeriod returns every bill for a (month, year) period.
	ListByPeriod(ctx context.Context, period Period) ([]*Bill, error)

	// ListByStatus returns every bill with the given status.
	ListByStatus(ctx context.Context, status types.BillStatus) ([]*Bill, error)

	// MarkPaid transitions a bill to PAID with the given paid timestamp.
	MarkPaid(ctx context.Context, id int64, paidAt time.Time) error
}
