package messagelog

import (
	"context"

	"github.com/netbill/netbill/internal/types"
)

// Filter narrows List queries. Zero values mean "no constraint".
type Filter struct {
	Kind   types.NotificationKind
	Status types.MessageStatus
	UserID int64
	BillID int64
	Limit  int
	Offset int
}

// Repository defines persistence operations for message logs.
type Repository interface {
	// Create appends a log row.
	Create(ctx context.Context, log *MessageLog) error

	// HasSuccessful reports whether a (kind, bill) pair already has a log
	// row in a successful delivery state. This is the dedup guard.
	HasSuccessful(ctx context.Context, kind types.NotificationKind, billID int64) (bool, error)

	// List returns log rows matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*MessageLog, error)

	// ListPendingStatus returns recent rows still awaiting a terminal
	// delivery status (SENT or DELIVERED with a gateway message ID).
	ListPendingStatus(ctx context.Context, limit int) ([]*MessageLog, error)

	// UpdateStatus applies a delivery-status transition to one row.
	UpdateStatus(ctx context.Context, id int64, status types.MessageStatus) error
}
