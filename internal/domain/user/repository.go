package user

import "context"

// Repository defines persistence operations for subscribers.
type Repository interface {
	// Create inserts a new subscriber.
	Create(ctx context.Context, u *User) error

	// Get retrieves a subscriber by ID, including soft-deleted rows.
	Get(ctx context.Context, id int64) (*User, error)

	// ListActive returns all active, non-deleted subscribers.
	ListActive(ctx context.Context) ([]*User, error)

	// Update persists mutable subscriber fields.
	Update(ctx context.Context, u *User) error
}
