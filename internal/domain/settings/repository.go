package settings

import "context"

// Repository defines persistence operations for the singleton settings row.
type Repository interface {
	// Get returns the settings row, creating the default row if none exists.
	Get(ctx context.Context) (*Settings, error)

	// Update replaces the settings row.
	Update(ctx context.Context, s *Settings) error
}
