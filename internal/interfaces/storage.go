// Package interfaces defines service contracts for tickerd
package interfaces

import (
	"context"

	"github.com/ryanchou-dev/tickerd/internal/models"
)

// StorageManager coordinates storage backends
type StorageManager interface {
	TickerStore() TickerStore

	// Lifecycle
	Close() error
}

// TickerStore persists canonical ticker records keyed by their
// composite natural key.
type TickerStore interface {
	// UpsertTicker merges the record's non-nil fields into the record
	// identified by its composite key, creating it when absent. Fields
	// absent from the update are left untouched.
	UpsertTicker(ctx context.Context, ticker *models.Ticker) error

	// FindTickers returns records at or before filter.Date matching the
	// filter's optional fields.
	FindTickers(ctx context.Context, filter models.TickerFilter, opts models.FindOptions) ([]*models.Ticker, error)

	// ListDates returns distinct trading dates matching the filter,
	// most recent first, at most limit entries.
	ListDates(ctx context.Context, filter models.TickerFilter, limit int) ([]string, error)

	Close() error
}
