package ports

import (
	"context"

	statusdomain "courier-watchlist/internal/features/status/domain"
	"courier-watchlist/internal/features/watchlist/domain"
)

// BackendAPI defines the watchlist backend contract the client consumes.
// The backend owns all persisted state; every call here crosses the
// network and is a suspension point.
type BackendAPI interface {
	// Track performs a one-off lookup of a tracking number without
	// persisting anything.
	Track(ctx context.Context, trackingNumber string) (*domain.CheckResult, error)

	// ListTracked fetches the current watchlist for the query. The
	// server owns ordering and filtering; items come back in
	// server-provided order.
	ListTracked(ctx context.Context, query domain.Query) ([]domain.TrackedItem, error)

	// AddTracked registers a new watchlist entry. Returns
	// domain.ErrAlreadyTracked when the number is already watched.
	AddTracked(ctx context.Context, req domain.AddRequest) (*domain.TrackedItem, error)

	// CheckTracked refreshes one tracked item and returns the new
	// resolution snapshot.
	CheckTracked(ctx context.Context, id int64) (*domain.CheckResult, error)

	// DeleteTracked removes a watchlist entry.
	DeleteTracked(ctx context.Context, id int64) error

	// UpdateLabel replaces the user label of a watchlist entry.
	UpdateLabel(ctx context.Context, id int64, label string) error

	// StatusKeywords fetches the server's keyword table.
	StatusKeywords(ctx context.Context) (statusdomain.KeywordTable, error)
}
