package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"courier-watchlist/internal/core/logger"
	"courier-watchlist/internal/features/status/domain"

	"go.uber.org/zap"
)

// KeywordSource provides the server-side keyword table.
type KeywordSource interface {
	// StatusKeywords fetches the current keyword table from the backend.
	StatusKeywords(ctx context.Context) (domain.KeywordTable, error)
}

// Registry holds the process-wide keyword table and classifies status
// strings against it. The table is seeded with built-in defaults and
// may be replaced wholesale at most once per process by a
// server-provided table; classification reads are lock-free.
type Registry struct {
	table  atomic.Pointer[domain.KeywordTable]
	synced atomic.Bool
}

// NewRegistry creates a Registry seeded with the built-in defaults.
func NewRegistry() *Registry {
	r := &Registry{}
	defaults := domain.DefaultKeywords()
	r.table.Store(&defaults)
	return r
}

// Get returns the current keyword table.
func (r *Registry) Get() domain.KeywordTable {
	return *r.table.Load()
}

// Replace swaps in a new table atomically. There is no partial merge:
// the new table fully supersedes the old one.
func (r *Registry) Replace(table domain.KeywordTable) {
	r.table.Store(&table)
}

// SyncOnce attempts the single allowed runtime replacement from the
// backend. Repeat and concurrent calls are no-ops. A failed fetch is
// deliberately non-fatal: classification simply continues on the
// current table, and the caller must not let the error block rendering.
func (r *Registry) SyncOnce(ctx context.Context, source KeywordSource) error {
	if !r.synced.CompareAndSwap(false, true) {
		return nil
	}

	table, err := source.StatusKeywords(ctx)
	if err != nil {
		logger.Get().Debug("Keyword table sync failed, keeping defaults", zap.Error(err))
		return fmt.Errorf("failed to sync keyword table: %w", err)
	}
	if table.Empty() {
		logger.Get().Debug("Keyword table sync returned empty table, keeping defaults")
		return nil
	}

	r.Replace(table)
	logger.Get().Debug("Keyword table replaced from server",
		zap.Int("delivered_keywords", len(table.Delivered)),
		zap.Int("error_keywords", len(table.Error)),
	)
	return nil
}

// Classify maps a free-text status or error string to a category.
// Matching is case-insensitive substring; delivered keywords win over
// error keywords when both match. Empty input is CategoryOther.
func (r *Registry) Classify(status string) domain.Category {
	if status == "" {
		return domain.CategoryOther
	}

	s := strings.ToLower(status)
	table := r.table.Load()

	for _, k := range table.Delivered {
		if strings.Contains(s, strings.ToLower(k)) {
			return domain.CategoryDelivered
		}
	}
	for _, k := range table.Error {
		if strings.Contains(s, strings.ToLower(k)) {
			return domain.CategoryError
		}
	}
	return domain.CategoryOther
}
