package service

import (
	"context"
	"fmt"
	"sync"

	"courier-watchlist/internal/features/watchlist/domain"
	"courier-watchlist/internal/features/watchlist/ports"
)

// ListStore is the single source of truth for the rendered tracked
// list. Every successful fetch replaces the snapshot wholesale; the
// view never patches an item's persisted fields locally. On a failed
// fetch the previous snapshot stays in place so the caller can keep the
// last good render.
type ListStore struct {
	api ports.BackendAPI

	mu    sync.RWMutex
	items []domain.TrackedItem
	query domain.Query
}

// NewListStore creates a store bound to the backend. The initial query
// is the default sort until the first explicit Fetch.
func NewListStore(api ports.BackendAPI) *ListStore {
	return &ListStore{
		api:   api,
		query: domain.DefaultQuery(),
	}
}

// Fetch retrieves the list for the query and replaces the snapshot.
// The returned slice is in server-provided order. On failure the
// snapshot is left untouched and the error is returned for the caller
// to degrade on.
func (s *ListStore) Fetch(ctx context.Context, query domain.Query) ([]domain.TrackedItem, error) {
	items, err := s.api.ListTracked(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list fetch failed: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.query = query
	s.mu.Unlock()

	return s.Items(), nil
}

// Refetch re-runs the most recent query. This is the reconciling fetch
// issued after every mutation.
func (s *ListStore) Refetch(ctx context.Context) ([]domain.TrackedItem, error) {
	return s.Fetch(ctx, s.Query())
}

// Items returns a copy of the current snapshot.
func (s *ListStore) Items() []domain.TrackedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.TrackedItem, len(s.items))
	copy(items, s.items)
	return items
}

// Query returns the query behind the current snapshot.
func (s *ListStore) Query() domain.Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}
