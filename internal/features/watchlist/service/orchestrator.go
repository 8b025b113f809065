package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"courier-watchlist/internal/core/logger"
	statusdomain "courier-watchlist/internal/features/status/domain"
	statusservice "courier-watchlist/internal/features/status/service"
	"courier-watchlist/internal/features/watchlist/domain"
	"courier-watchlist/internal/features/watchlist/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUpdateInFlight is returned when a bulk update is requested
	// while a previous one has not settled yet.
	ErrUpdateInFlight = errors.New("bulk update already in flight")
	// ErrCheckInFlight is returned when a single check is requested for
	// a card that is already checking.
	ErrCheckInFlight = errors.New("check already in flight for this item")
)

// EventKind discriminates orchestrator notifications.
type EventKind int

const (
	// EventItemSettled fires the moment one item's refresh resolves,
	// independent of its batch siblings.
	EventItemSettled EventKind = iota
	// EventBatchSettled fires once after every request of a bulk
	// update has settled, before the reconciling fetch.
	EventBatchSettled
)

// Event is a UI notification from the orchestrator. The view layer
// consumes these instead of being called into directly.
type Event struct {
	Kind   EventKind
	ItemID int64
	// Result is the fresh snapshot for item events; nil when the
	// request failed at the transport level.
	Result *domain.CheckResult
	Err    error
	// Updated and Total describe a settled batch.
	Updated int
	Total   int
}

// Orchestrator coordinates refresh fan-outs against the backend and
// drives card state transitions. All mutations funnel through it so
// that each one is followed by exactly one reconciling list fetch.
type Orchestrator struct {
	api      ports.BackendAPI
	store    *ListStore
	cards    *CardStates
	registry *statusservice.Registry
	notify   func(Event)
	logger   *zap.Logger

	running atomic.Bool
}

// NewOrchestrator wires the orchestrator. notify may be nil for
// headless use; when set it is invoked from the goroutine that observed
// the event, so handlers must be safe to call concurrently.
func NewOrchestrator(api ports.BackendAPI, store *ListStore, cards *CardStates, registry *statusservice.Registry, notify func(Event)) *Orchestrator {
	return &Orchestrator{
		api:      api,
		store:    store,
		cards:    cards,
		registry: registry,
		notify:   notify,
		logger:   logger.Get(),
	}
}

// Running reports whether a bulk update is currently in flight. The
// view uses this to keep the trigger control inert.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

func (o *Orchestrator) emit(event Event) {
	if o.notify != nil {
		o.notify(event)
	}
}

// Eligible returns the items a bulk update would refresh: everything
// whose classified status is not delivered. Never-checked items have an
// empty status and classify as other, so they are included.
func (o *Orchestrator) Eligible(items []domain.TrackedItem) []domain.TrackedItem {
	var eligible []domain.TrackedItem
	for _, item := range items {
		if o.registry.Classify(item.StatusText()) != statusdomain.CategoryDelivered {
			eligible = append(eligible, item)
		}
	}
	return eligible
}

// RunBulkUpdate refreshes every eligible item concurrently and returns
// the number that settled without error. Per-item failures are isolated:
// they settle their own card as an error and never touch siblings. After
// all requests have settled the one reconciling list fetch runs; its
// failure is reported alongside the count, not instead of it.
//
// Re-entrant invocation while a batch is in flight fails fast with
// ErrUpdateInFlight.
func (o *Orchestrator) RunBulkUpdate(ctx context.Context) (int, error) {
	if !o.running.CompareAndSwap(false, true) {
		return 0, ErrUpdateInFlight
	}
	defer o.running.Store(false)

	// Snapshot the currently rendered set; items added or removed
	// after this point belong to the next batch.
	eligible := o.Eligible(o.store.Items())

	// Every eligible card shows its busy state before the first
	// request fires.
	for _, item := range eligible {
		o.cards.Begin(item.ID)
	}

	o.logger.Debug("Bulk update starting", zap.Int("eligible", len(eligible)))

	var updated atomic.Int64
	group := new(errgroup.Group)

	for _, item := range eligible {
		item := item
		group.Go(func() error {
			result, err := o.api.CheckTracked(ctx, item.ID)
			success := err == nil && !result.Failed()
			if success {
				updated.Add(1)
			} else {
				o.logger.Warn("Item refresh failed",
					zap.Int64("item_id", item.ID),
					zap.String("tracking", item.Tracking),
					zap.Error(err),
				)
			}

			// This card settles the instant its own response arrives.
			o.cards.Settle(item.ID, success)
			o.emit(Event{Kind: EventItemSettled, ItemID: item.ID, Result: result, Err: err})

			// Failures are captured per card, never returned: one bad
			// item must not abort the group.
			return nil
		})
	}

	// Join barrier: the reconciling fetch is ordered after every fired
	// request has settled, not after the first.
	group.Wait()

	count := int(updated.Load())
	o.emit(Event{Kind: EventBatchSettled, Updated: count, Total: len(eligible)})

	o.logger.Info("Bulk update settled",
		zap.Int("updated", count),
		zap.Int("total", len(eligible)),
	)

	if _, err := o.store.Refetch(ctx); err != nil {
		return count, fmt.Errorf("reconciling fetch after bulk update: %w", err)
	}
	return count, nil
}
