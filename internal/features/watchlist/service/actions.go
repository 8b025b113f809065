package service

import (
	"context"
	"fmt"

	"courier-watchlist/internal/features/watchlist/domain"
)

// CheckOne refreshes a single tracked item, driving its card through
// checking to a settled state, and then reconciles the list. A card
// that is already checking rejects the request rather than firing a
// duplicate.
func (o *Orchestrator) CheckOne(ctx context.Context, id int64) (*domain.CheckResult, error) {
	if !o.cards.Begin(id) {
		return nil, ErrCheckInFlight
	}

	result, err := o.api.CheckTracked(ctx, id)
	success := err == nil && !result.Failed()
	o.cards.Settle(id, success)
	o.emit(Event{Kind: EventItemSettled, ItemID: id, Result: result, Err: err})

	if _, fetchErr := o.store.Refetch(ctx); fetchErr != nil && err == nil {
		err = fmt.Errorf("reconciling fetch after check: %w", fetchErr)
	}
	return result, err
}

// Add registers a new watchlist entry and reconciles the list. A
// failed add leaves the view untouched.
func (o *Orchestrator) Add(ctx context.Context, req domain.AddRequest) (*domain.TrackedItem, error) {
	item, err := o.api.AddTracked(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := o.store.Refetch(ctx); err != nil {
		return item, fmt.Errorf("reconciling fetch after add: %w", err)
	}
	return item, nil
}

// Delete removes a watchlist entry and reconciles the list.
func (o *Orchestrator) Delete(ctx context.Context, id int64) error {
	if err := o.api.DeleteTracked(ctx, id); err != nil {
		return err
	}
	if _, err := o.store.Refetch(ctx); err != nil {
		return fmt.Errorf("reconciling fetch after delete: %w", err)
	}
	return nil
}

// SetLabel updates an entry's label and reconciles the list.
func (o *Orchestrator) SetLabel(ctx context.Context, id int64, label string) error {
	if err := o.api.UpdateLabel(ctx, id, label); err != nil {
		return err
	}
	if _, err := o.store.Refetch(ctx); err != nil {
		return fmt.Errorf("reconciling fetch after label update: %w", err)
	}
	return nil
}
