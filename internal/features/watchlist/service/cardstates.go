package service

import (
	"sync"

	"courier-watchlist/internal/features/watchlist/domain"
)

// CardStates holds the transient per-item card state keyed by item id.
// It is the authoritative source for "is this card still checking":
// the view projects it, never the other way around. Transitions arrive
// from concurrent per-item refresh tasks, so access is synchronized.
type CardStates struct {
	mu     sync.RWMutex
	states map[int64]domain.CardState
}

// NewCardStates creates an empty state store.
func NewCardStates() *CardStates {
	return &CardStates{states: make(map[int64]domain.CardState)}
}

// Get returns the state for an item; unknown ids are idle.
func (c *CardStates) Get(id int64) domain.CardState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if state, ok := c.states[id]; ok {
		return state
	}
	return domain.CardIdle
}

// Begin moves a card into checking when a refresh is issued for it.
// Returns false without transitioning when the card is already
// checking, which is what disables a card's action while in flight.
func (c *CardStates) Begin(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.states[id] == domain.CardChecking {
		return false
	}
	c.states[id] = domain.CardChecking
	return true
}

// Settle moves a checking card to its settled state. A settle for a
// card that is not checking (for example, one removed by a re-render
// that happened mid-flight) is a silent no-op.
func (c *CardStates) Settle(id int64, success bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.states[id] != domain.CardChecking {
		return false
	}
	if success {
		c.states[id] = domain.CardSettledSuccess
	} else {
		c.states[id] = domain.CardSettledError
	}
	return true
}

// ClearFlash returns a settled card to idle once its flash window has
// elapsed. Checking cards are untouched.
func (c *CardStates) ClearFlash(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state := c.states[id]; state == domain.CardSettledSuccess || state == domain.CardSettledError {
		c.states[id] = domain.CardIdle
	}
}

// Rebuild recomputes the store for a fresh render of the given ids.
// Every card starts idle except ones still checking, which must
// survive a re-render triggered by a sibling's completion. Ids no
// longer rendered are dropped, so a late settle for them is a no-op.
func (c *CardStates) Rebuild(ids []int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[int64]domain.CardState, len(ids))
	for _, id := range ids {
		if c.states[id] == domain.CardChecking {
			next[id] = domain.CardChecking
		} else {
			next[id] = domain.CardIdle
		}
	}
	c.states = next
}

// CheckingCount returns how many cards are currently in flight.
func (c *CardStates) CheckingCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, state := range c.states {
		if state == domain.CardChecking {
			count++
		}
	}
	return count
}
