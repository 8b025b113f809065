package domain

// CardState is the transient per-item UI state driven by refresh calls.
// It is never persisted: a full re-render recomputes every card from
// its last_result, so all cards start idle except those still checking.
type CardState string

const (
	// CardIdle is the resting state every rendered card starts in.
	CardIdle CardState = "idle"
	// CardChecking means a refresh request for this item is in flight.
	CardChecking CardState = "checking"
	// CardSettledSuccess is the brief post-refresh state after a
	// successful check, shown as a success flash.
	CardSettledSuccess CardState = "settled-success"
	// CardSettledError is the brief post-refresh state after a failed
	// check (network failure or error payload), shown as an error flash.
	CardSettledError CardState = "settled-error"
)
