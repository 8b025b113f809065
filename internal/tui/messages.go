package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"courier-watchlist/internal/features/watchlist/domain"
	watchservice "courier-watchlist/internal/features/watchlist/service"
)

// listLoadedMsg carries the result of an asynchronous list fetch.
type listLoadedMsg struct {
	items []domain.TrackedItem
	query domain.Query
	err   error
}

// orchestratorEventMsg wraps an orchestrator Event for delivery through
// the bubbletea message loop.
type orchestratorEventMsg struct {
	event watchservice.Event
}

// bulkDoneMsg is sent when a bulk update has fully settled and the
// reconciling fetch completed (or failed).
type bulkDoneMsg struct {
	count int
	err   error
}

// checkDoneMsg is sent when a single-item check completes.
type checkDoneMsg struct {
	id  int64
	err error
}

// mutationDoneMsg is sent when a delete or label update completes.
type mutationDoneMsg struct {
	err error
}

// keywordsSyncedMsg is sent after the one-shot keyword table sync.
type keywordsSyncedMsg struct {
	err error
}

// searchDebounceMsg fires after the typing pause. Stale generations are
// dropped so only the last keystroke's timer triggers a fetch.
type searchDebounceMsg struct {
	generation int
}

// flashClearMsg resets one card's settled flash back to idle.
type flashClearMsg struct {
	id int64
}

// noticeFadeMsg clears the transient status bar notice.
type noticeFadeMsg struct{}

const (
	// searchDebounceDelay is the typing pause before a search fetch.
	searchDebounceDelay = 250 * time.Millisecond

	// flashClearDelay is how long a settled card keeps its flash accent.
	flashClearDelay = 1500 * time.Millisecond

	// noticeFadeDelay is how long a status bar notice stays visible.
	noticeFadeDelay = 3 * time.Second
)

// listenForEvent returns a tea.Cmd that blocks until an orchestrator
// event arrives, then delivers it as an orchestratorEventMsg.
func listenForEvent(channel <-chan watchservice.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-channel
		if !ok {
			return nil
		}
		return orchestratorEventMsg{event: event}
	}
}
