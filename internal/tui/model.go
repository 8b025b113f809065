package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	statusservice "courier-watchlist/internal/features/status/service"
	"courier-watchlist/internal/features/watchlist/domain"
	"courier-watchlist/internal/features/watchlist/ports"
	watchservice "courier-watchlist/internal/features/watchlist/service"
)

// sortControls is the cycle order for the sort key. Each entry is a
// "field:order" control value.
var sortControls = []string{
	"first_event:desc",
	"first_event:asc",
	"created_at:desc",
	"created_at:asc",
	"last_checked:desc",
	"last_checked:asc",
}

// statusControls is the cycle order for the category filter. The empty
// entry means no filter.
var statusControls = []string{"", "other", "delivered", "error"}

// Config wires the model to the application services.
type Config struct {
	Backend      ports.BackendAPI
	Store        *watchservice.ListStore
	Cards        *watchservice.CardStates
	Registry     *statusservice.Registry
	Orchestrator *watchservice.Orchestrator

	// Events is the orchestrator notification channel; the model
	// re-renders cards as each one settles.
	Events <-chan watchservice.Event

	// UserID is shown in the header.
	UserID string
}

// Model is the top-level bubbletea model for the watchlist TUI.
type Model struct {
	backend  ports.BackendAPI
	store    *watchservice.ListStore
	cards    *watchservice.CardStates
	registry *statusservice.Registry
	orch     *watchservice.Orchestrator
	events   <-chan watchservice.Event
	userID   string

	theme Theme
	keys  KeyMap

	width  int
	height int
	ready  bool

	// items is the rendered snapshot, replaced wholesale on every
	// successful fetch.
	items        []domain.TrackedItem
	cursor       int
	scrollOffset int

	// Query controls. The effective query is rebuilt from these on
	// every fetch.
	sortIndex   int
	statusIndex int
	search      SearchModel

	// searchGeneration invalidates pending debounce timers: only the
	// timer started by the latest edit may fetch.
	searchGeneration int

	spinner     spinner.Model
	spinnerLive bool

	// Transient status bar notice.
	notice    string
	noticeErr bool

	// fetchErr is the degraded banner shown when the last fetch failed
	// and the list is a stale snapshot.
	fetchErr string
}

// NewModel creates the watchlist model. The first fetch and the
// one-shot keyword sync are issued from Init.
func NewModel(cfg Config) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = sp.Style.Foreground(DefaultTheme.Busy)

	return Model{
		backend:  cfg.Backend,
		store:    cfg.Store,
		cards:    cfg.Cards,
		registry: cfg.Registry,
		orch:     cfg.Orchestrator,
		events:   cfg.Events,
		userID:   cfg.UserID,
		theme:    DefaultTheme,
		keys:     DefaultKeyMap,
		spinner:  sp,
	}
}

// currentQuery rebuilds the effective query from the UI controls.
func (model Model) currentQuery() domain.Query {
	return domain.BuildQuery(
		sortControls[model.sortIndex],
		statusControls[model.statusIndex],
		model.search.Input,
	)
}

// Init implements tea.Model: fetch the initial list, start the event
// listener, and kick off the one-shot keyword table sync.
func (model Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		model.fetchList(model.currentQuery()),
		model.syncKeywords(),
	}
	if model.events != nil {
		cmds = append(cmds, listenForEvent(model.events))
	}
	return tea.Batch(cmds...)
}

func (model Model) fetchList(query domain.Query) tea.Cmd {
	return func() tea.Msg {
		items, err := model.store.Fetch(context.Background(), query)
		return listLoadedMsg{items: items, query: query, err: err}
	}
}

func (model Model) syncKeywords() tea.Cmd {
	return func() tea.Msg {
		return keywordsSyncedMsg{err: model.registry.SyncOnce(context.Background(), model.backend)}
	}
}

func (model Model) runBulkUpdate() tea.Cmd {
	return func() tea.Msg {
		count, err := model.orch.RunBulkUpdate(context.Background())
		return bulkDoneMsg{count: count, err: err}
	}
}

func (model Model) checkItem(id int64) tea.Cmd {
	return func() tea.Msg {
		_, err := model.orch.CheckOne(context.Background(), id)
		return checkDoneMsg{id: id, err: err}
	}
}

func (model Model) deleteItem(id int64) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{err: model.orch.Delete(context.Background(), id)}
	}
}

func noticeFade() tea.Cmd {
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{}
	})
}

func flashClear(id int64) tea.Cmd {
	return tea.Tick(flashClearDelay, func(time.Time) tea.Msg {
		return flashClearMsg{id: id}
	})
}

// setNotice replaces the status bar notice and arms its fade timer.
func (model *Model) setNotice(text string, isError bool) tea.Cmd {
	model.notice = text
	model.noticeErr = isError
	return noticeFade()
}

// startSpinner returns the spinner tick command if the spinner is not
// already running.
func (model *Model) startSpinner() tea.Cmd {
	if model.spinnerLive {
		return nil
	}
	model.spinnerLive = true
	return model.spinner.Tick
}

// replaceItems installs a fresh snapshot and reconciles card state with
// the new id set.
func (model *Model) replaceItems(items []domain.TrackedItem) {
	model.items = items
	model.fetchErr = ""

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	model.cards.Rebuild(ids)

	if model.cursor >= len(items) {
		model.cursor = len(items) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
	model.clampScroll()
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if model.search.Active {
			return model.handleSearchKeys(message)
		}
		return model.handleListKeys(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.clampScroll()
		return model, nil

	case listLoadedMsg:
		if message.err != nil {
			// Keep the stale snapshot on screen, show the degradation.
			model.fetchErr = fmt.Sprintf("list fetch failed: %v", message.err)
			return model, nil
		}
		model.replaceItems(message.items)
		return model, nil

	case orchestratorEventMsg:
		return model.handleOrchestratorEvent(message.event)

	case bulkDoneMsg:
		model.replaceItems(model.store.Items())
		var cmd tea.Cmd
		if message.err != nil {
			cmd = model.setNotice(fmt.Sprintf("update finished with %d refreshed; %v", message.count, message.err), true)
		} else {
			cmd = model.setNotice(fmt.Sprintf("%d shipment(s) refreshed", message.count), false)
		}
		return model, cmd

	case checkDoneMsg:
		if message.err != nil {
			cmd := model.setNotice(fmt.Sprintf("check failed: %v", message.err), true)
			return model, cmd
		}
		model.replaceItems(model.store.Items())
		return model, nil

	case mutationDoneMsg:
		if message.err != nil {
			cmd := model.setNotice(fmt.Sprintf("request failed: %v", message.err), true)
			return model, cmd
		}
		model.replaceItems(model.store.Items())
		return model, nil

	case keywordsSyncedMsg:
		// A failed sync keeps the built-in table; nothing to show.
		return model, nil

	case searchDebounceMsg:
		if message.generation != model.searchGeneration {
			return model, nil
		}
		return model, model.fetchList(model.currentQuery())

	case flashClearMsg:
		model.cards.ClearFlash(message.id)
		return model, nil

	case noticeFadeMsg:
		model.notice = ""
		return model, nil

	case spinner.TickMsg:
		if model.cards.CheckingCount() == 0 && !model.orch.Running() {
			model.spinnerLive = false
			return model, nil
		}
		var cmd tea.Cmd
		model.spinner, cmd = model.spinner.Update(message)
		return model, cmd
	}

	return model, nil
}

// handleOrchestratorEvent applies each settle to its own card the
// moment the response arrives and surfaces the batch tally. The
// listener is re-armed after every event.
func (model Model) handleOrchestratorEvent(event watchservice.Event) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if model.events != nil {
		cmds = append(cmds, listenForEvent(model.events))
	}

	switch event.Kind {
	case watchservice.EventItemSettled:
		model.applySettledResult(event.ItemID, event.Result)
		cmds = append(cmds, flashClear(event.ItemID))
	case watchservice.EventBatchSettled:
		// The tally notice comes with bulkDoneMsg; nothing extra here.
	}
	return model, tea.Batch(cmds...)
}

// applySettledResult patches the rendered card's fields from the fresh
// result without waiting for the batch-wide reconciling fetch, which
// still replaces the snapshot wholesale afterwards. An id that left the
// list, or a transport failure with no result, is a silent no-op.
func (model *Model) applySettledResult(id int64, result *domain.CheckResult) {
	if result == nil {
		return
	}
	for i := range model.items {
		if model.items[i].ID != id {
			continue
		}
		model.items[i].LastResult = result
		if result.Courier != "" {
			model.items[i].Courier = result.Courier
		}
		// The server records the authoritative last_checked; until the
		// reconciling fetch delivers it, show the local settle time.
		model.items[i].LastChecked = time.Now().Format("2006-01-02 15:04:05")
		return
	}
}

// handleListKeys processes keys while the card list has focus.
func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1)

	case key.Matches(message, model.keys.Down):
		model.moveCursor(1)

	case key.Matches(message, model.keys.PageUp):
		model.moveCursor(-model.visibleRows())

	case key.Matches(message, model.keys.PageDown):
		model.moveCursor(model.visibleRows())

	case key.Matches(message, model.keys.Home):
		model.cursor = 0
		model.clampScroll()

	case key.Matches(message, model.keys.End):
		model.cursor = len(model.items) - 1
		if model.cursor < 0 {
			model.cursor = 0
		}
		model.clampScroll()

	case key.Matches(message, model.keys.Check):
		if item, ok := model.selectedItem(); ok {
			cmd := tea.Batch(model.checkItem(item.ID), model.startSpinner())
			return model, cmd
		}

	case key.Matches(message, model.keys.Delete):
		if item, ok := model.selectedItem(); ok {
			return model, model.deleteItem(item.ID)
		}

	case key.Matches(message, model.keys.UpdateAll):
		if model.orch.Running() {
			cmd := model.setNotice("an update is already running", true)
			return model, cmd
		}
		eligible := len(model.orch.Eligible(model.items))
		if eligible == 0 {
			cmd := model.setNotice("nothing to update", false)
			return model, cmd
		}
		cmd := tea.Batch(model.runBulkUpdate(), model.startSpinner())
		return model, cmd

	case key.Matches(message, model.keys.Refresh):
		return model, model.fetchList(model.currentQuery())

	case key.Matches(message, model.keys.CycleSort):
		model.sortIndex = (model.sortIndex + 1) % len(sortControls)
		return model, model.fetchList(model.currentQuery())

	case key.Matches(message, model.keys.CycleFilter):
		model.statusIndex = (model.statusIndex + 1) % len(statusControls)
		return model, model.fetchList(model.currentQuery())

	case key.Matches(message, model.keys.SearchActivate):
		model.search.Active = true

	case key.Matches(message, model.keys.SearchClear):
		if model.search.Input != "" {
			model.search.Clear()
			return model, model.fetchList(model.currentQuery())
		}
	}

	return model, nil
}

// handleSearchKeys routes input to the search field. Enter confirms and
// returns focus to the list, Esc clears. Edits are debounced so the
// fetch fires after the typing pause, not per keystroke.
func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEscape:
		model.search.Clear()
		model.searchGeneration++
		return model, model.fetchList(model.currentQuery())

	case tea.KeyEnter:
		model.search.Active = false
		return model, model.fetchList(model.currentQuery())

	case tea.KeyBackspace:
		if model.search.HandleBackspace() {
			cmd := model.armSearchDebounce()
			return model, cmd
		}

	case tea.KeyRunes, tea.KeySpace:
		changed := false
		if message.Type == tea.KeySpace {
			changed = model.search.HandleRune(' ')
		} else {
			for _, r := range message.Runes {
				if model.search.HandleRune(r) {
					changed = true
				}
			}
		}
		if changed {
			cmd := model.armSearchDebounce()
			return model, cmd
		}
	}

	return model, nil
}

// armSearchDebounce bumps the generation and starts a fresh timer;
// earlier timers become stale and are ignored on delivery.
func (model *Model) armSearchDebounce() tea.Cmd {
	model.searchGeneration++
	generation := model.searchGeneration
	return tea.Tick(searchDebounceDelay, func(time.Time) tea.Msg {
		return searchDebounceMsg{generation: generation}
	})
}

func (model *Model) moveCursor(delta int) {
	model.cursor += delta
	if model.cursor < 0 {
		model.cursor = 0
	}
	if model.cursor >= len(model.items) {
		model.cursor = len(model.items) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
	model.clampScroll()
}

func (model *Model) selectedItem() (domain.TrackedItem, bool) {
	if model.cursor < 0 || model.cursor >= len(model.items) {
		return domain.TrackedItem{}, false
	}
	return model.items[model.cursor], true
}

// visibleRows is how many cards fit between the header and the status
// bar at the current terminal height.
func (model Model) visibleRows() int {
	rows := (model.height - chromeHeight) / cardHeight
	if rows < 1 {
		return 1
	}
	return rows
}

func (model *Model) clampScroll() {
	rows := model.visibleRows()
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+rows {
		model.scrollOffset = model.cursor - rows + 1
	}
	if model.scrollOffset < 0 {
		model.scrollOffset = 0
	}
}
