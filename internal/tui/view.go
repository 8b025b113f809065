package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	statusdomain "courier-watchlist/internal/features/status/domain"
	"courier-watchlist/internal/features/watchlist/domain"
)

const (
	// cardHeight is the rendered height of one item card including its
	// trailing blank line.
	cardHeight = 3

	// chromeHeight covers the header, the controls line, and the status
	// bar around the card list.
	chromeHeight = 5
)

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(model.renderHeader())
	b.WriteByte('\n')
	b.WriteString(model.renderControls())
	b.WriteByte('\n')
	if model.fetchErr != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(model.theme.Error).Render("! " + model.fetchErr + " (showing last loaded list)"))
		b.WriteByte('\n')
	}
	b.WriteString(model.renderCards())
	b.WriteString(model.renderStatusBar())
	return b.String()
}

func (model Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true).
		Render("Courier Watchlist")

	user := lipgloss.NewStyle().
		Foreground(model.theme.FaintText).
		Render("  user: " + model.userID)

	count := lipgloss.NewStyle().
		Foreground(model.theme.FaintText).
		Render(fmt.Sprintf("  %d tracked", len(model.items)))

	return title + user + count
}

func (model Model) renderControls() string {
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	sort := faint.Render("sort: " + sortControls[model.sortIndex])

	filter := statusControls[model.statusIndex]
	if filter == "" {
		filter = "all"
	}
	filterPart := faint.Render("  filter: " + filter)

	search := ""
	if model.search.Active {
		search = "  /" + model.search.Input + "▌"
	} else if model.search.Input != "" {
		search = faint.Render("  search: " + model.search.Input)
	}

	return sort + filterPart + search
}

func (model Model) renderCards() string {
	if len(model.items) == 0 {
		empty := lipgloss.NewStyle().Foreground(model.theme.FaintText)
		if model.search.Input != "" || statusControls[model.statusIndex] != "" {
			return empty.Render("no shipments match the current filter") + "\n"
		}
		return empty.Render("no tracked shipments yet") + "\n"
	}

	rows := model.visibleRows()
	end := model.scrollOffset + rows
	if end > len(model.items) {
		end = len(model.items)
	}

	var b strings.Builder
	for i := model.scrollOffset; i < end; i++ {
		b.WriteString(model.renderCard(model.items[i], i == model.cursor))
	}
	return b.String()
}

// renderCard draws one item as a two-line card plus a blank spacer.
func (model Model) renderCard(item domain.TrackedItem, selected bool) string {
	lineStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	if selected {
		lineStyle = lineStyle.
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground)
	}

	state := model.cards.Get(item.ID)
	switch state {
	case domain.CardSettledSuccess:
		lineStyle = lineStyle.Background(model.theme.FlashSuccess)
	case domain.CardSettledError:
		lineStyle = lineStyle.Background(model.theme.FlashError)
	}

	marker := "  "
	if selected {
		marker = "> "
	}

	title := item.Tracking
	if item.Label != "" {
		title = item.Label + " (" + item.Tracking + ")"
	}

	first := fmt.Sprintf("%s[%s] %s", marker, CourierBadge(item.Courier), title)

	var second string
	if state == domain.CardChecking {
		second = fmt.Sprintf("    %s checking...", model.spinner.View())
	} else {
		second = "    " + model.renderStatusLine(item)
	}

	return lineStyle.Render(first) + "\n" + second + "\n\n"
}

// renderStatusLine colors the last known status by its classified
// category and appends the freshness timestamp.
func (model Model) renderStatusLine(item domain.TrackedItem) string {
	status := item.LastResult.DisplayStatus()
	if status == "" {
		return lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("not checked yet")
	}

	category := model.registry.Classify(status)
	if item.LastResult.Failed() {
		category = statusdomain.CategoryError
	}

	line := lipgloss.NewStyle().
		Foreground(model.theme.CategoryColor(category)).
		Render(status)

	if item.LastResult != nil && item.LastResult.DaysTaken != nil {
		line += lipgloss.NewStyle().
			Foreground(model.theme.FaintText).
			Render(fmt.Sprintf(" (%d days)", *item.LastResult.DaysTaken))
	}

	if item.LastChecked != "" {
		line += lipgloss.NewStyle().
			Foreground(model.theme.FaintText).
			Render("  checked " + domain.FormatTimestamp(item.LastChecked))
	}
	return line
}

func (model Model) renderStatusBar() string {
	if model.notice != "" {
		color := model.theme.FaintText
		if model.noticeErr {
			color = model.theme.Error
		}
		return lipgloss.NewStyle().Foreground(color).Render(model.notice)
	}

	if checking := model.cards.CheckingCount(); checking > 0 {
		return lipgloss.NewStyle().
			Foreground(model.theme.Busy).
			Render(fmt.Sprintf("%s updating %d shipment(s)...", model.spinner.View(), checking))
	}

	help := "↵ check  u update all  / search  s sort  f filter  x remove  q quit"
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(help)
}
