package tui

import (
	"github.com/charmbracelet/lipgloss"

	statusdomain "courier-watchlist/internal/features/status/domain"
)

// Theme defines the color palette for the watchlist TUI. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Category colors for status lines and card accents.
	Delivered lipgloss.Color
	Error     lipgloss.Color
	Other     lipgloss.Color

	// Card flash accents shown briefly after a check settles.
	FlashSuccess lipgloss.Color
	FlashError   lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Spinner accent while a card is checking.
	Busy lipgloss.Color
}

// CategoryColor returns the color for a classified status category.
func (theme Theme) CategoryColor(category statusdomain.Category) lipgloss.Color {
	switch category {
	case statusdomain.CategoryDelivered:
		return theme.Delivered
	case statusdomain.CategoryError:
		return theme.Error
	default:
		return theme.Other
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	Delivered: lipgloss.Color("114"), // green
	Error:     lipgloss.Color("196"), // red
	Other:     lipgloss.Color("220"), // amber

	FlashSuccess: lipgloss.Color("22"), // dark green background tint
	FlashError:   lipgloss.Color("52"), // dark red background tint

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	Busy: lipgloss.Color("75"), // blue
}
