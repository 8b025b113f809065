package tui

// SearchModel is the inline search input above the card list. The query
// text is sent to the server (it searches tracking numbers and labels
// there), so edits are debounced rather than fetched per keystroke.
type SearchModel struct {
	// Input is the current search query text.
	Input string

	// Active is true when the search input has keyboard focus
	// (the user pressed / to start typing).
	Active bool
}

// HandleRune appends a typed character. Returns true if the input
// changed.
func (search *SearchModel) HandleRune(r rune) bool {
	search.Input += string(r)
	return true
}

// HandleBackspace removes the last character. Returns true if the input
// changed.
func (search *SearchModel) HandleBackspace() bool {
	if search.Input == "" {
		return false
	}
	runes := []rune(search.Input)
	search.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the search text and deactivates the input.
func (search *SearchModel) Clear() {
	search.Input = ""
	search.Active = false
}
