package domain

import (
	"encoding/json"
	"time"
)

// LatestEvent is the most recent tracking event in a check result.
type LatestEvent struct {
	// Time is the courier-reported timestamp, kept as an opaque string.
	Time string `json:"time,omitempty"`
	// Message is the courier-reported event description.
	Message string `json:"message,omitempty"`
}

// HistoryEvent is a single event in a shipment's tracking history.
type HistoryEvent struct {
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
	Message  string `json:"message,omitempty"`
}

// CheckResult is one resolution snapshot for a tracking number, exactly
// as the backend returned it. A refresh replaces the previous snapshot
// wholesale; the client never patches individual fields.
type CheckResult struct {
	// Courier is the resolved courier display name.
	Courier string `json:"courier,omitempty"`
	// TrackingNumber echoes the number that was resolved.
	TrackingNumber string `json:"tracking_number,omitempty"`
	// Status is the courier's free-text status line.
	Status string `json:"status,omitempty"`
	// Error is set on a well-formed failure payload. A result carrying
	// an error counts as a failed check everywhere in the client.
	Error string `json:"error,omitempty"`
	// DaysTaken is the elapsed days between first event and delivery.
	DaysTaken *int `json:"days_taken,omitempty"`
	// LatestEvent is the most recent history entry.
	LatestEvent *LatestEvent `json:"latest_event,omitempty"`
	// History holds events in the server-provided chronological order.
	History []HistoryEvent `json:"history,omitempty"`
	// Debug is an optional opaque diagnostic payload.
	Debug json.RawMessage `json:"_debug,omitempty"`
}

// Failed reports whether this snapshot represents a failed check.
func (r *CheckResult) Failed() bool {
	return r == nil || r.Error != ""
}

// DisplayStatus returns the text to show for this snapshot: the status
// line when present, otherwise the error message.
func (r *CheckResult) DisplayStatus() string {
	if r == nil {
		return ""
	}
	if r.Status != "" {
		return r.Status
	}
	return r.Error
}

// TrackedItem is a read-only snapshot of one watchlist entry as owned
// by the server. Timestamps are opaque server strings; the client
// reformats them for display but never interprets them for ordering.
type TrackedItem struct {
	ID       int64  `json:"id"`
	Tracking string `json:"tracking"`
	Courier  string `json:"courier,omitempty"`
	Label    string `json:"label,omitempty"`
	// LastResult is either entirely absent (never checked) or a
	// self-consistent snapshot from one server response.
	LastResult  *CheckResult `json:"last_result,omitempty"`
	LastChecked string       `json:"last_checked,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
}

// StatusText returns the classification input: the last status line,
// falling back to the error message, or "" when the item was never
// checked.
func (i TrackedItem) StatusText() string {
	if i.LastResult == nil {
		return ""
	}
	if i.LastResult.Status != "" {
		return i.LastResult.Status
	}
	return i.LastResult.Error
}

// timestampLayouts covers the formats the backend and couriers emit.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02 15:04",
}

// FormatTimestamp renders an opaque server timestamp as
// "YYYY-MM-DD HH:MM" for display, falling back to the raw string when
// no known layout matches.
func FormatTimestamp(ts string) string {
	if ts == "" {
		return ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return ts
}
