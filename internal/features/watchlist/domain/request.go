package domain

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AddRequest carries the data for registering a new watchlist entry.
type AddRequest struct {
	// Tracking is the tracking number to watch.
	Tracking string `json:"tracking"`
	// Label is optional user-supplied free text.
	Label string `json:"label,omitempty"`
	// Courier optionally pins the courier instead of auto-detection.
	Courier string `json:"courier,omitempty"`
}

// Validate checks the request before it is sent to the backend.
func (r AddRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tracking, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Label, validation.Length(0, 120)),
	)
}
