package domain

import (
	"net/url"
	"strings"

	statusdomain "courier-watchlist/internal/features/status/domain"
)

// SortField selects the server-side ordering of the tracked list.
type SortField string

const (
	// SortFirstEvent orders by the timestamp of each item's first
	// tracking event.
	SortFirstEvent SortField = "first_event"
	// SortCreatedAt orders by registration time.
	SortCreatedAt SortField = "created_at"
	// SortLastChecked orders by the most recent refresh attempt.
	SortLastChecked SortField = "last_checked"
)

// SortOrder is the direction of the sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Query is the canonical list query derived from the UI controls. The
// same control state always produces the same encoded form, so the
// encoding doubles as a fetch key.
type Query struct {
	Sort   SortField
	Order  SortOrder
	Status statusdomain.Category // empty means all statuses
	Search string
}

// DefaultQuery is the query used when no explicit sort is chosen:
// newest first event on top.
func DefaultQuery() Query {
	return Query{Sort: SortFirstEvent, Order: OrderDesc}
}

// BuildQuery derives a Query from raw UI control values. The sort
// control carries "field:order" (e.g. "created_at:asc"); an absent or
// unrecognized value degrades to the default. Whitespace-only search
// text counts as empty.
func BuildQuery(sortControl, statusControl, searchText string) Query {
	q := DefaultQuery()

	if field, order, ok := strings.Cut(sortControl, ":"); ok {
		switch SortField(field) {
		case SortFirstEvent, SortCreatedAt, SortLastChecked:
			q.Sort = SortField(field)
			if SortOrder(order) == OrderAsc {
				q.Order = OrderAsc
			} else {
				q.Order = OrderDesc
			}
		}
	}

	switch statusdomain.Category(statusControl) {
	case statusdomain.CategoryDelivered, statusdomain.CategoryError, statusdomain.CategoryOther:
		q.Status = statusdomain.Category(statusControl)
	}

	q.Search = strings.TrimSpace(searchText)
	return q
}

// Encode serializes the query for the list endpoint. Empty search text
// and empty status filter are omitted entirely, never sent as empty
// parameters. url.Values encodes keys in sorted order, which keeps the
// result deterministic for identical inputs.
func (q Query) Encode() string {
	values := url.Values{}
	values.Set("sort", string(q.Sort))
	values.Set("order", string(q.Order))
	if q.Status != "" {
		values.Set("status", string(q.Status))
	}
	if q.Search != "" {
		values.Set("q", q.Search)
	}
	return values.Encode()
}

// ControlValue returns the sort control representation of this query,
// the inverse of BuildQuery's sort parsing.
func (q Query) ControlValue() string {
	return string(q.Sort) + ":" + string(q.Order)
}
