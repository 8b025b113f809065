package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCheckResult_Failed verifies the single definition of a failed check.
func TestCheckResult_Failed(t *testing.T) {
	var nilResult *CheckResult
	assert.True(t, nilResult.Failed())

	assert.True(t, (&CheckResult{Error: "not found"}).Failed())
	assert.False(t, (&CheckResult{Status: "배송완료"}).Failed())
	assert.False(t, (&CheckResult{}).Failed())
}

// TestCheckResult_DisplayStatus verifies status-then-error fallback.
func TestCheckResult_DisplayStatus(t *testing.T) {
	var nilResult *CheckResult
	assert.Empty(t, nilResult.DisplayStatus())

	assert.Equal(t, "in transit", (&CheckResult{Status: "in transit"}).DisplayStatus())
	assert.Equal(t, "조회불가", (&CheckResult{Error: "조회불가"}).DisplayStatus())
	assert.Equal(t, "delivered", (&CheckResult{Status: "delivered", Error: "stale"}).DisplayStatus())
}

// TestTrackedItem_StatusText verifies the classification input for
// checked and never-checked items.
func TestTrackedItem_StatusText(t *testing.T) {
	item := TrackedItem{ID: 1, Tracking: "1234567890"}
	assert.Empty(t, item.StatusText())

	item.LastResult = &CheckResult{Status: "배송완료"}
	assert.Equal(t, "배송완료", item.StatusText())

	// A failed check with no status line classifies by its error text.
	item.LastResult = &CheckResult{Error: "조회불가"}
	assert.Equal(t, "조회불가", item.StatusText())

	item.LastResult = &CheckResult{Status: "간선상차", Error: "stale"}
	assert.Equal(t, "간선상차", item.StatusText())
}

// TestFormatTimestamp verifies display formatting of the backend's
// timestamp shapes, with raw fallback for unknown formats.
func TestFormatTimestamp(t *testing.T) {
	assert.Empty(t, FormatTimestamp(""))

	// Python isoformat with microseconds, as written by the backend.
	assert.Equal(t, "2025-12-16 11:13", FormatTimestamp("2025-12-16T11:13:47.123456"))
	assert.Equal(t, "2025-12-16 11:13", FormatTimestamp("2025-12-16T11:13:47"))
	assert.Equal(t, "2025-12-16 11:13", FormatTimestamp("2025-12-16 11:13:47"))
	assert.Equal(t, "2025-12-16 11:13", FormatTimestamp("2025/12/16 11:13:47"))

	// Unparsable input is shown as-is rather than dropped.
	assert.Equal(t, "yesterday-ish", FormatTimestamp("yesterday-ish"))
}
