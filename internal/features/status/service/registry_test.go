package service

import (
	"context"
	"errors"
	"testing"

	"courier-watchlist/internal/features/status/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockKeywordSource is a KeywordSource returning a fixed table or error.
type mockKeywordSource struct {
	table domain.KeywordTable
	err   error
	calls int
}

// StatusKeywords implements KeywordSource.
func (m *mockKeywordSource) StatusKeywords(ctx context.Context) (domain.KeywordTable, error) {
	m.calls++
	if m.err != nil {
		return domain.KeywordTable{}, m.err
	}
	return m.table, nil
}

// TestRegistry_Classify_Delivered verifies that any configured delivered
// keyword matches as a case-insensitive substring.
func TestRegistry_Classify_Delivered(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, domain.CategoryDelivered, r.Classify("Delivered to front door"))
	assert.Equal(t, domain.CategoryDelivered, r.Classify("배송완료"))
	assert.Equal(t, domain.CategoryDelivered, r.Classify("상품이 배달 완료 되었습니다"))
}

// TestRegistry_Classify_Error verifies error keyword matching.
func TestRegistry_Classify_Error(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, domain.CategoryError, r.Classify("tracking number NOT FOUND"))
	assert.Equal(t, domain.CategoryError, r.Classify("오류"))
	assert.Equal(t, domain.CategoryError, r.Classify("조회불가입니다"))
}

// TestRegistry_Classify_Other verifies the fall-through bucket,
// including empty input.
func TestRegistry_Classify_Other(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, domain.CategoryOther, r.Classify("in transit"))
	assert.Equal(t, domain.CategoryOther, r.Classify("간선상차"))
	assert.Equal(t, domain.CategoryOther, r.Classify(""))
}

// TestRegistry_Classify_DeliveredWinsOverError verifies precedence when
// a string matches keywords from both sets.
func TestRegistry_Classify_DeliveredWinsOverError(t *testing.T) {
	r := NewRegistry()

	// Contains both "delivered" and "fail".
	assert.Equal(t, domain.CategoryDelivered, r.Classify("delivered after failed attempt"))
}

// TestRegistry_Replace verifies the wholesale table swap.
func TestRegistry_Replace(t *testing.T) {
	r := NewRegistry()

	r.Replace(domain.KeywordTable{
		Delivered: []string{"handed over"},
		Error:     []string{"lost"},
	})

	// Old defaults no longer apply; only the new table does.
	assert.Equal(t, domain.CategoryOther, r.Classify("delivered"))
	assert.Equal(t, domain.CategoryDelivered, r.Classify("Handed Over to customer"))
	assert.Equal(t, domain.CategoryError, r.Classify("parcel lost"))
}

// TestRegistry_SyncOnce_Success verifies that the first sync replaces
// the table and later syncs are no-ops.
func TestRegistry_SyncOnce_Success(t *testing.T) {
	r := NewRegistry()
	source := &mockKeywordSource{
		table: domain.KeywordTable{Delivered: []string{"arrived"}, Error: []string{"broken"}},
	}

	err := r.SyncOnce(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryDelivered, r.Classify("arrived at door"))

	// Second call must not hit the source again.
	err = r.SyncOnce(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
}

// TestRegistry_SyncOnce_FailureKeepsDefaults verifies that a failed
// fetch leaves the built-in table authoritative.
func TestRegistry_SyncOnce_FailureKeepsDefaults(t *testing.T) {
	r := NewRegistry()
	source := &mockKeywordSource{err: errors.New("backend unreachable")}

	err := r.SyncOnce(context.Background(), source)
	require.Error(t, err)

	assert.Equal(t, domain.CategoryDelivered, r.Classify("배송완료"))
	assert.Equal(t, domain.CategoryError, r.Classify("not found"))
}

// TestRegistry_SyncOnce_EmptyTableIgnored verifies that an empty server
// table does not wipe the defaults.
func TestRegistry_SyncOnce_EmptyTableIgnored(t *testing.T) {
	r := NewRegistry()
	source := &mockKeywordSource{table: domain.KeywordTable{}}

	err := r.SyncOnce(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryDelivered, r.Classify("delivered"))
}
