package service

import (
	"context"
	"sync"

	statusdomain "courier-watchlist/internal/features/status/domain"
	"courier-watchlist/internal/features/watchlist/domain"
)

// mockBackend is a controllable in-memory BackendAPI for service tests.
type mockBackend struct {
	mu sync.Mutex

	items    []domain.TrackedItem
	listErr  error
	listGate chan struct{} // when non-nil, ListTracked waits for close

	checkResults map[int64]*domain.CheckResult
	checkErrs    map[int64]error
	checkGate    chan struct{} // when non-nil, CheckTracked waits for close

	addErr   error
	addItem  *domain.TrackedItem
	otherErr error

	listCalls   int
	lastQuery   domain.Query
	checkCalls  []int64
	deleted     []int64
	labels      map[int64]string
}

func newMockBackend(items ...domain.TrackedItem) *mockBackend {
	return &mockBackend{
		items:        items,
		checkResults: make(map[int64]*domain.CheckResult),
		checkErrs:    make(map[int64]error),
		labels:       make(map[int64]string),
	}
}

// Track implements ports.BackendAPI.
func (m *mockBackend) Track(ctx context.Context, trackingNumber string) (*domain.CheckResult, error) {
	return &domain.CheckResult{TrackingNumber: trackingNumber}, m.otherErr
}

// ListTracked implements ports.BackendAPI.
func (m *mockBackend) ListTracked(ctx context.Context, query domain.Query) ([]domain.TrackedItem, error) {
	if m.listGate != nil {
		<-m.listGate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	m.lastQuery = query
	if m.listErr != nil {
		return nil, m.listErr
	}
	items := make([]domain.TrackedItem, len(m.items))
	copy(items, m.items)
	return items, nil
}

// AddTracked implements ports.BackendAPI.
func (m *mockBackend) AddTracked(ctx context.Context, req domain.AddRequest) (*domain.TrackedItem, error) {
	if m.addErr != nil {
		return nil, m.addErr
	}
	if m.addItem != nil {
		return m.addItem, nil
	}
	return &domain.TrackedItem{ID: 99, Tracking: req.Tracking, Label: req.Label}, nil
}

// CheckTracked implements ports.BackendAPI.
func (m *mockBackend) CheckTracked(ctx context.Context, id int64) (*domain.CheckResult, error) {
	if m.checkGate != nil {
		<-m.checkGate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkCalls = append(m.checkCalls, id)
	if err, ok := m.checkErrs[id]; ok {
		return nil, err
	}
	if result, ok := m.checkResults[id]; ok {
		return result, nil
	}
	return &domain.CheckResult{Status: "in transit"}, nil
}

// DeleteTracked implements ports.BackendAPI.
func (m *mockBackend) DeleteTracked(ctx context.Context, id int64) error {
	if m.otherErr != nil {
		return m.otherErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

// UpdateLabel implements ports.BackendAPI.
func (m *mockBackend) UpdateLabel(ctx context.Context, id int64, label string) error {
	if m.otherErr != nil {
		return m.otherErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels[id] = label
	return nil
}

// StatusKeywords implements ports.BackendAPI.
func (m *mockBackend) StatusKeywords(ctx context.Context) (statusdomain.KeywordTable, error) {
	return statusdomain.DefaultKeywords(), m.otherErr
}

func (m *mockBackend) checkedIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, len(m.checkCalls))
	copy(ids, m.checkCalls)
	return ids
}

func (m *mockBackend) listCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}
