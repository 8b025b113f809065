package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier-watchlist/internal/core/httpclient"
	statusdomain "courier-watchlist/internal/features/status/domain"
	statusservice "courier-watchlist/internal/features/status/service"
	"courier-watchlist/internal/features/watchlist/adapters"
	"courier-watchlist/internal/features/watchlist/domain"
	watchservice "courier-watchlist/internal/features/watchlist/service"
)

// TestFormatHistoryLine verifies one tracking event renders its
// timestamp, location, and message.
func TestFormatHistoryLine(t *testing.T) {
	line := formatHistoryLine(domain.HistoryEvent{
		Time:     "2026-08-30T09:15:00",
		Location: "옥천Hub",
		Message:  "간선상차",
	})

	assert.Contains(t, line, "2026-08-30 09:15")
	assert.Contains(t, line, "옥천Hub")
	assert.Contains(t, line, "간선상차")
}

// TestAppRunUpdate_UsesServerKeywordTable verifies that the headless
// update syncs the keyword table before classifying eligibility: an
// item whose status is delivered only per the server's table is
// skipped, not refreshed against the built-in defaults.
func TestAppRunUpdate_UsesServerKeywordTable(t *testing.T) {
	var mu sync.Mutex
	var checkPaths []string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status_keywords", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"delivered":["집화완료"],"error":["오류"]}`)
	})
	mux.HandleFunc("/api/tracked", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[
			{"id":1,"tracking":"111111","last_result":{"status":"집화완료"}},
			{"id":2,"tracking":"222222","last_result":{"status":"in transit"}}
		]}`)
	})
	mux.HandleFunc("/api/tracked/1/check", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		checkPaths = append(checkPaths, r.URL.Path)
		mu.Unlock()
		fmt.Fprint(w, `{"id":1,"result":{"status":"배송완료"}}`)
	})
	mux.HandleFunc("/api/tracked/2/check", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		checkPaths = append(checkPaths, r.URL.Path)
		mu.Unlock()
		fmt.Fprint(w, `{"id":2,"result":{"status":"배송완료"}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	backend := adapters.NewAPIClient(server.URL, "tester", httpclient.NewClient(5*time.Second))
	store := watchservice.NewListStore(backend)
	cards := watchservice.NewCardStates()
	registry := statusservice.NewRegistry()
	a := &app{
		backend:  backend,
		list:     store,
		cards:    cards,
		registry: registry,
		orch:     watchservice.NewOrchestrator(backend, store, cards, registry, nil),
	}

	require.NoError(t, a.runUpdate(context.Background()))

	// "집화완료" is delivered only per the server's table; the built-in
	// defaults would have refreshed item 1 too.
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/api/tracked/2/check"}, checkPaths)
	assert.Equal(t, statusdomain.CategoryDelivered, registry.Classify("집화완료"))
}

// TestAppRunList_SyncsKeywords verifies the list subcommand also
// attempts the one-shot sync.
func TestAppRunList_SyncsKeywords(t *testing.T) {
	var keywordCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status_keywords", func(w http.ResponseWriter, r *http.Request) {
		keywordCalls++
		fmt.Fprint(w, `{"delivered":["집화완료"],"error":[]}`)
	})
	mux.HandleFunc("/api/tracked", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	backend := adapters.NewAPIClient(server.URL, "tester", httpclient.NewClient(5*time.Second))
	a := &app{
		backend:  backend,
		list:     watchservice.NewListStore(backend),
		registry: statusservice.NewRegistry(),
	}

	require.NoError(t, a.runList(context.Background(), domain.DefaultQuery()))
	require.NoError(t, a.runList(context.Background(), domain.DefaultQuery()))

	// Once per process, no matter how many fetches follow.
	assert.Equal(t, 1, keywordCalls)
}
