package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"courier-watchlist/internal/core/logger"
	statusdomain "courier-watchlist/internal/features/status/domain"
	"courier-watchlist/internal/features/watchlist/domain"

	"go.uber.org/zap"
)

// identityHeader carries the acting user's opaque identity token.
const identityHeader = "X-User-Id"

// APIClient implements ports.BackendAPI over HTTP.
type APIClient struct {
	baseURL string
	userID  string
	client  *http.Client
	logger  *zap.Logger
}

// NewAPIClient creates a backend client. The userID is treated as an
// opaque token and attached to every request.
func NewAPIClient(baseURL, userID string, client *http.Client) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		client:  client,
		logger:  logger.Get(),
	}
}

// errorPayload is the backend's well-formed error body.
type errorPayload struct {
	Error string `json:"error"`
}

// do executes one request and decodes a 2xx JSON body into out (when
// non-nil). Failures map onto the client error taxonomy: transport
// errors wrap domain.ErrNetwork, 404/409 map to sentinels, and other
// non-2xx statuses become a domain.ServerError carrying the backend's
// error text when one was provided.
func (c *APIClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(identityHeader, c.userID)
	}
	// The rendered list must always reflect the backend, never an
	// intermediate cache.
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload errorPayload
		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			json.Unmarshal(data, &payload)
		}

		c.logger.Debug("Backend request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("message", payload.Error),
		)

		switch resp.StatusCode {
		case http.StatusConflict:
			return domain.ErrAlreadyTracked
		case http.StatusNotFound:
			return domain.ErrNotFound
		}
		return &domain.ServerError{StatusCode: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

// Track implements ports.BackendAPI. A lookup that resolves to a
// courier error still returns a result; callers inspect Failed().
func (c *APIClient) Track(ctx context.Context, trackingNumber string) (*domain.CheckResult, error) {
	var result domain.CheckResult
	payload := map[string]string{"tracking_number": trackingNumber}
	if err := c.do(ctx, http.MethodPost, "/api/track", payload, &result); err != nil {
		return nil, fmt.Errorf("failed to track %s: %w", trackingNumber, err)
	}
	return &result, nil
}

// ListTracked implements ports.BackendAPI.
func (c *APIClient) ListTracked(ctx context.Context, query domain.Query) ([]domain.TrackedItem, error) {
	var response struct {
		Items []domain.TrackedItem `json:"items"`
	}
	path := "/api/tracked?" + query.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch tracked list: %w", err)
	}
	return response.Items, nil
}

// AddTracked implements ports.BackendAPI.
func (c *APIClient) AddTracked(ctx context.Context, req domain.AddRequest) (*domain.TrackedItem, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid add request: %w", err)
	}

	var item domain.TrackedItem
	if err := c.do(ctx, http.MethodPost, "/api/tracked", req, &item); err != nil {
		return nil, fmt.Errorf("failed to add %s: %w", req.Tracking, err)
	}
	return &item, nil
}

// CheckTracked implements ports.BackendAPI.
func (c *APIClient) CheckTracked(ctx context.Context, id int64) (*domain.CheckResult, error) {
	var response struct {
		ID     int64               `json:"id"`
		Result *domain.CheckResult `json:"result"`
	}
	path := fmt.Sprintf("/api/tracked/%d/check", id)
	if err := c.do(ctx, http.MethodPost, path, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to check item %d: %w", id, err)
	}
	if response.Result == nil {
		return nil, &domain.ServerError{Message: "check response missing result"}
	}
	return response.Result, nil
}

// DeleteTracked implements ports.BackendAPI.
func (c *APIClient) DeleteTracked(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/tracked/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}
	return nil
}

// UpdateLabel implements ports.BackendAPI.
func (c *APIClient) UpdateLabel(ctx context.Context, id int64, label string) error {
	path := fmt.Sprintf("/api/tracked/%d/label", id)
	payload := map[string]string{"label": label}
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("failed to update label on item %d: %w", id, err)
	}
	return nil
}

// StatusKeywords implements ports.BackendAPI.
func (c *APIClient) StatusKeywords(ctx context.Context) (statusdomain.KeywordTable, error) {
	var table statusdomain.KeywordTable
	if err := c.do(ctx, http.MethodGet, "/api/status_keywords", nil, &table); err != nil {
		return statusdomain.KeywordTable{}, fmt.Errorf("failed to fetch status keywords: %w", err)
	}
	return table, nil
}
