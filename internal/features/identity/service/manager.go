package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"courier-watchlist/internal/core/localstore"
	"courier-watchlist/internal/core/logger"

	"go.uber.org/zap"
)

const (
	currentKey = "user:current"
	recentKey  = "user:recent"

	// maxRecent caps the most-recently-used identity list.
	maxRecent = 6
)

// ErrNoIdentity is returned when no current identity has been set.
var ErrNoIdentity = errors.New("no identity set")

// Manager owns the client's identity state: the current user id sent on
// every backend request and a small most-recently-used list for quick
// switching. Both live in the local store so they survive restarts.
type Manager struct {
	store  localstore.Store
	logger *zap.Logger
}

// NewManager creates an identity manager over the local store.
func NewManager(store localstore.Store) *Manager {
	return &Manager{store: store, logger: logger.Get()}
}

// Current returns the active user id, or ErrNoIdentity when none was
// ever set.
func (m *Manager) Current(ctx context.Context) (string, error) {
	val, err := m.store.Get(ctx, currentKey)
	if errors.Is(err, localstore.ErrKeyNotFound) {
		return "", ErrNoIdentity
	}
	if err != nil {
		return "", fmt.Errorf("failed to load current identity: %w", err)
	}
	return string(val), nil
}

// Switch makes userID the active identity and promotes it to the front
// of the recent list. Blank ids are rejected.
func (m *Manager) Switch(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("user id must not be blank")
	}

	if err := m.store.Set(ctx, currentKey, []byte(userID), 0); err != nil {
		return fmt.Errorf("failed to store current identity: %w", err)
	}

	if err := m.promote(ctx, userID); err != nil {
		// The switch itself succeeded; a stale recent list is cosmetic.
		m.logger.Warn("Failed to update recent identity list", zap.Error(err))
	}

	m.logger.Debug("Switched identity", zap.String("user_id", userID))
	return nil
}

// Recent returns the most-recently-used identities, newest first. An
// absent or unreadable list is treated as empty.
func (m *Manager) Recent(ctx context.Context) ([]string, error) {
	val, err := m.store.Get(ctx, recentKey)
	if errors.Is(err, localstore.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recent identities: %w", err)
	}

	var recent []string
	if err := json.Unmarshal(val, &recent); err != nil {
		m.logger.Warn("Recent identity list is corrupt, resetting", zap.Error(err))
		return nil, nil
	}
	return recent, nil
}

// Forget removes userID from the recent list. The current identity is
// untouched even if it matches.
func (m *Manager) Forget(ctx context.Context, userID string) error {
	recent, err := m.Recent(ctx)
	if err != nil {
		return err
	}

	kept := recent[:0]
	for _, id := range recent {
		if id != userID {
			kept = append(kept, id)
		}
	}
	return m.saveRecent(ctx, kept)
}

// promote moves userID to the front of the recent list, dropping any
// previous occurrence and trimming to maxRecent.
func (m *Manager) promote(ctx context.Context, userID string) error {
	recent, err := m.Recent(ctx)
	if err != nil {
		return err
	}

	next := make([]string, 0, maxRecent)
	next = append(next, userID)
	for _, id := range recent {
		if id == userID {
			continue
		}
		next = append(next, id)
		if len(next) == maxRecent {
			break
		}
	}
	return m.saveRecent(ctx, next)
}

func (m *Manager) saveRecent(ctx context.Context, recent []string) error {
	data, err := json.Marshal(recent)
	if err != nil {
		return fmt.Errorf("failed to encode recent identities: %w", err)
	}
	if err := m.store.Set(ctx, recentKey, data, 0); err != nil {
		return fmt.Errorf("failed to store recent identities: %w", err)
	}
	return nil
}
