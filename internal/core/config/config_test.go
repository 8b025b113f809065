package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("HTTP_TIMEOUT_SECONDS")
	os.Unsetenv("REDIS_URL")

	os.Setenv("BACKEND_URL", "http://127.0.0.1:5000")
	defer os.Unsetenv("BACKEND_URL")

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.Backend.URL)
	assert.Equal(t, 30, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, "redis://localhost:6379/0", cfg.LocalStore.RedisURL)
	assert.Empty(t, cfg.UserID)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("BACKEND_URL", "https://tracker.example.com")
	os.Setenv("HTTP_TIMEOUT_SECONDS", "10")
	os.Setenv("REDIS_URL", "redis://cache.local:6380/1")
	os.Setenv("USER_ID", "alice")
	defer func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("BACKEND_URL")
		os.Unsetenv("HTTP_TIMEOUT_SECONDS")
		os.Unsetenv("REDIS_URL")
		os.Unsetenv("USER_ID")
	}()

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://tracker.example.com", cfg.Backend.URL)
	assert.Equal(t, 10, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, "redis://cache.local:6380/1", cfg.LocalStore.RedisURL)
	assert.Equal(t, "alice", cfg.UserID)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
BACKEND_URL=https://staging.tracker.example.com
HTTP_TIMEOUT_SECONDS=15
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "https://staging.tracker.example.com", cfg.Backend.URL)
	assert.Equal(t, 15, cfg.Backend.TimeoutSeconds)
}

// TestLoad_MissingBackendURL verifies that the backend URL is required.
func TestLoad_MissingBackendURL(t *testing.T) {
	os.Unsetenv("BACKEND_URL")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration")
}

// TestLoad_InvalidBackendURL verifies that a malformed backend URL is rejected.
func TestLoad_InvalidBackendURL(t *testing.T) {
	os.Setenv("BACKEND_URL", "not a url")
	defer os.Unsetenv("BACKEND_URL")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid backend configuration")
}
