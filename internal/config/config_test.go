package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"HTTP_ADDRESS", "GRPC_ADDRESS", "READ_TIMEOUT", "WRITE_TIMEOUT", "STORAGE",
	"DB_CONN_STR", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"LEDGER_ENFORCE_ACTIVE",
}

// clearEnv unsets every config key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.HTTPAddress)
	assert.Equal(t, ":9090", cfg.GRPCAddress)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=bank sslmode=disable", cfg.DatabaseURL)
	assert.False(t, cfg.EnforceActive)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDRESS", ":8080")
	t.Setenv("GRPC_ADDRESS", "")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("WRITE_TIMEOUT", "not-a-duration")
	t.Setenv("STORAGE", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("LEDGER_ENFORCE_ACTIVE", "true")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddress)
	assert.Equal(t, "", cfg.GRPCAddress)
	assert.Equal(t, 2*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Contains(t, cfg.DatabaseURL, "host=db port=6543")
	assert.True(t, cfg.EnforceActive)
}

func TestFromEnv_ConnStringWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_CONN_STR", "postgres://u:p@h/db")
	t.Setenv("DB_HOST", "ignored")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h/db", cfg.DatabaseURL)
}

func TestFromEnv_InvalidStorage(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE", "redis")

	_, err := FromEnv()

	assert.Error(t, err)
}
