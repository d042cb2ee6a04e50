package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	path := writeConfig(t, `
database:
  host: localhost
  user: rental
  password: ${TEST_DB_PASSWORD}
  name: rental
kafka:
  brokers: ["localhost:9092"]
  notifications_topic: notifications
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "inclusive", cfg.Billing.Policy)
	assert.Equal(t, "per_line", cfg.Billing.AddonStrategy)
	assert.Equal(t, "BOK-", cfg.Booking.ConfirmationPrefix)
	assert.Equal(t, "INV-", cfg.Invoice.NumberPrefix)
	assert.Equal(t, 30*time.Second, cfg.Booking.LockTTL())
	assert.Equal(t, 5*time.Minute, cfg.Booking.CarTypesCacheTTL())
	assert.Equal(t, "host=localhost port=5432 user=rental password=s3cret dbname=rental sslmode=disable", cfg.Database.DSN())
}

func TestLoadConfig_KeepsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
billing:
  policy: clamped
  addon_strategy: aggregated
booking:
  lock_ttl_seconds: 5
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "clamped", cfg.Billing.Policy)
	assert.Equal(t, "aggregated", cfg.Billing.AddonStrategy)
	assert.Equal(t, 5*time.Second, cfg.Booking.LockTTL())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "http: [unclosed")

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}
