package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Sankhya.BaseURL = "https://gateway.example.com"
	cfg.Sankhya.Token = "token"
	return cfg
}

func TestConfig_DefaultsValidateWithRequiredFields(t *testing.T) {
	cfg := validConfig()

	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30*time.Minute, cfg.Sync.LockTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TenantTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestConfig_RequiresSankhyaGateway(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sankhya.base_url")

	cfg.Sankhya.BaseURL = "https://gateway.example.com"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sankhya.token")
}

func TestConfig_RequiresDatabaseSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.Database = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Database.User = ""
	assert.Error(t, cfg.Validate())
}

func TestConfig_RejectsNonPositiveLockTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Sync.LockTTL = 0

	assert.Error(t, cfg.Validate())
}

func TestConfig_FillsLoggingDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = ""
	cfg.Logging.Format = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}
