package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("ENV")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 150, cfg.MockLatencyMS)
	assert.Equal(t, int64(42), cfg.FixtureSeed)
	assert.True(t, cfg.IsDev(), "development mode by default")
}

func TestLoad_EnvOverride(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("MOCK_LATENCY_MS", "0")
	defer os.Unsetenv("PORT")
	defer os.Unsetenv("MOCK_LATENCY_MS")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 0, cfg.MockLatencyMS)
}

func TestValidate_RequiresSecretInProduction(t *testing.T) {
	cfg := &Config{Env: "production", SessionTTLMinutes: 60}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestValidate_RejectsShortSecret(t *testing.T) {
	cfg := &Config{Env: "production", SessionSecret: "short", SessionTTLMinutes: 60}
	assert.Error(t, cfg.Validate())
}

func TestValidate_OK(t *testing.T) {
	cfg := &Config{
		Env:               "production",
		SessionSecret:     strings.Repeat("s", 32),
		SessionTTLMinutes: 60,
	}
	assert.NoError(t, cfg.Validate())
}
