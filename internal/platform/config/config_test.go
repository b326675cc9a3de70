package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.PixExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.BoletoExpiry)
	assert.Equal(t, "0.01", cfg.ReconciliationTolerance.String())
	assert.Equal(t, "0 0 2 * * *", cfg.ReconciliationCron)
	assert.Equal(t, 4, cfg.EventWorkers)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PIX_EXPIRY", "15m")
	t.Setenv("RECONCILIATION_TOLERANCE", "0.50")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com")
	t.Setenv("GATEWAY_BASE_URL", "https://gateway.example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.PixExpiry)
	assert.Equal(t, "0.5", cfg.ReconciliationTolerance.String())
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "https://gateway.example.com", cfg.GatewayBaseURL)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("BOLETO_EXPIRY", "next week")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOLETO_EXPIRY")
}
