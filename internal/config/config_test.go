package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("CURRENCY_SYMBOL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "лв.", cfg.Currency.Symbol)
	assert.Equal(t, int32(2), cfg.Currency.Decimals)
	assert.True(t, cfg.Backend.Demo())
	assert.Equal(t, "02.01.2006", cfg.DateFormat.Display)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://n8n.example.com/webhook/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("CURRENCY_SYMBOL", "€")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://n8n.example.com/webhook", cfg.Backend.BaseURL)
	assert.False(t, cfg.Backend.Demo())
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "€", cfg.Currency.Symbol)
}

func TestLoad_InvalidDecimals(t *testing.T) {
	t.Setenv("CURRENCY_DECIMALS", "9")

	_, err := Load()
	assert.Error(t, err)
}
