// File: internal/config/config_test.go
package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	// Verify a few key defaults to ensure the mechanism works.
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "https://web.whatsapp.com", cfg.WhatsApp.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.WhatsApp.ComposerTimeout)
	assert.Equal(t, 10*time.Second, cfg.WhatsApp.LoginProbeTimeout)
	assert.Equal(t, 300*time.Second, cfg.WhatsApp.LoginWaitTimeout)
	assert.Equal(t, 5*time.Second, cfg.Campaign.DefaultDelay)
	assert.False(t, cfg.Browser.Headless)
	assert.True(t, cfg.Browser.PersistSession)
	assert.Contains(t, cfg.Browser.ProfileDir, ".wasend")

	assert.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	base := NewDefaultConfig()

	cases := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"empty base url", func(c *Config) { c.WhatsApp.BaseURL = "" }, "base_url"},
		{"zero composer timeout", func(c *Config) { c.WhatsApp.ComposerTimeout = 0 }, "composer_timeout"},
		{"zero login probe timeout", func(c *Config) { c.WhatsApp.LoginProbeTimeout = 0 }, "login timeouts"},
		{"negative delay", func(c *Config) { c.Campaign.DefaultDelay = -time.Second }, "default_delay"},
		{"negative rate", func(c *Config) { c.Campaign.RatePerMinute = -1 }, "rate_per_minute"},
		{"zero window", func(c *Config) { c.Browser.WindowWidth = 0 }, "window dimensions"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := *base
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errSub)
		})
	}
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	yaml := `
logger:
  level: debug
browser:
  headless: true
whatsapp:
  country_code: "49"
  composer_timeout: 15s
campaign:
  default_delay: 2s
  rate_per_minute: 12
`
	require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "49", cfg.WhatsApp.CountryCode)
	assert.Equal(t, 15*time.Second, cfg.WhatsApp.ComposerTimeout)
	assert.Equal(t, 2*time.Second, cfg.Campaign.DefaultDelay)
	assert.Equal(t, 12, cfg.Campaign.RatePerMinute)
	// Untouched sections keep their defaults.
	assert.Equal(t, 300*time.Second, cfg.WhatsApp.LoginWaitTimeout)
}

func TestLoadRejectsInvalid(t *testing.T) {
	v := viper.New()
	v.Set("campaign.rate_per_minute", -5)
	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_per_minute")
}
