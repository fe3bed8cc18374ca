// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp" yaml:"whatsapp"`
	Campaign CampaignConfig `mapstructure:"campaign" yaml:"campaign"`
}

// LoggerConfig controls the global zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
}

// BrowserConfig controls the Chrome instance driven by the session manager.
type BrowserConfig struct {
	Headless bool   `mapstructure:"headless" yaml:"headless"`
	ExecPath string `mapstructure:"exec_path" yaml:"exec_path"`
	// ProfileDir persists the WhatsApp Web session across restarts. Clearing
	// the directory forces a fresh QR login.
	ProfileDir     string   `mapstructure:"profile_dir" yaml:"profile_dir"`
	PersistSession bool     `mapstructure:"persist_session" yaml:"persist_session"`
	WindowWidth    int      `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight   int      `mapstructure:"window_height" yaml:"window_height"`
	Args           []string `mapstructure:"args" yaml:"args"`
}

// WhatsAppConfig carries the service URL, the country code, and every named
// wait the dispatcher and session manager perform.
type WhatsAppConfig struct {
	BaseURL     string `mapstructure:"base_url" yaml:"base_url"`
	CountryCode string `mapstructure:"country_code" yaml:"country_code"`

	// ComposerTimeout bounds each wait for the message composer to become
	// interactive after navigating to a chat.
	ComposerTimeout time.Duration `mapstructure:"composer_timeout" yaml:"composer_timeout"`
	// LoginProbeTimeout is the short wait used to detect an already
	// restored session before prompting for a QR scan.
	LoginProbeTimeout time.Duration `mapstructure:"login_probe_timeout" yaml:"login_probe_timeout"`
	// LoginWaitTimeout is the long wait for the operator to scan the QR code.
	LoginWaitTimeout time.Duration `mapstructure:"login_wait_timeout" yaml:"login_wait_timeout"`

	// SettleDelay: wait for the composer to accept input after navigation.
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	// TypeSettleDelay: wait between finishing typing and triggering send.
	TypeSettleDelay time.Duration `mapstructure:"type_settle_delay" yaml:"type_settle_delay"`
	// UploadSettleDelay: wait for the attachment preview to render after
	// injecting a file path into the upload input.
	UploadSettleDelay time.Duration `mapstructure:"upload_settle_delay" yaml:"upload_settle_delay"`
	// PostSendDelay: wait after triggering send before navigating away, so
	// the outgoing message is not lost to the page change.
	PostSendDelay time.Duration `mapstructure:"post_send_delay" yaml:"post_send_delay"`
}

// CampaignConfig controls bulk-send pacing.
type CampaignConfig struct {
	// DefaultDelay is the fixed wait between consecutive sends.
	DefaultDelay time.Duration `mapstructure:"default_delay" yaml:"default_delay"`
	// RatePerMinute additionally caps throughput when positive; 0 disables
	// the limiter and leaves DefaultDelay as the only pacing.
	RatePerMinute int `mapstructure:"rate_per_minute" yaml:"rate_per_minute"`
}

// NewDefaultConfig returns a fully populated configuration with defaults
// matching the documented behavior of the automator.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "wasend",
			MaxSize:     20,
			MaxBackups:  3,
			MaxAge:      14,
		},
		Browser: BrowserConfig{
			Headless:       false,
			ProfileDir:     defaultProfileDir(),
			PersistSession: true,
			WindowWidth:    1200,
			WindowHeight:   800,
		},
		WhatsApp: WhatsAppConfig{
			BaseURL:           "https://web.whatsapp.com",
			ComposerTimeout:   30 * time.Second,
			LoginProbeTimeout: 10 * time.Second,
			LoginWaitTimeout:  300 * time.Second,
			SettleDelay:       time.Second,
			TypeSettleDelay:   500 * time.Millisecond,
			UploadSettleDelay: 4 * time.Second,
			PostSendDelay:     2 * time.Second,
		},
		Campaign: CampaignConfig{
			DefaultDelay:  5 * time.Second,
			RatePerMinute: 0,
		},
	}
}

// defaultProfileDir places the Chrome profile in a fixed, well-known
// directory under the user's home so re-login is not required across runs.
func defaultProfileDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(".wasend", "chrome-profile")
	}
	return filepath.Join(home, ".wasend", "chrome-profile")
}

// Load unmarshals the viper state on top of the defaults.
func Load(v *viper.Viper) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that would produce unbounded waits or an
// unusable browser.
func (c *Config) Validate() error {
	if c.WhatsApp.BaseURL == "" {
		return fmt.Errorf("whatsapp.base_url must not be empty")
	}
	if c.WhatsApp.ComposerTimeout <= 0 {
		return fmt.Errorf("whatsapp.composer_timeout must be positive")
	}
	if c.WhatsApp.LoginProbeTimeout <= 0 || c.WhatsApp.LoginWaitTimeout <= 0 {
		return fmt.Errorf("whatsapp login timeouts must be positive")
	}
	if c.Campaign.DefaultDelay < 0 {
		return fmt.Errorf("campaign.default_delay must not be negative")
	}
	if c.Campaign.RatePerMinute < 0 {
		return fmt.Errorf("campaign.rate_per_minute must not be negative")
	}
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return fmt.Errorf("browser window dimensions must be positive")
	}
	return nil
}
