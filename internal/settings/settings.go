// File: internal/settings/settings.go
// Description: Flat key-value store for operator settings, backed by a JSON
// document. Backup and restore are a direct dump/load of the document.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Well-known setting keys.
const (
	KeyCountryCode      = "country_code"
	KeyDefaultDelay     = "default_delay"
	KeyTimeout          = "timeout"
	KeyHeadlessMode     = "headless_mode"
	KeyPersistSession   = "persist_session"
	KeyNotifyOnComplete = "notify_on_complete"
	KeyNotifyOnError    = "notify_on_error"
)

// Store is a file-backed flat key-value document.
type Store struct {
	v      *viper.Viper
	path   string
	logger *zap.Logger
}

// DefaultPath returns the settings file location under the user's home.
func DefaultPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(".wasend", "settings.json")
	}
	return filepath.Join(home, ".wasend", "settings.json")
}

// newDocument creates an empty settings document with the defaults applied.
func newDocument(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault(KeyCountryCode, "")
	v.SetDefault(KeyDefaultDelay, "5s")
	v.SetDefault(KeyTimeout, "30s")
	v.SetDefault(KeyHeadlessMode, false)
	v.SetDefault(KeyPersistSession, true)
	v.SetDefault(KeyNotifyOnComplete, true)
	v.SetDefault(KeyNotifyOnError, true)
	return v
}

// Open loads the settings document at path, creating an in-memory document
// with defaults when the file does not exist yet.
func Open(path string, logger *zap.Logger) (*Store, error) {
	v := newDocument(path)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}
	// Missing file: start from defaults.

	return &Store{v: v, path: path, logger: logger.Named("settings")}, nil
}

// Get returns the raw value for a key.
func (s *Store) Get(key string) any { return s.v.Get(key) }

// GetString returns a string setting.
func (s *Store) GetString(key string) string { return s.v.GetString(key) }

// GetBool returns a boolean setting.
func (s *Store) GetBool(key string) bool { return s.v.GetBool(key) }

// GetDuration returns a duration setting such as "5s".
func (s *Store) GetDuration(key string) time.Duration { return s.v.GetDuration(key) }

// IsSet reports whether a key is present in the document (not a default).
func (s *Store) IsSet(key string) bool { return s.v.InConfig(key) }

// Set stores a value under a key. The change is in-memory until Save.
func (s *Store) Set(key string, value any) { s.v.Set(key, value) }

// All returns the full document as a map.
func (s *Store) All() map[string]any { return s.v.AllSettings() }

// Save persists the document to its backing file.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Info("Settings saved", zap.String("path", s.path))
	return nil
}

// Backup dumps the current document to another file.
func (s *Store) Backup(path string) error {
	if err := s.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to back up settings: %w", err)
	}
	s.logger.Info("Settings backed up", zap.String("path", path))
	return nil
}

// Restore replaces the whole document with the contents of the given backup
// file and persists the result. Keys present locally but absent from the
// backup do not survive.
func (s *Store) Restore(path string) error {
	restored := newDocument(path)
	if err := restored.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read backup %s: %w", path, err)
	}
	restored.SetConfigFile(s.path)
	s.v = restored
	if err := s.Save(); err != nil {
		return err
	}
	s.logger.Info("Settings restored", zap.String("from", path))
	return nil
}
