// File: internal/settings/settings_test.go
package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestOpenMissingFileUsesDefaults(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "settings.json"))

	assert.Equal(t, "", s.GetString(KeyCountryCode))
	assert.Equal(t, "5s", s.GetString(KeyDefaultDelay))
	assert.False(t, s.GetBool(KeyHeadlessMode))
	assert.True(t, s.GetBool(KeyPersistSession))
	assert.True(t, s.GetBool(KeyNotifyOnComplete))
}

func TestSetSaveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s := openTestStore(t, path)
	s.Set(KeyCountryCode, "49")
	s.Set(KeyHeadlessMode, true)
	require.NoError(t, s.Save())

	reloaded := openTestStore(t, path)
	assert.Equal(t, "49", reloaded.GetString(KeyCountryCode))
	assert.True(t, reloaded.GetBool(KeyHeadlessMode))
	// Untouched keys keep their defaults.
	assert.Equal(t, "5s", reloaded.GetString(KeyDefaultDelay))
}

func TestBackupAndRestore(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "settings.json")
	backup := filepath.Join(dir, "backup.json")

	s := openTestStore(t, original)
	s.Set(KeyCountryCode, "44")
	s.Set(KeyDefaultDelay, "8s")
	require.NoError(t, s.Save())
	require.NoError(t, s.Backup(backup))

	// Simulate a wiped store and restore from backup.
	fresh := openTestStore(t, filepath.Join(dir, "fresh.json"))
	assert.Equal(t, "", fresh.GetString(KeyCountryCode))
	require.NoError(t, fresh.Restore(backup))

	assert.Equal(t, "44", fresh.GetString(KeyCountryCode))
	assert.Equal(t, "8s", fresh.GetString(KeyDefaultDelay))

	// The restored state is persisted, not just in-memory.
	again := openTestStore(t, filepath.Join(dir, "fresh.json"))
	assert.Equal(t, "44", again.GetString(KeyCountryCode))
}

func TestRestoreReplacesWholeDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	backup := filepath.Join(dir, "backup.json")

	s := openTestStore(t, path)
	s.Set(KeyCountryCode, "44")
	require.NoError(t, s.Save())
	require.NoError(t, s.Backup(backup))

	// A key written after the backup must not survive the restore.
	s.Set("experimental_note", "drop me")
	require.NoError(t, s.Save())
	require.NoError(t, s.Restore(backup))

	assert.Equal(t, "44", s.GetString(KeyCountryCode))
	assert.Nil(t, s.Get("experimental_note"))
	assert.False(t, s.IsSet("experimental_note"))

	reloaded := openTestStore(t, path)
	assert.Nil(t, reloaded.Get("experimental_note"))
}
