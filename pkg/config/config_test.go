package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "pacman", cfg.PackageManager)
	assert.Equal(t, "fixConflicts.log", cfg.LogFile)
	assert.Equal(t, "/var/lib/pacman/db.lck", cfg.LockPath)
	assert.Equal(t, 2, cfg.RemoveAttempts)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadMissingDefaultPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().PackageManager, cfg.PackageManager)
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pacfix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
package_manager: pamac
no_sudo: true
log_file: /tmp/resolution.log
lock_timeout: 30s
remove_attempts: 3
logging:
  level: debug
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pamac", cfg.PackageManager)
	assert.True(t, cfg.NoSudo)
	assert.Equal(t, "/tmp/resolution.log", cfg.LogFile)
	assert.Equal(t, 30*time.Second, cfg.LockTimeout.Std())
	assert.Equal(t, 3, cfg.RemoveAttempts)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Untouched fields keep their defaults.
	assert.Equal(t, "/var/lib/pacman/db.lck", cfg.LockPath)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"empty package manager": "package_manager: \"\"\n",
		"bad remove attempts":   "remove_attempts: 0\n",
		"bad log level":         "logging:\n  level: loud\n",
		"metrics address without enable": "metrics:\n  listen_address: \":9477\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "pacfix.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pacfix.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_file: \"unterminated\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
