// Package config loads the pacfix configuration: a flat YAML file with
// working defaults, so the zero configuration runs out of the box on a
// stock Arch-family system.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pacfix/pacfix/pkg/telemetry"
)

// DefaultPath is consulted when no --config flag is given.
const DefaultPath = "/etc/pacfix.yaml"

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" as well as from plain integers (seconds).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var seconds int64
	if err := value.Decode(&seconds); err == nil {
		*d = Duration(time.Duration(seconds) * time.Second)
		return nil
	}
	var text string
	if err := value.Decode(&text); err != nil {
		return fmt.Errorf("invalid duration: %s", value.Value)
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full tool configuration.
type Config struct {
	// PackageManager is the package manager binary.
	PackageManager string `yaml:"package_manager" validate:"required"`

	// NoSudo drops the sudo prefix from mutating commands.
	NoSudo bool `yaml:"no_sudo"`

	// LogFile is where the resolution report is written.
	LogFile string `yaml:"log_file" validate:"required"`

	// HistoryDB is the run-history SQLite database; empty disables history.
	HistoryDB string `yaml:"history_db"`

	// LockPath is the package database lock file.
	LockPath string `yaml:"lock_path" validate:"required"`

	// LockTimeout bounds the wait for the database lock; zero disables
	// waiting.
	LockTimeout Duration `yaml:"lock_timeout" validate:"min=0"`

	// RemoveAttempts caps uninstall retries.
	RemoveAttempts int `yaml:"remove_attempts" validate:"min=1,max=10"`

	// Logging configures structured logging.
	Logging telemetry.LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics telemetry.MetricsConfig `yaml:"metrics"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		PackageManager: "pacman",
		LogFile:        "fixConflicts.log",
		HistoryDB:      defaultHistoryDB(),
		LockPath:       "/var/lib/pacman/db.lck",
		LockTimeout:    Duration(2 * time.Minute),
		RemoveAttempts: 2,
		Logging: telemetry.LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Load reads the configuration from path. A missing file at the default
// path yields the defaults; a missing file at an explicit path is an
// error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return c.Metrics.Validate()
}

func defaultHistoryDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.local/share/pacfix/history.db"
}
