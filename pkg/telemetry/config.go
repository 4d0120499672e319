package telemetry

import "fmt"

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string `yaml:"level"`

	// Format specifies the log format (console, json).
	Format string `yaml:"format"`

	// Output specifies where logs are written (stdout, stderr, file path).
	Output string `yaml:"output"`
}

// Validate checks the logging configuration.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Level)
	}
	switch c.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Format)
	}
	return nil
}

// MetricsConfig configures Prometheus metrics collection.
type MetricsConfig struct {
	// Enabled turns metrics collection on.
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes all metric names, "pacfix" when empty.
	Namespace string `yaml:"namespace"`

	// ListenAddress serves /metrics when non-empty (e.g. ":9477").
	ListenAddress string `yaml:"listen_address"`
}

// Validate checks the metrics configuration.
func (c MetricsConfig) Validate() error {
	if !c.Enabled && c.ListenAddress != "" {
		return fmt.Errorf("metrics listen address set but metrics disabled")
	}
	return nil
}
