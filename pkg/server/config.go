// Package server exposes built lagged tables and lag-profile metadata over a
// read-only HTTP API, with optional scheduled dataset refresh.
package server

import "errors"

var (
	// ErrAddrRequired is returned when no API address is configured
	ErrAddrRequired = errors.New("server address is required")
)

// Config represents API server configuration.
type Config struct {
	// Addr is the API listen address
	Addr string `yaml:"addr" default:":8080"`
	// MetricsAddr is the Prometheus metrics listen address
	MetricsAddr string `yaml:"metricsAddr" default:":9090"`
	// Refresh is an optional cron expression for reloading the dataset and
	// rebuilding the tables, e.g. "@hourly"
	Refresh string `yaml:"refresh,omitempty"`
}

// Validate validates the server configuration.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return ErrAddrRequired
	}

	if c.MetricsAddr == "" {
		c.MetricsAddr = ":9090"
	}

	return nil
}
