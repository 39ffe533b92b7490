// Package cache provides a Redis-backed store for build results so serve
// restarts and API readers do not force a rebuild.
package cache

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAddressRequired is returned when the Redis address is missing
	ErrAddressRequired = errors.New("redis address is required")
)

// Config holds Redis cache configuration.
type Config struct {
	Address string        `yaml:"address"`
	Prefix  string        `yaml:"prefix" default:"lbt"`
	TTL     time.Duration `yaml:"ttl" default:"24h"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrAddressRequired
	}

	if c.Prefix == "" {
		c.Prefix = "lbt"
	}

	if c.TTL == 0 {
		c.TTL = 24 * time.Hour
	}

	return nil
}

// PrefixKey adds the configured prefix to a Redis key.
func (c *Config) PrefixKey(key string) string {
	return fmt.Sprintf("%s:%s", c.Prefix, key)
}
