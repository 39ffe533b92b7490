package cmd

import (
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/forecastlab/lbt/pkg/builder"
	"github.com/forecastlab/lbt/pkg/cache"
	"github.com/forecastlab/lbt/pkg/dataset"
	"github.com/forecastlab/lbt/pkg/lagspec"
	"github.com/forecastlab/lbt/pkg/server"
)

// Config is the top-level lbt configuration file.
type Config struct {
	// Logging level
	Logging string `yaml:"logging" default:"info" validate:"oneof=panic fatal warn info debug trace"`

	// Dataset is the raw table source
	Dataset dataset.Config `yaml:"dataset"`

	// Spec is the lag specification
	Spec lagspec.Spec `yaml:"spec"`

	// Kind selects train or forecast tables
	Kind builder.Kind `yaml:"kind" default:"train"`

	// Server configuration (only needed for serve)
	Server server.Config `yaml:"server"`

	// Cache configuration (optional, only needed for serve)
	Cache *cache.Config `yaml:"cache,omitempty"`
}

// Validate validates the configuration for build-style commands.
func (c *Config) Validate() error {
	if err := c.Dataset.Validate(); err != nil {
		return err
	}

	return c.Kind.Validate()
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	config := &Config{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(path) //nolint:gosec // User-provided config file path
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, err
	}

	return config, nil
}
