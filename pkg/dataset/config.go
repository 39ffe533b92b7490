// Package dataset loads raw feature tables from CSV files and validates
// their date alignment.
package dataset

import "errors"

var (
	// ErrPathRequired is returned when no dataset path is configured
	ErrPathRequired = errors.New("dataset path is required")
	// ErrFrequencyRequired is returned when a date column is configured without a frequency
	ErrFrequencyRequired = errors.New("dataset frequency is required when a date column is set")
)

// Config holds dataset source configuration.
type Config struct {
	// Path is the CSV file to load
	Path string `yaml:"path"`
	// DateColumn names the column holding row dates, if any
	DateColumn string `yaml:"date_column,omitempty"`
	// Frequency is the sampling interval, e.g. "1 month"
	Frequency string `yaml:"frequency,omitempty"`
	// DateFormat is the Go reference layout for parsing dates
	DateFormat string `yaml:"date_format,omitempty" default:"2006-01-02"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Path == "" {
		return ErrPathRequired
	}

	if c.DateColumn != "" && c.Frequency == "" {
		return ErrFrequencyRequired
	}

	if c.DateFormat == "" {
		c.DateFormat = "2006-01-02"
	}

	return nil
}
