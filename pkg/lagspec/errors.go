package lagspec

import "errors"

var (
	// ErrSpecMismatch is returned when the lag spec does not cover the
	// predictor columns for some horizon, or references unknown columns
	ErrSpecMismatch = errors.New("lag spec does not match predictor columns")
	// ErrInvalidHorizon is returned when a horizon is missing or not a positive integer
	ErrInvalidHorizon = errors.New("horizon must be a positive integer")
	// ErrInvalidLagEntry is returned when a lag entry has an invalid YAML type or value
	ErrInvalidLagEntry = errors.New("lag entry must be an integer, a range string, a list of integers, or 'remove'")
	// ErrOutcomeRequired is returned when no outcome column is specified
	ErrOutcomeRequired = errors.New("at least one outcome column is required")
)
