// Package testutil provides test utilities for lbt, including:
//   - Deterministic dataset fixtures (fixtures.go)
//   - Miniredis helpers for cache unit tests (miniredis.go)
//
// No Docker is required; all helpers work with regular `go test`.
package testutil

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger that discards output, for use in unit tests.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return log
}
