package builder

import "errors"

var (
	// ErrNilTable is returned when no raw table is supplied
	ErrNilTable = errors.New("raw table is required")
	// ErrEmptyTable is returned when the raw table has no rows
	ErrEmptyTable = errors.New("raw table has no rows")
	// ErrNilSpec is returned when no lag spec is supplied
	ErrNilSpec = errors.New("lag spec is required")
	// ErrInvalidKind is returned when the build kind is not train or forecast
	ErrInvalidKind = errors.New("kind must be 'train' or 'forecast'")
	// ErrInsufficientRows is returned when the raw table is too short for the
	// requested lags and horizon
	ErrInsufficientRows = errors.New("raw table has too few rows for the requested lags and horizon")
)
