package builder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forecastlab/lbt/pkg/dateseq"
	"github.com/forecastlab/lbt/pkg/lagspec"
	"github.com/forecastlab/lbt/pkg/table"
)

// Kind selects what the per-horizon tables are built for.
type Kind string

const (
	// KindTrain builds model-training tables with horizon-shifted outcomes
	KindTrain Kind = "train"
	// KindForecast builds forecast-origin predictor rows without outcomes
	KindForecast Kind = "forecast"
)

// Validate checks that the kind is one of the supported values.
func (k Kind) Validate() error {
	if k != KindTrain && k != KindForecast {
		return fmt.Errorf("%w: got %q", ErrInvalidKind, string(k))
	}

	return nil
}

// Request describes one lagged-table build. The table and spec are treated as
// immutable for the duration of the build.
type Request struct {
	// Table is the raw feature table; dates, if any, are attached to it
	Table *table.Table
	// Kind selects train or forecast construction
	Kind Kind
	// Spec is the raw lag specification to resolve
	Spec *lagspec.Spec
	// Frequency is the sampling frequency; required to date forecast rows
	// and to validate attached dates, optional otherwise
	Frequency *dateseq.Frequency
}

// Profile records, for one (feature, horizon) pair, which requested lag
// offsets survived the horizon compatibility filter. It is metadata for
// external renderers; no plotting happens here.
type Profile struct {
	Feature   string `json:"feature"`
	Horizon   int    `json:"horizon"`
	Requested []int  `json:"requested"`
	Retained  []int  `json:"retained"`
	Dropped   []int  `json:"dropped"`
	Removed   bool   `json:"removed"`
}

// Warning is a non-fatal advisory attached to a build result. The only kind
// emitted today is the empty-horizon advisory: a horizon whose predictor set
// filtered to nothing still yields an outcome-only table.
type Warning struct {
	Horizon int    `json:"horizon"`
	Message string `json:"message"`
}

// Result is the outcome of one build: one lagged table per horizon plus the
// lag-profile metadata and any advisories.
type Result struct {
	ID        uuid.UUID            `json:"id"`
	Kind      Kind                 `json:"kind"`
	CreatedAt time.Time            `json:"created_at"`
	Horizons  []int                `json:"horizons"`
	Tables    map[int]*table.Table `json:"tables"`
	Profiles  []Profile            `json:"profiles"`
	Warnings  []Warning            `json:"warnings,omitempty"`
}

// lagSeparator joins a feature name and its lag offset in generated column
// names. Dynamic (offset 0) features keep their bare name.
const lagSeparator = "_lag_"

// LagColumnName returns the deterministic column name for a (feature, lag)
// pair, e.g. "PetrolPrice_lag_12".
func LagColumnName(feature string, lag int) string {
	return fmt.Sprintf("%s%s%d", feature, lagSeparator, lag)
}

// ParseColumn decodes a generated column name back into its feature and lag
// offset. Names without a lag suffix decode as lag 0 (dynamic or outcome).
func ParseColumn(name string) (feature string, lag int) {
	idx := strings.LastIndex(name, lagSeparator)
	if idx < 0 {
		return name, 0
	}

	lag, err := strconv.Atoi(name[idx+len(lagSeparator):])
	if err != nil {
		return name, 0
	}

	return name[:idx], lag
}
