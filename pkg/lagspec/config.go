// Package lagspec resolves user-supplied lag specifications into explicit
// per-horizon, per-feature lag offset sets and applies the horizon
// compatibility filter used for direct multi-horizon forecasting.
package lagspec

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// removeMarker is the YAML scalar that removes a (horizon, feature) slot.
// An explicit removal yields zero columns for that slot; an absent slot is a
// validation error. The two must never be conflated.
const removeMarker = "remove"

// Entry is one (horizon, feature) lag slot: either an explicit set of lag
// offsets or the removal marker.
type Entry struct {
	// Removed indicates the slot was explicitly removed
	Removed bool
	// Offsets holds the requested lag offsets when not removed
	Offsets []int
}

// UnmarshalYAML implements custom YAML unmarshaling for the mixed entry
// forms: an integer scalar, a range string like "1:12", a sequence of
// integers or range strings, or the removal marker.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return e.unmarshalScalar(node)
	case yaml.SequenceNode:
		e.Removed = false
		e.Offsets = make([]int, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: got %v in sequence", ErrInvalidLagEntry, item.Kind)
			}
			offsets, err := parseScalarOffsets(item.Value)
			if err != nil {
				return err
			}
			e.Offsets = append(e.Offsets, offsets...)
		}
		return nil
	case yaml.DocumentNode, yaml.MappingNode, yaml.AliasNode:
		return fmt.Errorf("%w: got %v", ErrInvalidLagEntry, node.Kind)
	default:
		return fmt.Errorf("%w: got %v", ErrInvalidLagEntry, node.Kind)
	}
}

func (e *Entry) unmarshalScalar(node *yaml.Node) error {
	if strings.EqualFold(strings.TrimSpace(node.Value), removeMarker) {
		e.Removed = true
		e.Offsets = nil
		return nil
	}

	offsets, err := parseScalarOffsets(node.Value)
	if err != nil {
		return err
	}

	e.Removed = false
	e.Offsets = offsets

	return nil
}

// MarshalYAML implements custom YAML marshaling for the mixed entry forms.
func (e Entry) MarshalYAML() (interface{}, error) {
	if e.Removed {
		return removeMarker, nil
	}

	return e.Offsets, nil
}

// parseScalarOffsets parses a single integer ("3") or an inclusive range
// ("1:12", R-style) into a list of offsets.
func parseScalarOffsets(value string) ([]int, error) {
	value = strings.TrimSpace(value)

	if lo, hi, ok := strings.Cut(value, ":"); ok {
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("%w: bad range start %q", ErrInvalidLagEntry, value)
		}
		end, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("%w: bad range end %q", ErrInvalidLagEntry, value)
		}

		if start > end {
			start, end = end, start
		}

		offsets := make([]int, 0, end-start+1)
		for k := start; k <= end; k++ {
			offsets = append(offsets, k)
		}

		return offsets, nil
	}

	k, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLagEntry, value)
	}

	return []int{k}, nil
}

// Lags holds the raw lag specification: either a single global entry applied
// to every horizon and feature, or explicit per-horizon, per-feature entries.
type Lags struct {
	// Global is the shorthand entry applied everywhere when set
	Global *Entry
	// PerHorizon maps horizon to feature to entry when fully specified
	PerHorizon map[int]map[string]Entry
}

// UnmarshalYAML implements custom YAML unmarshaling: a scalar or sequence is
// the global shorthand, a mapping is the per-horizon form.
func (l *Lags) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.SequenceNode:
		entry := &Entry{}
		if err := entry.UnmarshalYAML(node); err != nil {
			return err
		}
		if entry.Removed {
			return fmt.Errorf("%w: global shorthand cannot be %q", ErrInvalidLagEntry, removeMarker)
		}
		l.Global = entry
		return nil
	case yaml.MappingNode:
		l.PerHorizon = make(map[int]map[string]Entry)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			horizon, err := strconv.Atoi(keyNode.Value)
			if err != nil {
				return fmt.Errorf("%w: horizon key %q", ErrInvalidHorizon, keyNode.Value)
			}

			features := make(map[string]Entry)
			if err := node.Content[i+1].Decode(&features); err != nil {
				return err
			}

			l.PerHorizon[horizon] = features
		}
		return nil
	case yaml.DocumentNode, yaml.AliasNode:
		return fmt.Errorf("%w: got %v", ErrInvalidLagEntry, node.Kind)
	default:
		return fmt.Errorf("%w: got %v", ErrInvalidLagEntry, node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for the mixed lags forms.
func (l Lags) MarshalYAML() (interface{}, error) {
	if l.Global != nil {
		return *l.Global, nil
	}

	return l.PerHorizon, nil
}

// Spec is the user-facing lag specification for one build.
type Spec struct {
	// Horizons are the direct-forecast horizons, in time steps
	Horizons []int `yaml:"horizons"`
	// Outcomes are the forecast target columns, never lagged as predictors
	Outcomes []string `yaml:"outcomes"`
	// Dynamic are features forced to offset 0 at every horizon
	Dynamic []string `yaml:"dynamic,omitempty"`
	// Lags is the per-horizon, per-feature lag specification or a global shorthand
	Lags Lags `yaml:"lags"`
}

// Validate checks the spec's own shape, independent of any table.
func (s *Spec) Validate() error {
	if len(s.Horizons) == 0 {
		return fmt.Errorf("%w: no horizons specified", ErrInvalidHorizon)
	}

	for _, h := range s.Horizons {
		if h <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidHorizon, h)
		}
	}

	if len(s.Outcomes) == 0 {
		return ErrOutcomeRequired
	}

	if s.Lags.Global == nil && s.Lags.PerHorizon == nil {
		return fmt.Errorf("%w: no lags specified", ErrSpecMismatch)
	}

	return nil
}
