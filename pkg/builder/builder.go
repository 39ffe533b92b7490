// Package builder materializes per-horizon lagged predictor tables for
// direct multi-horizon forecasting from a raw table and a lag specification.
package builder

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/forecastlab/lbt/pkg/dateseq"
	"github.com/forecastlab/lbt/pkg/lagspec"
	"github.com/forecastlab/lbt/pkg/observability"
	"github.com/forecastlab/lbt/pkg/table"
)

// Service defines the lagged-table build interface.
type Service interface {
	// Build resolves the lag spec, applies the horizon compatibility filter,
	// and materializes one lagged table per horizon. All validation errors
	// surface before any table is constructed.
	Build(ctx context.Context, req Request) (*Result, error)
}

type service struct {
	log logrus.FieldLogger
}

// NewService creates a new build service.
func NewService(log logrus.FieldLogger) Service {
	return &service{
		log: log.WithField("service", "builder"),
	}
}

// Build implements Service.
func (s *service) Build(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()

	result, err := s.build(ctx, req)

	status := "success"
	if err != nil {
		status = "failed"
	}
	observability.BuildsTotal.WithLabelValues(string(req.Kind), status).Inc()
	observability.BuildDuration.WithLabelValues(string(req.Kind)).Observe(time.Since(started).Seconds())

	return result, err
}

func (s *service) build(ctx context.Context, req Request) (*Result, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	// Fail-fast: the full spec is resolved and validated before any horizon
	// table is constructed, so partial output is never observable.
	resolved, err := lagspec.Resolve(req.Table.ColumnNames(), req.Spec)
	if err != nil {
		return nil, err
	}

	filters := make(map[int]map[string]lagspec.FeatureFilter, len(resolved.Horizons))
	for _, h := range resolved.Horizons {
		filters[h] = lagspec.Filter(resolved, h)
	}

	result := &Result{
		ID:        uuid.New(),
		Kind:      req.Kind,
		CreatedAt: time.Now().UTC(),
		Horizons:  resolved.Horizons,
		Tables:    make(map[int]*table.Table, len(resolved.Horizons)),
		Profiles:  buildProfiles(resolved, filters),
	}

	// Each horizon is a pure function of the immutable inputs, so the
	// constructions run concurrently with no synchronization beyond the
	// result slot per horizon.
	tables := make([]*table.Table, len(resolved.Horizons))

	g, ctx := errgroup.WithContext(ctx)
	for i, h := range resolved.Horizons {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			built, buildErr := buildHorizon(req.Table, resolved, filters[h], h, req.Kind, req.Frequency)
			if buildErr != nil {
				return buildErr
			}

			tables[i] = built

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, h := range resolved.Horizons {
		result.Tables[h] = tables[i]

		label := strconv.Itoa(h)
		observability.HorizonTablesBuilt.WithLabelValues(label).Inc()
		observability.LagColumnsBuilt.WithLabelValues(label).Add(float64(countPredictorColumns(tables[i], resolved)))
		observability.LagsDropped.WithLabelValues(label).Add(float64(countDropped(filters[h])))
	}

	result.Warnings = s.collectWarnings(resolved, filters)

	s.log.WithFields(logrus.Fields{
		"build_id": result.ID,
		"kind":     result.Kind,
		"horizons": len(result.Horizons),
		"warnings": len(result.Warnings),
	}).Info("Lagged tables built")

	return result, nil
}

func (s *service) validateRequest(req Request) error {
	if req.Table == nil {
		return ErrNilTable
	}

	if req.Table.NumRows() == 0 {
		return ErrEmptyTable
	}

	if req.Spec == nil {
		return ErrNilSpec
	}

	if err := req.Kind.Validate(); err != nil {
		return err
	}

	// Attached dates are validated against the stated frequency up front;
	// the date collaborator's error propagates unchanged.
	if req.Frequency != nil && req.Table.Dates() != nil {
		if err := dateseq.Validate(req.Table.Dates(), *req.Frequency); err != nil {
			return err
		}
	}

	return nil
}

// collectWarnings emits the empty-horizon advisory: dropping incompatible
// lags is intended behavior, so an emptied horizon is never an error, but
// callers get a hint that the table is outcome-only.
func (s *service) collectWarnings(resolved *lagspec.Resolved, filters map[int]map[string]lagspec.FeatureFilter) []Warning {
	var warnings []Warning

	for _, h := range resolved.Horizons {
		if hasPredictorColumns(filters[h]) {
			continue
		}

		observability.EmptyHorizons.WithLabelValues(strconv.Itoa(h)).Inc()

		s.log.WithField("horizon", h).Warn("No predictor columns survived the horizon filter; table is outcome-only")
		warnings = append(warnings, Warning{
			Horizon: h,
			Message: "no predictor columns survived the horizon compatibility filter",
		})
	}

	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Horizon < warnings[j].Horizon })

	return warnings
}

func hasPredictorColumns(filters map[string]lagspec.FeatureFilter) bool {
	for _, f := range filters {
		if len(f.Retained) > 0 {
			return true
		}
	}

	return false
}

func countDropped(filters map[string]lagspec.FeatureFilter) int {
	total := 0
	for _, f := range filters {
		total += len(f.Dropped)
	}

	return total
}

func countPredictorColumns(t *table.Table, resolved *lagspec.Resolved) int {
	count := 0
	for _, name := range t.ColumnNames() {
		if !resolved.IsOutcome(name) {
			count++
		}
	}

	return count
}

// buildProfiles assembles the per-feature, per-horizon lag-profile metadata
// consumed by external renderers.
func buildProfiles(resolved *lagspec.Resolved, filters map[int]map[string]lagspec.FeatureFilter) []Profile {
	profiles := make([]Profile, 0, len(resolved.Predictors)*len(resolved.Horizons))

	for _, feature := range resolved.Predictors {
		for _, h := range resolved.Horizons {
			entry := resolved.Entries[h][feature]
			filter := filters[h][feature]

			profiles = append(profiles, Profile{
				Feature:   feature,
				Horizon:   h,
				Requested: entry.Offsets,
				Retained:  filter.Retained,
				Dropped:   filter.Dropped,
				Removed:   entry.Removed,
			})
		}
	}

	return profiles
}
