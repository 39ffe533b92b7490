package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// BuildsTotal tracks the total number of lagged-table builds
	BuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lbt_builds_total",
			Help: "Total number of lagged-table builds",
		},
		[]string{"kind", "status"}, // status: success, failed
	)

	// BuildDuration measures build duration in seconds
	BuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lbt_build_duration_seconds",
			Help:    "Lagged-table build duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"kind"},
	)

	// HorizonTablesBuilt counts per-horizon tables produced
	HorizonTablesBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lbt_horizon_tables_built_total",
			Help: "Total number of per-horizon lagged tables produced",
		},
		[]string{"horizon"},
	)

	// LagColumnsBuilt counts lagged predictor columns materialized
	LagColumnsBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lbt_lag_columns_built_total",
			Help: "Total number of lagged predictor columns materialized",
		},
		[]string{"horizon"},
	)

	// LagsDropped counts offsets discarded by the horizon compatibility filter
	LagsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lbt_lags_dropped_total",
			Help: "Total number of lag offsets dropped as incompatible with their horizon",
		},
		[]string{"horizon"},
	)

	// EmptyHorizons counts horizons whose predictor set filtered to empty
	EmptyHorizons = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lbt_empty_horizons_total",
			Help: "Total number of horizons left with zero predictor columns after filtering",
		},
		[]string{"horizon"},
	)

	// DatasetRefreshes counts scheduled dataset reloads in serve mode
	DatasetRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lbt_dataset_refreshes_total",
			Help: "Total number of scheduled dataset refreshes",
		},
		[]string{"status"}, // status: success, failed
	)
)
