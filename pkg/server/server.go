package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/forecastlab/lbt/pkg/builder"
	"github.com/forecastlab/lbt/pkg/cache"
	"github.com/forecastlab/lbt/pkg/dataset"
	"github.com/forecastlab/lbt/pkg/lagspec"
	"github.com/forecastlab/lbt/pkg/observability"
)

// resultKey is the cache slot holding the most recent build.
const resultKey = "latest"

// Options bundle the collaborators needed to run the API server.
type Options struct {
	Config  *Config
	Dataset *dataset.Config
	Spec    *lagspec.Spec
	Kind    builder.Kind
	// Cache is optional; when set, builds are written through to Redis and
	// loaded back on startup.
	Cache *cache.Config
}

// Service is the API server: it owns the current build result, rebuilds it
// on the configured schedule, and serves tables and lag profiles.
type Service struct {
	log     logrus.FieldLogger
	opts    Options
	builder builder.Service

	mu      sync.RWMutex
	current *builder.Result

	cacheManager *cache.Manager
	cron         *cron.Cron
	server       *http.Server
}

// New creates a new API server.
func New(log logrus.FieldLogger, opts Options) (*Service, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	if err := opts.Dataset.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		log:     log.WithField("service", "server"),
		opts:    opts,
		builder: builder.NewService(log),
	}

	if opts.Cache != nil {
		if err := opts.Cache.Validate(); err != nil {
			return nil, err
		}

		client := redis.NewClient(&redis.Options{Addr: opts.Cache.Address})
		s.cacheManager = cache.NewManager(client, opts.Cache)
	}

	return s, nil
}

// Start runs the server until the context is canceled or a signal arrives.
func (s *Service) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := s.initialBuild(ctx); err != nil {
		return err
	}

	observability.StartMetricsServer(s.opts.Config.MetricsAddr)

	if err := s.startRefresh(ctx); err != nil {
		return err
	}

	s.startAPI()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return s.Stop()
	})

	s.log.WithField("addr", s.opts.Config.Addr).Info("Server started")

	return g.Wait()
}

// Stop gracefully shuts down the API server and the refresh schedule.
func (s *Service) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}

	if s.server == nil {
		return nil
	}

	s.log.Info("Stopping API server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// initialBuild loads a cached result if one exists, otherwise builds fresh.
func (s *Service) initialBuild(ctx context.Context) error {
	if s.cacheManager != nil {
		cached, err := s.cacheManager.GetResult(ctx, resultKey)
		if err != nil {
			s.log.WithError(err).Warn("Failed to read cached result, rebuilding")
		} else if cached != nil {
			s.log.WithField("build_id", cached.ID).Info("Loaded build result from cache")
			s.setResult(cached)
			return nil
		}
	}

	return s.rebuild(ctx)
}

// rebuild reloads the dataset and rebuilds all horizon tables.
func (s *Service) rebuild(ctx context.Context) error {
	raw, freq, err := dataset.Load(s.opts.Dataset)
	if err != nil {
		observability.DatasetRefreshes.WithLabelValues("failed").Inc()
		return err
	}

	result, err := s.builder.Build(ctx, builder.Request{
		Table:     raw,
		Kind:      s.opts.Kind,
		Spec:      s.opts.Spec,
		Frequency: freq,
	})
	if err != nil {
		observability.DatasetRefreshes.WithLabelValues("failed").Inc()
		return err
	}

	s.setResult(result)
	observability.DatasetRefreshes.WithLabelValues("success").Inc()

	if s.cacheManager != nil {
		if cacheErr := s.cacheManager.SetResult(ctx, resultKey, result); cacheErr != nil {
			s.log.WithError(cacheErr).Warn("Failed to cache build result")
		}
	}

	return nil
}

// startRefresh schedules dataset reloads when a refresh cron is configured.
func (s *Service) startRefresh(ctx context.Context) error {
	if s.opts.Config.Refresh == "" {
		return nil
	}

	s.cron = cron.New()

	_, err := s.cron.AddFunc(s.opts.Config.Refresh, func() {
		if err := s.rebuild(ctx); err != nil {
			s.log.WithError(err).Error("Scheduled rebuild failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.opts.Config.Refresh, err)
	}

	s.cron.Start()
	s.log.WithField("schedule", s.opts.Config.Refresh).Info("Dataset refresh scheduled")

	return nil
}

// startAPI builds the Fiber app and serves it on the configured address.
func (s *Service) startAPI() {
	app := s.newApp()

	s.server = &http.Server{
		Addr:              s.opts.Config.Addr,
		Handler:           adaptor.FiberApp(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.log.WithField("addr", s.opts.Config.Addr).Info("Starting API server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Server failed to start")
		}
	}()
}

// newApp assembles the Fiber app and its routes.
func (s *Service) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		AppName:      "lbt API",
	})

	setupMiddleware(app)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/status", s.handleStatus)
	apiV1.Get("/horizons", s.handleHorizons)
	apiV1.Get("/tables/:horizon", s.handleTable)
	apiV1.Get("/profiles", s.handleProfiles)
	apiV1.Get("/profiles/:feature", s.handleFeatureProfiles)

	return app
}

func (s *Service) setResult(result *builder.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = result
}

func (s *Service) currentResult() *builder.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}
