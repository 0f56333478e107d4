// Package app implements the application layer for parc.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.trai.ch/parc/internal/adapters/cache"
	"go.trai.ch/parc/internal/adapters/deps"
	"go.trai.ch/parc/internal/adapters/fs"
	"go.trai.ch/parc/internal/adapters/metastore"
	"go.trai.ch/parc/internal/adapters/shell"
	"go.trai.ch/parc/internal/core/domain"
	"go.trai.ch/parc/internal/core/ports"
	"go.trai.ch/parc/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App wires configuration, discovery, graph construction, and scheduling into
// one run.
type App struct {
	loader    ports.ConfigLoader
	lister    ports.SourceLister
	logger    ports.Logger
	telemetry ports.Telemetry

	// Factories for the config-dependent collaborators. Overridable in tests.
	newProvider func(manifestPath string) ports.GraphProvider
	newWorker   func(argv []string) ports.Worker
	newStore    func(cfg domain.MetadataConfig) (ports.MetadataStore, error)
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, lister ports.SourceLister, logger ports.Logger, telemetry ports.Telemetry) *App {
	a := &App{
		loader:    loader,
		lister:    lister,
		logger:    logger,
		telemetry: telemetry,
	}
	a.newProvider = func(manifestPath string) ports.GraphProvider {
		return deps.NewProvider(manifestPath)
	}
	a.newWorker = func(argv []string) ports.Worker {
		return shell.NewWorker(argv, logger)
	}
	a.newStore = openStore
	return a
}

// Option customizes an App after construction.
type Option func(*App)

// WithTelemetry replaces the telemetry provider.
func WithTelemetry(t ports.Telemetry) Option {
	return func(a *App) { a.telemetry = t }
}

// WithProviderFactory replaces the graph provider factory.
func WithProviderFactory(fn func(manifestPath string) ports.GraphProvider) Option {
	return func(a *App) { a.newProvider = fn }
}

// WithWorkerFactory replaces the worker factory.
func WithWorkerFactory(fn func(argv []string) ports.Worker) Option {
	return func(a *App) { a.newWorker = fn }
}

// WithStoreFactory replaces the metadata store factory.
func WithStoreFactory(fn func(cfg domain.MetadataConfig) (ports.MetadataStore, error)) Option {
	return func(a *App) { a.newStore = fn }
}

// Apply applies options to the App.
func (a *App) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(a)
	}
}

// Run executes one full scheduling run driven by the configuration at
// configPath. Graph construction failures are fatal; batch failures are
// reported and surfaced as ErrAnalysisFailed after the run completes.
func (a *App) Run(ctx context.Context, configPath string) error {
	cfg, err := a.loader.Load(configPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	files, err := a.lister.ListSources(cfg.SourceRoot, cfg.SourceSuffix)
	if err != nil {
		return zerr.Wrap(err, "failed to discover source files")
	}
	if len(files) == 0 {
		a.logger.Info("no source files found")
		return nil
	}

	graph, err := a.newProvider(cfg.ManifestPath).BuildGraph(files)
	if err != nil {
		return zerr.Wrap(err, "failed to build dependency graph")
	}

	store, err := a.newStore(cfg.Metadata)
	if err != nil {
		return zerr.Wrap(err, "failed to open metadata store")
	}
	defer func() {
		if closer, ok := store.(io.Closer); ok {
			_ = closer.Close()
		}
	}()
	defer func() { _ = a.telemetry.Close() }()

	results := cache.New(store, fs.NewHasher(), a.logger)
	sched := scheduler.New(
		a.newWorker(cfg.Analyzer),
		results,
		a.logger,
		a.telemetry,
		scheduler.Options{
			MaxWorkers:            cfg.MaxWorkers,
			AccumulationThreshold: cfg.AccumulationThreshold,
			Mode:                  cfg.Mode,
		},
	)

	report, err := sched.Run(ctx, graph)
	if err != nil {
		return zerr.Wrap(err, "scheduling failed")
	}

	a.summarize(report)

	if failed := report.FailedBatches(); len(failed) > 0 {
		return zerr.With(domain.ErrAnalysisFailed, "failed_batches", len(failed))
	}
	return nil
}

const timeRounding = time.Millisecond

// summarize logs per-batch outcomes and the low-level timing summary.
func (a *App) summarize(report *domain.RunReport) {
	units, batches := 0, 0
	for fi, flush := range report.Flushes {
		units += flush.Units
		batches += len(flush.Batches)
		for bi, res := range flush.Batches {
			if !res.Failed() {
				continue
			}
			msg := fmt.Sprintf("flush %d batch %d failed (exit %d)", fi, bi, res.ExitStatus)
			if res.Err != nil {
				a.logger.Error(zerr.Wrap(res.Err, msg))
				continue
			}
			if out := strings.TrimSpace(string(res.Stdout)); out != "" {
				a.logger.Info(out)
			}
			if errOut := strings.TrimSpace(string(res.Stderr)); errOut != "" {
				a.logger.Warn(errOut)
			}
			a.logger.Warn(msg)
		}
	}
	a.logger.Info(fmt.Sprintf(
		"scheduled %d units in %d flushes (%d batches), elapsed %s, layering overhead %s",
		units, len(report.Flushes), batches, report.Elapsed.Round(timeRounding), report.Overhead.Round(timeRounding),
	))
}

func openStore(cfg domain.MetadataConfig) (ports.MetadataStore, error) {
	switch cfg.Backend {
	case domain.BackendRelational:
		return metastore.NewSQLStore(cfg.Path)
	default:
		return metastore.NewFileStore(cfg.Root), nil
	}
}
