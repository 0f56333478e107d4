// Package scheduler implements the accumulating batch scheduler.
package scheduler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"go.trai.ch/parc/internal/core/domain"
	"go.trai.ch/parc/internal/core/ports"
	"go.trai.ch/parc/internal/engine/partition"
)

// State represents the scheduler's position in its flush cycle.
type State string

const (
	// StateAccumulating indicates layers are being unioned into the pending set.
	StateAccumulating State = "Accumulating"
	// StateFlushing indicates the pending set is being partitioned and dispatched.
	StateFlushing State = "Flushing"
	// StateDone indicates all layers have been consumed and flushed.
	StateDone State = "Done"
)

// Options configures a scheduling run.
type Options struct {
	MaxWorkers            int
	AccumulationThreshold int
	Mode                  domain.SchedulingMode
	// Seed fixes the shuffle order in naive-random mode. Zero picks a
	// time-based seed.
	Seed uint64
}

// Scheduler walks dependency layers in order, accumulates their units until
// the configured threshold is reached, then flushes the accumulated group
// through the partitioner and dispatcher. Each flush is a hard barrier: the
// next layer is not consumed until every batch of the flush has completed.
type Scheduler struct {
	dispatcher *Dispatcher
	cache      ports.ResultCache
	logger     ports.Logger
	telemetry  ports.Telemetry
	opts       Options

	state State
}

// New creates a Scheduler. cache may be nil, in which case every unit is
// always dispatched.
func New(
	worker ports.Worker,
	cache ports.ResultCache,
	logger ports.Logger,
	telemetry ports.Telemetry,
	opts Options,
) *Scheduler {
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}
	if opts.AccumulationThreshold < 1 {
		opts.AccumulationThreshold = domain.DefaultAccumulationThreshold
	}
	if opts.Mode == "" {
		opts.Mode = domain.SchedulingDependencyAware
	}
	return &Scheduler{
		dispatcher: NewDispatcher(worker, telemetry, opts.MaxWorkers),
		cache:      cache,
		logger:     logger,
		telemetry:  telemetry,
		opts:       opts,
		state:      StateAccumulating,
	}
}

// State returns the scheduler's current state.
func (s *Scheduler) State() State {
	return s.state
}

// Run schedules every unit of the graph and returns the collected per-batch
// results. Graph errors are fatal; batch failures are reported in the run
// report and never abort the run.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph) (*domain.RunReport, error) {
	start := time.Now()
	report := &domain.RunReport{}

	if s.opts.Mode == domain.SchedulingNaiveRandom {
		s.runNaive(ctx, graph, report)
		report.Elapsed = time.Since(start)
		s.state = StateDone
		return report, nil
	}

	layers, err := graph.Layers()
	if err != nil {
		return nil, err
	}
	report.Overhead = time.Since(start)

	s.state = StateAccumulating
	seen := make(map[domain.InternedString]bool, graph.UnitCount())
	var pending []domain.Unit

	for _, layer := range layers {
		for _, group := range layer {
			for _, name := range group.Members {
				if seen[name] {
					continue
				}
				seen[name] = true
				unit, ok := graph.Unit(name)
				if !ok {
					continue
				}
				pending = append(pending, unit)
			}
		}

		// The threshold is a lower bound only: a single large layer flushes
		// as one group however far past it the pending set lands.
		if len(pending) >= s.opts.AccumulationThreshold {
			report.Flushes = append(report.Flushes, s.flush(ctx, pending))
			pending = pending[:0]
		}
	}

	if len(pending) > 0 {
		report.Flushes = append(report.Flushes, s.flush(ctx, pending))
	}

	s.state = StateDone
	report.Elapsed = time.Since(start)
	return report, nil
}

// flush partitions the pending units into cost-balanced batches and blocks
// until the dispatcher has run all of them.
func (s *Scheduler) flush(ctx context.Context, units []domain.Unit) domain.FlushReport {
	s.state = StateFlushing
	defer func() { s.state = StateAccumulating }()

	start := time.Now()
	ctx, vertex := s.telemetry.Record(ctx, fmt.Sprintf("flush (%d units)", len(units)))

	run := units
	skipped := 0
	if s.cache != nil {
		run = make([]domain.Unit, 0, len(units))
		for _, u := range units {
			if s.cache.Fresh(u.Path.String()) {
				skipped++
				continue
			}
			run = append(run, u)
		}
	}

	flush := domain.FlushReport{Units: len(units), Skipped: skipped}
	if len(run) == 0 {
		vertex.Cached()
		vertex.Complete(nil)
		flush.Elapsed = time.Since(start)
		return flush
	}

	batches := partition.Split(run, min(s.opts.MaxWorkers, len(run)))
	flush.Batches = s.dispatcher.Dispatch(ctx, batches)
	s.recordResults(flush.Batches)

	failures := 0
	for _, res := range flush.Batches {
		if res.Failed() {
			failures++
		}
	}
	if failures > 0 {
		vertex.Complete(domain.ErrAnalysisFailed)
	} else {
		vertex.Complete(nil)
	}

	flush.Elapsed = time.Since(start)
	return flush
}

// runNaive shuffles all units and dispatches them as contiguous chunks in a
// single pass, with no layering and no barrier between chunks.
func (s *Scheduler) runNaive(ctx context.Context, graph *domain.Graph, report *domain.RunReport) {
	units := slices.Collect(graph.Units())
	if len(units) == 0 {
		return
	}

	seed := s.opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	start := time.Now()
	ctx, vertex := s.telemetry.Record(ctx, fmt.Sprintf("naive dispatch (%d units)", len(units)))
	batches := partition.Chunk(units, min(s.opts.MaxWorkers, len(units)), rng)
	results := s.dispatcher.Dispatch(ctx, batches)
	s.recordResults(results)
	vertex.Complete(nil)

	report.Flushes = append(report.Flushes, domain.FlushReport{
		Units:   len(units),
		Batches: results,
		Elapsed: time.Since(start),
	})
}

// recordResults caches fingerprints for every unit of a successful batch.
// Write failures downgrade to uncached behavior.
func (s *Scheduler) recordResults(results []domain.BatchResult) {
	if s.cache == nil {
		return
	}
	for _, res := range results {
		if res.Failed() {
			continue
		}
		for _, path := range res.Batch.Paths {
			if !s.cache.Record(path) {
				s.logger.Warn("result cache rejected write for " + path)
			}
		}
	}
	if err := s.cache.Commit(); err != nil {
		s.logger.Error(err)
	}
}
