package scheduler_test

import (
	"context"
	"slices"
	"sync"
	"testing"

	"go.trai.ch/parc/internal/adapters/telemetry"
	"go.trai.ch/parc/internal/core/domain"
	"go.trai.ch/parc/internal/core/ports/mocks"
	"go.trai.ch/parc/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

func buildGraph(t *testing.T, units map[string][]string, order []string) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	for _, name := range order {
		u := &domain.Unit{
			Name: domain.NewInternedString(name),
			Path: domain.NewInternedString(name),
			Cost: 10,
		}
		for _, dep := range units[name] {
			u.Deps = append(u.Deps, domain.NewInternedString(dep))
		}
		if err := g.AddUnit(u); err != nil {
			t.Fatalf("failed to add unit %s: %v", name, err)
		}
	}
	return g
}

// recordingWorker captures the paths of every invocation, in call order.
type recordingWorker struct {
	mu    sync.Mutex
	calls [][]string
	run   func(paths []string) domain.WorkerResult
}

func (w *recordingWorker) Run(_ context.Context, paths []string) (domain.WorkerResult, error) {
	w.mu.Lock()
	w.calls = append(w.calls, slices.Clone(paths))
	w.mu.Unlock()
	if w.run != nil {
		return w.run(paths), nil
	}
	return domain.WorkerResult{}, nil
}

func TestScheduler_Run_AccumulatesUntilThreshold(t *testing.T) {
	// Chain A <- B <- C layers into [A], [B], [C]. With a threshold of 2 the
	// first flush fires once A and B have accumulated; C drains in the final
	// remainder flush.
	g := buildGraph(t, map[string][]string{
		"B": {"A"},
		"C": {"B"},
	}, []string{"A", "B", "C"})

	worker := &recordingWorker{}
	s := scheduler.New(worker, nil, nil, telemetry.NewNoOp(), scheduler.Options{
		MaxWorkers:            1,
		AccumulationThreshold: 2,
	})

	report, err := s.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Flushes) != 2 {
		t.Fatalf("expected 2 flushes, got %d", len(report.Flushes))
	}
	if report.Flushes[0].Units != 2 || report.Flushes[1].Units != 1 {
		t.Errorf("expected flush sizes 2 and 1, got %d and %d",
			report.Flushes[0].Units, report.Flushes[1].Units)
	}

	if len(worker.calls) != 2 {
		t.Fatalf("expected 2 worker invocations, got %d", len(worker.calls))
	}
	if !slices.Equal(worker.calls[0], []string{"A", "B"}) {
		t.Errorf("expected first invocation [A B], got %v", worker.calls[0])
	}
	if !slices.Equal(worker.calls[1], []string{"C"}) {
		t.Errorf("expected second invocation [C], got %v", worker.calls[1])
	}

	if s.State() != scheduler.StateDone {
		t.Errorf("expected state Done after run, got %s", s.State())
	}
}

func TestScheduler_Run_FlushBarrier(t *testing.T) {
	// Threshold 1 flushes after every layer. B depends on A, so A's flush
	// must fully complete before B is ever dispatched, even with spare
	// workers available.
	g := buildGraph(t, map[string][]string{
		"B": {"A"},
	}, []string{"A", "B"})

	worker := &recordingWorker{}
	s := scheduler.New(worker, nil, nil, telemetry.NewNoOp(), scheduler.Options{
		MaxWorkers:            4,
		AccumulationThreshold: 1,
	})

	if _, err := s.Run(context.Background(), g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(worker.calls) != 2 {
		t.Fatalf("expected 2 worker invocations, got %d", len(worker.calls))
	}
	if !slices.Equal(worker.calls[0], []string{"A"}) || !slices.Equal(worker.calls[1], []string{"B"}) {
		t.Errorf("expected [A] then [B], got %v", worker.calls)
	}
}

func TestScheduler_Run_SingleLayerPastThreshold(t *testing.T) {
	// A single wide layer far past the threshold still flushes as one group.
	order := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	g := buildGraph(t, nil, order)

	worker := &recordingWorker{}
	s := scheduler.New(worker, nil, nil, telemetry.NewNoOp(), scheduler.Options{
		MaxWorkers:            2,
		AccumulationThreshold: 3,
	})

	report, err := s.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Flushes) != 1 {
		t.Fatalf("expected 1 flush, got %d", len(report.Flushes))
	}
	if report.Flushes[0].Units != len(order) {
		t.Errorf("expected %d units in flush, got %d", len(order), report.Flushes[0].Units)
	}

	var dispatched []string
	for _, call := range worker.calls {
		dispatched = append(dispatched, call...)
	}
	slices.Sort(dispatched)
	if !slices.Equal(dispatched, order) {
		t.Errorf("expected every unit dispatched exactly once, got %v", dispatched)
	}
}

func TestScheduler_Run_BatchFailureDoesNotAbort(t *testing.T) {
	g := buildGraph(t, nil, []string{"u1", "u2", "u3", "u4"})

	worker := &recordingWorker{
		run: func(paths []string) domain.WorkerResult {
			if slices.Contains(paths, "u1") {
				return domain.WorkerResult{ExitStatus: 1, Stderr: []byte("u1: type error")}
			}
			return domain.WorkerResult{}
		},
	}
	s := scheduler.New(worker, nil, nil, telemetry.NewNoOp(), scheduler.Options{
		MaxWorkers:            2,
		AccumulationThreshold: 1,
	})

	report, err := s.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("expected batch failure to be data, got error: %v", err)
	}

	if len(worker.calls) != 2 {
		t.Fatalf("expected both batches dispatched, got %d invocations", len(worker.calls))
	}
	failed := report.FailedBatches()
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed batch, got %d", len(failed))
	}
	if failed[0].ExitStatus != 1 {
		t.Errorf("expected exit status 1, got %d", failed[0].ExitStatus)
	}
}

func TestScheduler_Run_NaiveMode(t *testing.T) {
	order := []string{"a", "b", "c", "d", "e"}
	g := buildGraph(t, map[string][]string{
		// Dependencies are ignored in naive mode.
		"b": {"a"},
	}, order)

	worker := &recordingWorker{}
	s := scheduler.New(worker, nil, nil, telemetry.NewNoOp(), scheduler.Options{
		MaxWorkers: 2,
		Mode:       domain.SchedulingNaiveRandom,
		Seed:       42,
	})

	report, err := s.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Flushes) != 1 {
		t.Fatalf("expected a single flush in naive mode, got %d", len(report.Flushes))
	}

	var dispatched []string
	for _, call := range worker.calls {
		dispatched = append(dispatched, call...)
	}
	slices.Sort(dispatched)
	if !slices.Equal(dispatched, order) {
		t.Errorf("expected every unit dispatched exactly once, got %v", dispatched)
	}
}

func TestScheduler_Run_EmptyGraph(t *testing.T) {
	worker := &recordingWorker{}
	s := scheduler.New(worker, nil, nil, telemetry.NewNoOp(), scheduler.Options{MaxWorkers: 2})

	report, err := s.Run(context.Background(), domain.NewGraph())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Flushes) != 0 {
		t.Errorf("expected no flushes for empty graph, got %d", len(report.Flushes))
	}
	if len(worker.calls) != 0 {
		t.Errorf("expected no worker invocations, got %d", len(worker.calls))
	}
}

func TestScheduler_Run_MissingDependencyIsFatal(t *testing.T) {
	g := buildGraph(t, map[string][]string{
		"A": {"ghost"},
	}, []string{"A"})

	worker := &recordingWorker{}
	s := scheduler.New(worker, nil, nil, telemetry.NewNoOp(), scheduler.Options{MaxWorkers: 1})

	if _, err := s.Run(context.Background(), g); err == nil {
		t.Fatal("expected graph error to abort the run")
	}
	if len(worker.calls) != 0 {
		t.Errorf("expected no dispatch after graph error, got %d invocations", len(worker.calls))
	}
}

func TestScheduler_Run_CacheSkipsFreshUnits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	g := buildGraph(t, nil, []string{"a", "b", "c"})

	mockCache := mocks.NewMockResultCache(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockCache.EXPECT().Fresh("a").Return(true)
	mockCache.EXPECT().Fresh("b").Return(false)
	mockCache.EXPECT().Fresh("c").Return(false)
	mockCache.EXPECT().Record("b").Return(true)
	mockCache.EXPECT().Record("c").Return(true)
	mockCache.EXPECT().Commit().Return(nil)

	worker := &recordingWorker{}
	s := scheduler.New(worker, mockCache, mockLogger, telemetry.NewNoOp(), scheduler.Options{
		MaxWorkers:            1,
		AccumulationThreshold: 1,
	})

	report, err := s.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Flushes) != 1 {
		t.Fatalf("expected 1 flush, got %d", len(report.Flushes))
	}
	if report.Flushes[0].Skipped != 1 {
		t.Errorf("expected 1 skipped unit, got %d", report.Flushes[0].Skipped)
	}
	if len(worker.calls) != 1 || !slices.Equal(worker.calls[0], []string{"b", "c"}) {
		t.Errorf("expected single invocation [b c], got %v", worker.calls)
	}
}

func TestScheduler_Run_AllCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	g := buildGraph(t, nil, []string{"a", "b"})

	mockCache := mocks.NewMockResultCache(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockCache.EXPECT().Fresh(gomock.Any()).Return(true).Times(2)

	worker := &recordingWorker{}
	s := scheduler.New(worker, mockCache, mockLogger, telemetry.NewNoOp(), scheduler.Options{
		MaxWorkers:            1,
		AccumulationThreshold: 1,
	})

	report, err := s.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(worker.calls) != 0 {
		t.Errorf("expected no worker invocations when everything is fresh, got %d", len(worker.calls))
	}
	if report.Flushes[0].Skipped != 2 {
		t.Errorf("expected 2 skipped units, got %d", report.Flushes[0].Skipped)
	}
}

func TestScheduler_Run_FailedBatchNotRecorded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	g := buildGraph(t, nil, []string{"a"})

	mockCache := mocks.NewMockResultCache(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockCache.EXPECT().Fresh("a").Return(false)
	// No Record call for the failed batch.
	mockCache.EXPECT().Commit().Return(nil)

	worker := &recordingWorker{
		run: func([]string) domain.WorkerResult {
			return domain.WorkerResult{ExitStatus: 2}
		},
	}
	s := scheduler.New(worker, mockCache, mockLogger, telemetry.NewNoOp(), scheduler.Options{
		MaxWorkers:            1,
		AccumulationThreshold: 1,
	})

	if _, err := s.Run(context.Background(), g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
