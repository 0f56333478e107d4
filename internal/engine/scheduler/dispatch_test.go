package scheduler_test

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"go.trai.ch/parc/internal/adapters/telemetry"
	"go.trai.ch/parc/internal/core/domain"
	"go.trai.ch/parc/internal/engine/scheduler"
)

type funcWorker func(ctx context.Context, paths []string) (domain.WorkerResult, error)

func (f funcWorker) Run(ctx context.Context, paths []string) (domain.WorkerResult, error) {
	return f(ctx, paths)
}

func batchFor(paths ...string) domain.Batch {
	return domain.Batch{Paths: paths}
}

func TestDispatcher_Dispatch_ResultsInInputOrder(t *testing.T) {
	worker := funcWorker(func(_ context.Context, paths []string) (domain.WorkerResult, error) {
		return domain.WorkerResult{Stdout: []byte(paths[0])}, nil
	})
	d := scheduler.NewDispatcher(worker, telemetry.NewNoOp(), 4)

	batches := []domain.Batch{
		batchFor("first"),
		batchFor("second"),
		batchFor("third"),
	}
	results := d.Dispatch(context.Background(), batches)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if string(res.Stdout) != batches[i].Paths[0] {
			t.Errorf("result %d out of order: got %q", i, res.Stdout)
		}
	}
}

func TestDispatcher_Dispatch_FailureIsolation(t *testing.T) {
	worker := funcWorker(func(_ context.Context, paths []string) (domain.WorkerResult, error) {
		switch paths[0] {
		case "spawnfail":
			return domain.WorkerResult{ExitStatus: -1}, errors.New("binary not found")
		case "exitfail":
			return domain.WorkerResult{ExitStatus: 2, Stderr: []byte("2 errors")}, nil
		default:
			return domain.WorkerResult{}, nil
		}
	})
	d := scheduler.NewDispatcher(worker, telemetry.NewNoOp(), 1)

	results := d.Dispatch(context.Background(), []domain.Batch{
		batchFor("spawnfail"),
		batchFor("exitfail"),
		batchFor("ok"),
	})

	if !results[0].Failed() || results[0].Err == nil {
		t.Errorf("expected spawn failure carried in result, got %+v", results[0])
	}
	if !results[1].Failed() || results[1].ExitStatus != 2 {
		t.Errorf("expected exit failure carried in result, got %+v", results[1])
	}
	if results[2].Failed() {
		t.Errorf("expected third batch unaffected by sibling failures, got %+v", results[2])
	}
}

func TestDispatcher_Dispatch_RespectsWorkerCap(t *testing.T) {
	var running, peak atomic.Int32
	var mu sync.Mutex

	worker := funcWorker(func(_ context.Context, _ []string) (domain.WorkerResult, error) {
		n := running.Add(1)
		mu.Lock()
		if n > peak.Load() {
			peak.Store(n)
		}
		mu.Unlock()
		defer running.Add(-1)
		return domain.WorkerResult{}, nil
	})
	d := scheduler.NewDispatcher(worker, telemetry.NewNoOp(), 2)

	var batches []domain.Batch
	for i := range 8 {
		batches = append(batches, batchFor("f"+strconv.Itoa(i)))
	}
	results := d.Dispatch(context.Background(), batches)

	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
	if peak.Load() > 2 {
		t.Errorf("expected at most 2 concurrent invocations, observed %d", peak.Load())
	}
}

func TestDispatcher_Dispatch_PreservesBatchAndTiming(t *testing.T) {
	worker := funcWorker(func(_ context.Context, _ []string) (domain.WorkerResult, error) {
		return domain.WorkerResult{}, nil
	})
	d := scheduler.NewDispatcher(worker, telemetry.NewNoOp(), 1)

	in := domain.Batch{Paths: []string{"a.py", "b.py"}, Cost: 12}
	results := d.Dispatch(context.Background(), []domain.Batch{in})

	if !slices.Equal(results[0].Batch.Paths, in.Paths) || results[0].Batch.Cost != in.Cost {
		t.Errorf("expected batch echoed in result, got %+v", results[0].Batch)
	}
	if results[0].Elapsed < 0 {
		t.Errorf("expected non-negative elapsed time, got %s", results[0].Elapsed)
	}
}
