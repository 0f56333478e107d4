package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/parc/internal/core/domain"
	"go.trai.ch/parc/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Dispatcher runs batches as concurrent worker invocations and blocks until
// all of them complete. Failure isolation is at the batch level: one failing
// invocation never aborts its siblings.
type Dispatcher struct {
	worker     ports.Worker
	telemetry  ports.Telemetry
	maxWorkers int
}

// NewDispatcher creates a Dispatcher with the given worker pool cap.
func NewDispatcher(worker ports.Worker, telemetry ports.Telemetry, maxWorkers int) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Dispatcher{
		worker:     worker,
		telemetry:  telemetry,
		maxWorkers: maxWorkers,
	}
}

// Dispatch submits every batch at once to a pool sized to the number of
// batches, bounded by the configured cap, and returns one result per batch in
// input order.
func (d *Dispatcher) Dispatch(ctx context.Context, batches []domain.Batch) []domain.BatchResult {
	results := make([]domain.BatchResult, len(batches))

	var g errgroup.Group
	g.SetLimit(min(d.maxWorkers, len(batches)))

	for i, batch := range batches {
		g.Go(func() error {
			results[i] = d.runBatch(ctx, i, batch)
			return nil
		})
	}
	// Worker errors are carried in the results, never through the group.
	_ = g.Wait()

	return results
}

func (d *Dispatcher) runBatch(ctx context.Context, idx int, batch domain.Batch) domain.BatchResult {
	ctx, vertex := d.telemetry.Record(ctx, fmt.Sprintf("batch %d (%d files)", idx, len(batch.Paths)))

	start := time.Now()
	out, err := d.worker.Run(ctx, batch.Paths)
	res := domain.BatchResult{
		Batch:      batch,
		Stdout:     out.Stdout,
		Stderr:     out.Stderr,
		ExitStatus: out.ExitStatus,
		Err:        err,
		Elapsed:    time.Since(start),
	}

	// Output streams into the vertex while the worker runs; see shell.Worker.
	if res.Failed() {
		vertex.Complete(zerr.With(domain.ErrAnalysisFailed, "exit_status", res.ExitStatus))
	} else {
		vertex.Complete(nil)
	}
	return res
}
