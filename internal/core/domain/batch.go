package domain

import "time"

// Batch is a list of file paths assigned to one worker invocation.
type Batch struct {
	Paths []string
	Cost  int64
}

// BatchResult is the outcome of dispatching one batch.
// A non-zero exit status or a spawn error does not abort sibling batches;
// both are carried here as data.
type BatchResult struct {
	Batch      Batch
	Stdout     []byte
	Stderr     []byte
	ExitStatus int
	Err        error
	Elapsed    time.Duration
}

// Failed reports whether the batch's worker invocation failed: a spawn error,
// a non-zero exit status, or captured stderr output.
func (r BatchResult) Failed() bool {
	return r.Err != nil || r.ExitStatus != 0 || len(r.Stderr) > 0
}

// FlushReport records one partition-and-dispatch cycle over an accumulated
// pending set.
type FlushReport struct {
	Units   int
	Skipped int
	Batches []BatchResult
	Elapsed time.Duration
}

// RunReport is the result of a full scheduling run.
type RunReport struct {
	Flushes  []FlushReport
	Overhead time.Duration
	Elapsed  time.Duration
}

// FailedBatches returns every batch result that failed, across all flushes.
func (r *RunReport) FailedBatches() []BatchResult {
	var failed []BatchResult
	for _, flush := range r.Flushes {
		for _, res := range flush.Batches {
			if res.Failed() {
				failed = append(failed, res)
			}
		}
	}
	return failed
}
