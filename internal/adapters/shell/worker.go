// Package shell provides the worker command adapter built on os/exec.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	"go.trai.ch/parc/internal/core/domain"
	"go.trai.ch/parc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Worker = (*Worker)(nil)

// Worker runs the configured analyzer command on a batch of file paths,
// capturing its output. The analyzer is a black box: one invocation per
// batch, paths appended to the configured argv.
type Worker struct {
	argv   []string
	logger ports.Logger
}

// NewWorker creates a Worker for the given analyzer argv.
func NewWorker(argv []string, logger ports.Logger) *Worker {
	return &Worker{
		argv:   argv,
		logger: logger,
	}
}

// Run invokes the analyzer once with the batch's paths. A non-zero exit
// status is captured in the result; the returned error covers spawn failures
// and context cancellation only.
func (w *Worker) Run(ctx context.Context, paths []string) (domain.WorkerResult, error) {
	if len(w.argv) == 0 {
		return domain.WorkerResult{}, zerr.New("analyzer command is empty")
	}

	args := make([]string, 0, len(w.argv)-1+len(paths))
	args = append(args, w.argv[1:]...)
	args = append(args, paths...)

	cmd := exec.CommandContext(ctx, w.argv[0], args...) //nolint:gosec // analyzer argv comes from user config

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if vertex, ok := ports.VertexFromContext(ctx); ok {
		// Stream live into the enclosing batch vertex.
		cmd.Stdout = io.MultiWriter(&stdout, vertex.Stdout())
		cmd.Stderr = io.MultiWriter(&stderr, vertex.Stderr())
	}

	err := cmd.Run()
	res := domain.WorkerResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The tool ran and reported findings or errors; that is data for
			// the batch result, not a dispatch error.
			res.ExitStatus = exitErr.ExitCode()
			return res, nil
		}
		res.ExitStatus = -1
		return res, zerr.With(zerr.Wrap(err, "failed to invoke analyzer"), "command", w.argv[0])
	}

	return res, nil
}
