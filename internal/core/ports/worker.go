// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/parc/internal/core/domain"
)

// Worker invokes the external analysis tool on a batch of file paths.
//
//go:generate go run go.uber.org/mock/mockgen -source=worker.go -destination=mocks/mock_worker.go -package=mocks
type Worker interface {
	// Run invokes the tool once with the given paths and returns its captured
	// stdout, stderr, and exit status. A non-zero exit status is reported in
	// the result, not as an error; the error covers spawn failures only.
	Run(ctx context.Context, paths []string) (domain.WorkerResult, error)
}
