package ports

import "go.trai.ch/parc/internal/core/domain"

// GraphProvider builds the dependency graph over the discovered source files.
// Cycle detection and import resolution are the provider's concern; the
// scheduler only consumes the resulting graph.
//
//go:generate go run go.uber.org/mock/mockgen -source=graph.go -destination=mocks/mock_graph.go -package=mocks
type GraphProvider interface {
	BuildGraph(files []domain.SourceFile) (*domain.Graph, error)
}

// SourceLister discovers analyzable source files under a root directory.
type SourceLister interface {
	ListSources(root, suffix string) ([]domain.SourceFile, error)
}
