package domain

import "go.trai.ch/zerr"

var (
	// ErrUnitAlreadyExists is returned when adding a unit with a name that already exists.
	ErrUnitAlreadyExists = zerr.New("unit already exists")

	// ErrMissingDependency is returned when a unit references a dependency that is not in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleResolution is returned when cycle collapsing fails to produce an acyclic graph.
	// This is an invariant violation, not an expected runtime condition.
	ErrCycleResolution = zerr.New("cycle collapse did not produce an acyclic graph")

	// ErrEntryNotFound is returned by metadata stores when an entry does not exist.
	ErrEntryNotFound = zerr.New("metadata entry not found")

	// ErrAnalysisFailed is returned when one or more batches reported a failure.
	ErrAnalysisFailed = zerr.New("analysis failed")
)
