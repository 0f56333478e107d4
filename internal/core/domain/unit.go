// Package domain contains the core domain models for the analysis dependency graph.
package domain

// Unit is one schedulable item of work: a single source file to analyze.
// It is immutable once the graph is built.
type Unit struct {
	Name InternedString
	Path InternedString
	Cost int64
	Deps []InternedString
}

// SourceFile is a discovered source file together with its byte size,
// which serves as the unit's cost proxy.
type SourceFile struct {
	Path string
	Size int64
}

// WorkerResult holds the captured output of one worker invocation.
type WorkerResult struct {
	Stdout     []byte
	Stderr     []byte
	ExitStatus int
}
