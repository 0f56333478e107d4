package ports

// ResultCache decides whether a unit's prior analysis result is still valid,
// and records fresh results after a successful batch.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ResultCache interface {
	// Fresh reports whether the unit at path is unchanged since its result
	// was last recorded. A cache miss or any store failure reports false.
	Fresh(path string) bool

	// Record stores the unit's current fingerprint. It returns false when the
	// backing store rejected the write; the caller proceeds uncached.
	Record(path string) bool

	// Commit flushes recorded entries to the backing store.
	Commit() error
}
