package ports

import "time"

// MetadataStore persists per-unit analysis artifacts across runs. Entries are
// keyed by path-like names; writes are atomic per entry.
//
// Read, Getmtime, and Remove fail with domain.ErrEntryNotFound when the entry
// does not exist. Write never errors for an expected condition; it returns
// false and the caller falls back to uncached behavior.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type MetadataStore interface {
	// Getmtime returns the modification time of an entry.
	Getmtime(name string) (time.Time, error)

	// Read returns the contents of an entry.
	Read(name string) (string, error)

	// Write creates or overwrites an entry. A zero mtime leaves the timestamp
	// to the backend (filesystem-assigned, or the current time).
	Write(name, data string, mtime time.Time) bool

	// Remove deletes an entry.
	Remove(name string) error

	// Commit flushes pending writes if the backend requires it.
	Commit() error

	// ListAll returns the names of every entry in the store.
	ListAll() ([]string, error)
}
