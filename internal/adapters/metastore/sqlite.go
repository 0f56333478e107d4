package metastore

import (
	"database/sql"
	"errors"
	"math"
	"sync"
	"time"

	"go.trai.ch/parc/internal/core/domain"
	"go.trai.ch/parc/internal/core/ports"
	"go.trai.ch/zerr"

	_ "modernc.org/sqlite"
)

var _ ports.MetadataStore = (*SQLStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS files (
    path  TEXT PRIMARY KEY NOT NULL,
    mtime REAL NOT NULL,
    data  TEXT NOT NULL
);`

// SQLStore keeps metadata entries as rows in a single SQLite table keyed by
// path. All operations run inside one open transaction; Commit flushes it and
// opens the next one, so readers of the same store see uncommitted writes.
type SQLStore struct {
	db *sql.DB

	mu sync.Mutex
	tx *sql.Tx
}

// NewSQLStore opens (creating if necessary) the database at path and ensures
// the schema exists.
func NewSQLStore(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open metadata database"), "path", path)
	}
	// The store serializes access through its own transaction; a single
	// connection keeps the tx semantics straightforward.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "failed to set WAL mode")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "failed to initialize metadata schema")
	}

	tx, err := db.Begin()
	if err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "failed to begin transaction")
	}
	return &SQLStore{db: db, tx: tx}, nil
}

// Getmtime returns the modification time of an entry.
func (s *SQLStore) Getmtime(name string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var mtime float64
	err := s.tx.QueryRow("SELECT mtime FROM files WHERE path = ?", name).Scan(&mtime)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, zerr.With(domain.ErrEntryNotFound, "name", name)
	}
	if err != nil {
		return time.Time{}, zerr.Wrap(err, "failed to query entry mtime")
	}
	return fromUnixSeconds(mtime), nil
}

// Read returns the contents of an entry.
func (s *SQLStore) Read(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data string
	err := s.tx.QueryRow("SELECT data FROM files WHERE path = ?", name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", zerr.With(domain.ErrEntryNotFound, "name", name)
	}
	if err != nil {
		return "", zerr.Wrap(err, "failed to query entry data")
	}
	return data, nil
}

// Write upserts an entry. A zero mtime stores the current time. Transport and
// constraint failures report false rather than propagating.
func (s *SQLStore) Write(name, data string, mtime time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mtime.IsZero() {
		mtime = time.Now()
	}
	_, err := s.tx.Exec(
		`INSERT INTO files (path, mtime, data) VALUES (?, ?, ?)
		 ON CONFLICT (path) DO UPDATE SET mtime = excluded.mtime, data = excluded.data`,
		name, toUnixSeconds(mtime), data,
	)
	return err == nil
}

// Remove deletes an entry.
func (s *SQLStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.tx.Exec("DELETE FROM files WHERE path = ?", name)
	if err != nil {
		return zerr.Wrap(err, "failed to delete entry")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return zerr.With(domain.ErrEntryNotFound, "name", name)
	}
	return nil
}

// Commit flushes the open transaction and begins the next one.
func (s *SQLStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tx.Commit(); err != nil {
		return zerr.Wrap(err, "failed to commit metadata transaction")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return zerr.Wrap(err, "failed to begin transaction")
	}
	s.tx = tx
	return nil
}

// ListAll returns every entry key.
func (s *SQLStore) ListAll() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.tx.Query("SELECT path FROM files")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list entries")
	}
	defer rows.Close() //nolint:errcheck // best effort close

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, zerr.Wrap(err, "failed to scan entry path")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to iterate entries")
	}
	return names, nil
}

// Close rolls back any uncommitted writes and closes the database.
func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.tx.Rollback()
	return s.db.Close()
}

// Timestamps are stored as REAL seconds since the epoch, matching the column
// type and keeping values comparable across backends.
func toUnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromUnixSeconds(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*float64(time.Second)))
}
