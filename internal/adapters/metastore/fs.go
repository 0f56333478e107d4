// Package metastore implements the metadata store backends.
package metastore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/parc/internal/core/domain"
	"go.trai.ch/parc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MetadataStore = (*FileStore)(nil)

// FileStore keeps metadata entries as files under a root directory. Writes go
// to a sibling temporary file and are renamed over the destination, so a
// reader never observes a partial entry.
type FileStore struct {
	// root is the directory prefix. Empty means a null store: writes fail
	// closed and every read misses.
	root string
}

// NewFileStore creates a FileStore rooted at dir. Passing the null device (or
// an empty string) yields a null store.
func NewFileStore(dir string) *FileStore {
	if dir == os.DevNull {
		dir = ""
	}
	return &FileStore{root: dir}
}

// Getmtime returns the modification time of an entry.
func (s *FileStore) Getmtime(name string) (time.Time, error) {
	if s.root == "" {
		return time.Time{}, zerr.With(domain.ErrEntryNotFound, "name", name)
	}
	info, err := os.Stat(filepath.Join(s.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, zerr.With(domain.ErrEntryNotFound, "name", name)
		}
		return time.Time{}, zerr.Wrap(err, "failed to stat metadata entry")
	}
	return info.ModTime(), nil
}

// Read returns the contents of an entry.
func (s *FileStore) Read(name string) (string, error) {
	if s.root == "" {
		return "", zerr.With(domain.ErrEntryNotFound, "name", name)
	}
	data, err := os.ReadFile(filepath.Join(s.root, name)) //nolint:gosec // entry names are store-relative
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(domain.ErrEntryNotFound, "name", name)
		}
		return "", zerr.Wrap(err, "failed to read metadata entry")
	}
	return string(data), nil
}

// Write creates or overwrites an entry atomically. A zero mtime keeps the
// filesystem-assigned timestamp.
func (s *FileStore) Write(name, data string, mtime time.Time) bool {
	if s.root == "" || filepath.IsAbs(name) {
		return false
	}

	path := filepath.Join(s.root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return false
	}

	tmp := path + "." + randomSuffix()
	if err := os.WriteFile(tmp, []byte(data), 0o644); err != nil { //nolint:gosec // cache entries are not secrets
		return false
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			return false
		}
	}
	return true
}

// Remove deletes an entry.
func (s *FileStore) Remove(name string) error {
	if s.root == "" {
		return zerr.With(domain.ErrEntryNotFound, "name", name)
	}
	if err := os.Remove(filepath.Join(s.root, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(domain.ErrEntryNotFound, "name", name)
		}
		return zerr.Wrap(err, "failed to remove metadata entry")
	}
	return nil
}

// Commit is a no-op: writes are already durable per call.
func (s *FileStore) Commit() error { return nil }

// ListAll walks the tree and returns every entry's path relative to the root.
func (s *FileStore) ListAll() ([]string, error) {
	if s.root == "" {
		return nil, nil
	}
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		names = append(names, rel)
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to list metadata entries")
	}
	return names, nil
}

func randomSuffix() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
