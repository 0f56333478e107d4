// Package cache implements the result cache on top of the metadata store.
package cache

import (
	"encoding/json"
	"fmt"
	"os"

	"go.trai.ch/parc/internal/core/ports"
)

var _ ports.ResultCache = (*Cache)(nil)

// Hasher computes content fingerprints for source files.
type Hasher interface {
	HashFile(path string) (uint64, error)
}

// Cache records per-unit fingerprints in the metadata store so repeated runs
// can skip units whose source is unchanged. Store failures are never fatal:
// a miss or a rejected write just means the unit is analyzed again.
type Cache struct {
	store  ports.MetadataStore
	hasher Hasher
	logger ports.Logger
}

// New creates a Cache over the given store.
func New(store ports.MetadataStore, hasher Hasher, logger ports.Logger) *Cache {
	return &Cache{
		store:  store,
		hasher: hasher,
		logger: logger,
	}
}

// entry is the persisted fingerprint of one unit.
type entry struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

func entryName(path string) string {
	return path + ".meta"
}

// Fresh reports whether the unit at path is unchanged since its fingerprint
// was recorded. The stored mtime is the fast path; a touched but identical
// file is confirmed by content hash.
func (c *Cache) Fresh(path string) bool {
	stored, err := c.store.Getmtime(entryName(path))
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if !info.ModTime().After(stored) {
		return true
	}

	data, err := c.store.Read(entryName(path))
	if err != nil {
		return false
	}
	var e entry
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return false
	}
	if e.Size != info.Size() {
		return false
	}
	sum, err := c.hasher.HashFile(path)
	if err != nil {
		return false
	}
	if fmt.Sprintf("%016x", sum) != e.Hash {
		return false
	}
	// Same content, newer mtime: refresh the entry so the fast path works
	// next time.
	c.store.Write(entryName(path), data, info.ModTime())
	return true
}

// Record stores the unit's current fingerprint with the source file's mtime.
func (c *Cache) Record(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	sum, err := c.hasher.HashFile(path)
	if err != nil {
		return false
	}
	data, err := json.Marshal(entry{
		Hash: fmt.Sprintf("%016x", sum),
		Size: info.Size(),
	})
	if err != nil {
		return false
	}
	return c.store.Write(entryName(path), string(data), info.ModTime())
}

// Commit flushes recorded entries to the backing store.
func (c *Cache) Commit() error {
	return c.store.Commit()
}
