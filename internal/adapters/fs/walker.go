// Package fs provides file system adapters for discovering and hashing source files.
package fs

import (
	"io/fs"
	"path/filepath"
	"strings"

	"go.trai.ch/parc/internal/core/domain"
	"go.trai.ch/parc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceLister = (*Walker)(nil)

// Walker discovers analyzable source files under a directory tree.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// ListSources walks root recursively and returns every file whose name ends
// with suffix, together with its byte size. VCS directories are skipped.
func (w *Walker) ListSources(root, suffix string) ([]domain.SourceFile, error) {
	var files []domain.SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == ".git" || name == ".jj" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, domain.SourceFile{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to walk source tree"), "root", root)
	}
	return files, nil
}
