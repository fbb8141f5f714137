// Package storage keeps compiled output on disk or in memory.
package storage

import (
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

var _ ports.Storage = (*Disk)(nil)

// Disk stores files below a root directory.
type Disk struct {
	root string
	fsys fs.FS
}

// NewDisk creates a Disk rooted at root. The directory is created on the
// first write.
func NewDisk(root string) *Disk {
	return &Disk{root: root, fsys: os.DirFS(root)}
}

// Root returns the directory files are stored in.
func (d *Disk) Root() string {
	return d.root
}

// Open implements fs.FS.
func (d *Disk) Open(name string) (fs.File, error) {
	return d.fsys.Open(name)
}

// ReadFile returns the content of name.
func (d *Disk) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(d.fsys, name)
}

// WriteFile writes data to name, creating parent directories.
func (d *Disk) WriteFile(name string, data []byte) error {
	if !fs.ValidPath(name) || name == "." {
		return zerr.With(domain.ErrStoragePathInvalid, "path", name)
	}

	full := filepath.Join(d.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStorageWriteFailed.Error()), "path", name)
	}
	if err := os.WriteFile(full, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStorageWriteFailed.Error()), "path", name)
	}
	return nil
}

// RemoveAll deletes name and everything below it.
func (d *Disk) RemoveAll(name string) error {
	if !fs.ValidPath(name) {
		return zerr.With(domain.ErrStoragePathInvalid, "path", name)
	}
	if err := os.RemoveAll(filepath.Join(d.root, filepath.FromSlash(name))); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStorageWriteFailed.Error()), "path", name)
	}
	return nil
}
