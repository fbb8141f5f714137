package storage

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

var _ ports.Storage = (*Memory)(nil)

type memEntry struct {
	data    []byte
	modTime time.Time
}

// Memory keeps files in memory. Files opened from it implement io.Seeker,
// so they can be served with http.ServeContent.
type Memory struct {
	mu    sync.RWMutex
	files map[string]memEntry
}

// NewMemory creates an empty Memory.
func NewMemory() *Memory {
	return &Memory{files: make(map[string]memEntry)}
}

// Open implements fs.FS.
func (m *Memory) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if e, ok := m.files[name]; ok {
		return &memFile{
			Reader: bytes.NewReader(e.data),
			info:   memInfo{name: path.Base(name), size: int64(len(e.data)), modTime: e.modTime},
		}, nil
	}

	entries := m.readDir(name)
	if name != "." && len(entries) == 0 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &memDir{info: memInfo{name: path.Base(name), dir: true}, entries: entries}, nil
}

// ReadFile returns a copy of the content of name.
func (m *Memory) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return bytes.Clone(e.data), nil
}

// WriteFile stores a copy of data under name.
func (m *Memory) WriteFile(name string, data []byte) error {
	if !fs.ValidPath(name) || name == "." {
		return zerr.With(domain.ErrStoragePathInvalid, "path", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = memEntry{data: bytes.Clone(data), modTime: time.Now()}
	return nil
}

// RemoveAll deletes name and everything below it.
func (m *Memory) RemoveAll(name string) error {
	if !fs.ValidPath(name) {
		return zerr.With(domain.ErrStoragePathInvalid, "path", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "." {
		clear(m.files)
		return nil
	}
	prefix := name + "/"
	for k := range m.files {
		if k == name || strings.HasPrefix(k, prefix) {
			delete(m.files, k)
		}
	}
	return nil
}

// readDir lists the direct children of dir. Callers hold mu.
func (m *Memory) readDir(dir string) []fs.DirEntry {
	prefix := ""
	if dir != "." {
		prefix = dir + "/"
	}

	seen := make(map[string]fs.DirEntry)
	for name, e := range m.files {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		if child, _, isDir := strings.Cut(rest, "/"); isDir {
			seen[child] = fs.FileInfoToDirEntry(memInfo{name: child, dir: true})
		} else {
			seen[child] = fs.FileInfoToDirEntry(memInfo{name: child, size: int64(len(e.data)), modTime: e.modTime})
		}
	}

	entries := make([]fs.DirEntry, 0, len(seen))
	for _, e := range seen {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int { return strings.Compare(a.Name(), b.Name()) })
	return entries
}

type memInfo struct {
	name    string
	size    int64
	modTime time.Time
	dir     bool
}

func (i memInfo) Name() string { return i.name }
func (i memInfo) Size() int64 { return i.size }
func (i memInfo) ModTime() time.Time { return i.modTime }
func (i memInfo) IsDir() bool { return i.dir }
func (i memInfo) Sys() any { return nil }

func (i memInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

type memFile struct {
	*bytes.Reader
	info memInfo
}

func (f *memFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *memFile) Close() error { return nil }

type memDir struct {
	info    memInfo
	entries []fs.DirEntry
	offset  int
}

func (d *memDir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *memDir) Close() error { return nil }

func (d *memDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}

// ReadDir implements fs.ReadDirFile.
func (d *memDir) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.offset += n
	return rest[:n], nil
}
