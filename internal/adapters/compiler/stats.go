package compiler

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/core/domain"
)

// outputFile is one file produced by a build.
type outputFile struct {
	name string // slash separated, relative to the output directory
	path string
	size int64
}

// listOutput returns the files below dir, sorted by name. The manifest is
// written after compilation and is not part of the output.
func listOutput(dir string) ([]outputFile, error) {
	var files []outputFile

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if name == domain.ManifestFileName {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, outputFile{name: name, path: p, size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrOutputCollectFailed.Error()), "dir", dir)
	}

	slices.SortFunc(files, func(a, b outputFile) int { return strings.Compare(a.name, b.name) })
	return files, nil
}

// hashOutput digests the names and contents of files, which must be sorted,
// followed by the error lines of a failed build.
func hashOutput(files []outputFile, errs []string) (string, error) {
	h := xxhash.New()
	sep := []byte{0}

	for _, f := range files {
		_, _ = h.WriteString(f.name)
		_, _ = h.Write(sep)

		if err := hashFile(h, f.path); err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrOutputCollectFailed.Error()), "file", f.name)
		}
		_, _ = h.Write(sep)
	}

	for _, e := range errs {
		_, _ = h.WriteString(e)
		_, _ = h.Write(sep)
	}

	return formatHash(h.Sum64()), nil
}

// clearOutput empties dir, creating it when missing. A manifest left by the
// previous build stays.
func clearOutput(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return os.MkdirAll(dir, domain.DirPerm)
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name() == domain.ManifestFileName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func hashFile(w io.Writer, p string) error {
	f, err := os.Open(p) //nolint:gosec // path comes from walking the output directory
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = io.Copy(w, f)
	return err
}

// entrypointFiles groups the files of every entry. A file belongs to entry
// "main" when its base name starts with "main." or "main-".
func entrypointFiles(files []outputFile, entries []string) map[string][]string {
	out := make(map[string][]string, len(entries))
	for _, entry := range entries {
		var matched []string
		for _, f := range files {
			base := path.Base(f.name)
			if strings.HasPrefix(base, entry+".") || strings.HasPrefix(base, entry+"-") {
				matched = append(matched, f.name)
			}
		}
		out[entry] = matched
	}
	return out
}

func assets(files []outputFile) []domain.Asset {
	out := make([]domain.Asset, 0, len(files))
	for _, f := range files {
		out = append(out, domain.Asset{Name: f.name, Size: f.size})
	}
	return out
}

func formatHash(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
