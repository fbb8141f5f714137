package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/gourmet/internal/core/domain"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), domain.DirPerm))
		require.NoError(t, os.WriteFile(p, []byte(content), domain.FilePerm))
	}
}

func TestListOutput_SortedWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.js":       "a",
		"css/main.css":  "bb",
		"manifest.json": "{}",
	})

	files, err := listOutput(dir)
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "css/main.css", files[0].name)
	assert.Equal(t, int64(2), files[0].size)
	assert.Equal(t, "main.js", files[1].name)
}

func TestHashOutput(t *testing.T) {
	hashOf := func(files map[string]string) string {
		t.Helper()
		dir := t.TempDir()
		writeFiles(t, dir, files)
		list, err := listOutput(dir)
		require.NoError(t, err)
		h, err := hashOutput(list, nil)
		require.NoError(t, err)
		return h
	}

	base := hashOf(map[string]string{"main.js": "a", "vendor.js": "b"})
	assert.Len(t, base, 16)

	assert.Equal(t, base, hashOf(map[string]string{"main.js": "a", "vendor.js": "b", "manifest.json": "changed"}),
		"the manifest does not affect the hash")
	assert.NotEqual(t, base, hashOf(map[string]string{"main.js": "a", "vendor.js": "c"}))
	assert.NotEqual(t, base, hashOf(map[string]string{"main.js": "a", "other.js": "b"}))
	assert.NotEqual(t, base, hashOf(map[string]string{"main.jsv": "", "endor.js": "ab"}),
		"names and contents are separated")
}

func TestHashOutput_IncludesErrors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.js": "a"})
	list, err := listOutput(dir)
	require.NoError(t, err)

	clean, err := hashOutput(list, nil)
	require.NoError(t, err)
	first, err := hashOutput(list, []string{"error in a.js", "exit status 2"})
	require.NoError(t, err)
	second, err := hashOutput(list, []string{"error in b.js", "exit status 2"})
	require.NoError(t, err)

	assert.NotEqual(t, clean, first)
	assert.NotEqual(t, first, second)
}

func TestClearOutput_KeepsManifest(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.js":       "a",
		"css/main.css":  "b",
		"manifest.json": "{}",
	})

	require.NoError(t, clearOutput(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "manifest.json", entries[0].Name())

	missing := filepath.Join(dir, "new", "out")
	require.NoError(t, clearOutput(missing))
	assert.DirExists(t, missing)
}

func TestEntrypointFiles(t *testing.T) {
	files := []outputFile{
		{name: "admin.js"},
		{name: "css/main-3f2a.css"},
		{name: "main.3f2a.js"},
		{name: "mainframe.js"},
		{name: "vendor.js"},
	}

	got := entrypointFiles(files, []string{"main", "admin", "missing"})

	assert.Equal(t, []string{"css/main-3f2a.css", "main.3f2a.js"}, got["main"])
	assert.Equal(t, []string{"admin.js"}, got["admin"])
	assert.Empty(t, got["missing"])
}

func TestLineWriter_KeepsTail(t *testing.T) {
	w := &lineWriter{}
	for i := range tailLines + 5 {
		_, _ = w.Write([]byte{byte('a' + i%26), '\r', '\n'})
	}
	_, _ = w.Write([]byte("partial"))
	require.NoError(t, w.Close())

	lines := w.Lines()
	assert.Len(t, lines, tailLines)
	assert.Equal(t, "partial", lines[len(lines)-1])
}

func TestWarnings(t *testing.T) {
	lines := []string{"compiled", "WARNING in ./src/a.js", "  warning: unused var", "error"}
	assert.Equal(t, []string{"WARNING in ./src/a.js", "  warning: unused var"}, warnings(lines))
}
