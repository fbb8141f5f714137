package watcher

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/core/domain"
)

// skippedDirectories are never watched.
var skippedDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

// IgnoreMatcher decides which paths below a root are not watched.
// Patterns are doublestar globs relative to the root, using forward slashes.
type IgnoreMatcher struct {
	root     string
	patterns []string
}

// NewIgnoreMatcher validates patterns and returns a matcher for root.
func NewIgnoreMatcher(root string, patterns []string) (*IgnoreMatcher, error) {
	clean := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(p)), "./")
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, zerr.With(domain.ErrInvalidIgnorePattern, "pattern", p)
		}
		clean = append(clean, p)
	}
	return &IgnoreMatcher{root: root, patterns: clean}, nil
}

// Match reports whether path is ignored. A path is ignored when it or one
// of its parent directories matches a pattern, or when it lies in a
// directory that is never watched.
func (m *IgnoreMatcher) Match(path string) bool {
	rel, err := filepath.Rel(m.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return false
	}

	segments := strings.Split(rel, "/")
	for _, seg := range segments {
		if skippedDirectories[seg] {
			return true
		}
	}

	for i := len(segments); i > 0; i-- {
		candidate := strings.Join(segments[:i], "/")
		for _, p := range m.patterns {
			if ok, _ := doublestar.Match(p, candidate); ok {
				return true
			}
		}
	}
	return false
}
