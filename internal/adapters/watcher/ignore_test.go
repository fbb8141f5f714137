package watcher_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/gourmet/internal/adapters/watcher"
	"go.trai.ch/gourmet/internal/core/domain"
)

func TestIgnoreMatcher_Match(t *testing.T) {
	root := filepath.FromSlash("/project")
	m, err := watcher.NewIgnoreMatcher(root, []string{"dist/**", "**/*.test.js", "./tmp"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"src/index.js", false},
		{"dist/bundle.js", true},
		{"dist", true},
		{"src/app.test.js", true},
		{"tmp/cache/file", true},
		{"node_modules/react/index.js", true},
		{".git/HEAD", true},
		{"src/.gitkeep", false},
		{"../elsewhere/dist/x.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(filepath.Join(root, filepath.FromSlash(tt.path))))
		})
	}
}

func TestIgnoreMatcher_RootIsNeverIgnored(t *testing.T) {
	m, err := watcher.NewIgnoreMatcher("/project", []string{"**"})
	require.NoError(t, err)
	assert.False(t, m.Match("/project"))
}

func TestIgnoreMatcher_InvalidPattern(t *testing.T) {
	_, err := watcher.NewIgnoreMatcher("/project", []string{"src/[a-"})
	assert.ErrorContains(t, err, domain.ErrInvalidIgnorePattern.Error())
}
