package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/adapters/logger"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []logger.ErrorEntry
	}{
		{
			name: "standard error",
			err:  errors.New("simple error"),
			want: []logger.ErrorEntry{{Message: "simple error"}},
		},
		{
			name: "wrapped chain",
			err:  zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle"), "outer"),
			want: []logger.ErrorEntry{
				{Message: "outer", Metadata: map[string]any{}},
				{Message: "middle", Metadata: map[string]any{}},
				{Message: "root cause"},
			},
		},
		{
			name: "metadata on a standard error",
			err:  zerr.With(errors.New("no such file"), "path", "gourmet.yaml"),
			want: []logger.ErrorEntry{
				{Message: "no such file", Metadata: map[string]any{"path": "gourmet.yaml"}},
			},
		},
		{
			name: "metadata-only link after a message",
			err:  zerr.With(zerr.Wrap(zerr.With(errors.New("exit status 1"), "code", 1), "build failed"), "target", "client"),
			want: []logger.ErrorEntry{
				{Message: "build failed", Metadata: map[string]any{"target": "client", "code": 1}},
				{Message: "exit status 1"},
			},
		},
		{
			name: "nil",
			err:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.CollectErrorEntries(tt.err))
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "chain",
			entries: []logger.ErrorEntry{{Message: "first"}, {Message: "second"}, {Message: "third"}},
			want:    "Error: first\n\n  Caused by:\n    → second\n    → third",
		},
		{
			name: "metadata sorted by key",
			entries: []logger.ErrorEntry{
				{Message: "error", Metadata: map[string]any{"zebra": "z", "alpha": "a"}},
				{Message: "cause", Metadata: map[string]any{"port": 3939}},
			},
			want: "Error: error\n       alpha: a\n       zebra: z\n\n  Caused by:\n    → cause\n      port: 3939",
		},
		{
			name:    "multiline",
			entries: []logger.ErrorEntry{{Message: "main"}, {Message: "cause line1\ncause line2"}},
			want:    "Error: main\n\n  Caused by:\n    → cause line1\n      cause line2",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
