// Package manifest writes and reads the per-target manifest describing
// compiled output.
package manifest

import (
	"context"
	"path"

	"github.com/goccy/go-json"
	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

var _ ports.ManifestWriter = (*Writer)(nil)

// Writer stores "<target>/manifest.json" files in a storage.
type Writer struct {
	storage      ports.Storage
	stage        string
	staticPrefix string
	onWrite      []func(domain.BuildTarget)
}

// NewWriter creates a Writer.
func NewWriter(storage ports.Storage, stage, staticPrefix string) *Writer {
	return &Writer{storage: storage, stage: stage, staticPrefix: staticPrefix}
}

// OnWrite registers fn to run after the manifest of a target was stored.
// Register hooks before the writer is used.
func (w *Writer) OnWrite(fn func(domain.BuildTarget)) {
	w.onWrite = append(w.onWrite, fn)
}

// WriteManifest writes the manifest of every target with a result.
func (w *Writer) WriteManifest(ctx context.Context, stats map[domain.BuildTarget]*domain.CompiledResult) error {
	written := 0
	for _, target := range domain.Targets {
		result := stats[target]
		if result == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := Marshal(w.build(target, result))
		if err != nil {
			return err
		}

		name := path.Join(target.String(), domain.ManifestFileName)
		if err := w.storage.WriteFile(name, data); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", name)
		}
		for _, fn := range w.onWrite {
			fn(target)
		}
		written++
	}

	if written == 0 {
		return domain.ErrMissingStats
	}
	return nil
}

func (w *Writer) build(target domain.BuildTarget, result *domain.CompiledResult) *domain.Manifest {
	m := &domain.Manifest{
		Target:       target,
		Stage:        w.stage,
		StaticPrefix: w.staticPrefix,
		Hash:         result.Hash,
		Entrypoints:  result.Entrypoints,
		Assets:       result.Assets,
	}
	if m.Entrypoints == nil {
		m.Entrypoints = map[string][]string{}
	}
	if m.Assets == nil {
		m.Assets = []domain.Asset{}
	}
	return m
}

// Marshal encodes m as indented JSON with a trailing newline.
func Marshal(m *domain.Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestMarshalFailed.Error())
	}
	return append(data, '\n'), nil
}

// Read loads the manifest of target from storage.
func Read(storage ports.Storage, target domain.BuildTarget) (*domain.Manifest, error) {
	name := path.Join(target.String(), domain.ManifestFileName)

	data, err := storage.ReadFile(name)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", name)
	}

	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", name)
	}
	return &m, nil
}
