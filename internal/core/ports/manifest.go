package ports

import (
	"context"

	"go.trai.ch/gourmet/internal/core/domain"
)

// ManifestWriter persists the manifests describing compiled output.
//
//go:generate mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestWriter interface {
	// WriteManifest writes a manifest for every non-nil result.
	WriteManifest(ctx context.Context, stats map[domain.BuildTarget]*domain.CompiledResult) error
}
