package compiler

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/adapters/logger"
	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

// Factory creates the compilers of a project.
type Factory struct {
	logger  ports.Logger
	sources SourceWatcher
}

// NewFactory creates a Factory.
func NewFactory(logger ports.Logger, sources SourceWatcher) *Factory {
	return &Factory{logger: logger, sources: sources}
}

// New creates the compiler of target. With a non-nil storage the command
// writes to a staging directory and every build is copied into storage;
// otherwise it writes to the target's output directory.
func (f *Factory) New(cfg *domain.Config, target domain.BuildTarget, storage ports.Storage) (*Compiler, error) {
	tc, ok := cfg.Targets[target]
	if !ok {
		return nil, zerr.With(domain.ErrMissingTargetCommand, "target", target.String())
	}

	outputDir := cfg.TargetOutputPath(target)
	if storage != nil {
		outputDir = cfg.StagingPath(target)
	}

	return New(Options{
		Target:       target,
		Root:         cfg.Root,
		Command:      tc.Command,
		Environment:  tc.Environment,
		Stage:        cfg.Stage,
		StaticPrefix: cfg.StaticPrefix,
		OutputDir:    outputDir,
		WatchPaths:   tc.Watch,
		Entries:      cfg.EntryNames(),
		Ignored:      outputIgnore(cfg),
		Storage:      storage,
	}, logger.Prefixed(f.logger, target.String()), f.sources)
}

// outputIgnore returns the ignore pattern covering the output directory
// when it lies inside the project root.
func outputIgnore(cfg *domain.Config) []string {
	rel, err := filepath.Rel(cfg.Root, cfg.OutputPath())
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return []string{filepath.ToSlash(rel)}
}
