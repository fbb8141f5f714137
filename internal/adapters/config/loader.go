// Package config provides the configuration loader for gourmet.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds gourmet.yaml at or above cwd and resolves it into a Config
// rooted at the file's directory.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // path is discovered from cwd
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	file, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	cfg, err := Resolve(filepath.Dir(configPath), file)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	l.warnMissingWatchPaths(cfg)
	return cfg, nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

// Parse decodes a gourmet.yaml document. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return &file, nil
}

// Resolve applies the file on top of the defaults.
func Resolve(root string, file *File) (*domain.Config, error) {
	cfg := domain.NewConfig(root)

	setString(&cfg.Stage, file.Builder.Stage)
	setString(&cfg.StaticPrefix, file.Builder.StaticPrefix)
	setString(&cfg.OutputDir, file.Builder.OutputDir)

	for name, dto := range file.Targets {
		target, err := domain.ParseBuildTarget(name)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnknownTarget, domain.ErrConfigParseFailed.Error()), "target", name)
		}
		cfg.Targets[target] = domain.TargetConfig{
			Command:     dto.Cmd,
			Watch:       dto.Watch,
			Environment: dto.Environment,
		}
	}
	for _, target := range domain.Targets {
		if len(cfg.Targets[target].Command) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrMissingTargetCommand, domain.ErrConfigParseFailed.Error()), "target", target.String())
		}
	}

	for name, dto := range file.Entry {
		cfg.Entries[name] = domain.Entry{Client: dto.Client, Server: dto.Server}
	}

	s := file.Server
	setString(&cfg.Server.Host, s.Host)
	setString(&cfg.Server.Mount, s.Mount)
	setString(&cfg.Server.Entrypoint, s.Entrypoint)
	setString(&cfg.Server.RenderURL, s.RenderURL)
	if s.Port != 0 {
		cfg.Server.Port = s.Port
	}
	if s.Params != nil {
		cfg.Server.Params = s.Params
	}
	if s.Static != nil {
		cfg.Server.Static = *s.Static
	}
	cfg.Server.Siloed = s.Siloed

	w := file.Watch
	if w.Delay > 0 {
		cfg.Watch.Delay = time.Duration(w.Delay)
	}
	cfg.Watch.Poll = time.Duration(w.Poll)
	cfg.Watch.Ignore = w.Ignore
	cfg.Watch.FS = w.FS
	if w.Port != 0 {
		cfg.Watch.Port = w.Port
	}

	if err := validatePorts(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validatePorts(cfg *domain.Config) error {
	for key, port := range map[string]int{"server.port": cfg.Server.Port, "watch.port": cfg.Watch.Port} {
		if port < 0 || port > 65535 {
			return zerr.With(zerr.New("port out of range"), key, port)
		}
	}
	return nil
}

func (l *Loader) warnMissingWatchPaths(cfg *domain.Config) {
	for _, target := range domain.Targets {
		for _, p := range cfg.Targets[target].Watch {
			abs := p
			if !filepath.IsAbs(abs) {
				abs = filepath.Join(cfg.Root, p)
			}
			if _, err := os.Stat(abs); err != nil {
				l.Logger.Warn(fmt.Sprintf("watch path %q of target %s does not exist", p, target))
			}
		}
	}
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
