package domain

import (
	"path/filepath"
	"slices"
	"time"
)

const (
	// DefaultStage is the build stage used when none is configured.
	DefaultStage = "dev"
	// DefaultStaticPrefix is the URL prefix client assets are served under.
	DefaultStaticPrefix = "/s/"
	// DefaultHost is the address the HTTP server binds to.
	DefaultHost = "0.0.0.0"
	// DefaultPort is the HTTP server port.
	DefaultPort = 3939
	// DefaultMount is the path the renderer is mounted on.
	DefaultMount = "/"
	// DefaultEntrypoint is the entrypoint rendered when a request names none.
	DefaultEntrypoint = "main"
)

// TargetConfig describes how to build one target.
type TargetConfig struct {
	// Command is the build command, argv style.
	Command []string
	// Watch lists source directories, relative to the project root.
	Watch []string
	// Environment is added to the command's environment.
	Environment map[string]string
}

// Entry names the source files of one entrypoint per target.
type Entry struct {
	Client string
	Server string
}

// ServerConfig holds the HTTP server options.
type ServerConfig struct {
	Host       string
	Port       int
	Mount      string
	Entrypoint string
	Siloed     bool
	Params     map[string]any
	Static     bool
	RenderURL  string
}

// WatchConfig holds the host-level watch options.
type WatchConfig struct {
	Delay  time.Duration
	Poll   time.Duration
	Ignore []string
	// FS writes compiled output to disk instead of capturing it in memory.
	FS   bool
	Port int
}

// Options converts the host options into compiler watch options.
func (w WatchConfig) Options() WatchOptions {
	return WatchOptions{
		AggregateTimeout: w.Delay,
		Poll:             w.Poll,
		Ignored:          w.Ignore,
	}.Normalize()
}

// Config is the resolved project configuration.
type Config struct {
	Root         string
	Stage        string
	StaticPrefix string
	OutputDir    string
	Targets      map[BuildTarget]TargetConfig
	Entries      map[string]Entry
	Server       ServerConfig
	Watch        WatchConfig
}

// NewConfig returns a configuration rooted at root with every default set.
func NewConfig(root string) *Config {
	return &Config{
		Root:         root,
		Stage:        DefaultStage,
		StaticPrefix: DefaultStaticPrefix,
		OutputDir:    DefaultOutputDirName,
		Targets:      make(map[BuildTarget]TargetConfig),
		Entries:      make(map[string]Entry),
		Server: ServerConfig{
			Host:       DefaultHost,
			Port:       DefaultPort,
			Mount:      DefaultMount,
			Entrypoint: DefaultEntrypoint,
			Static:     true,
			Params:     map[string]any{},
		},
		Watch: WatchConfig{
			Delay: DefaultAggregateTimeout,
			Port:  DefaultWatchPort,
		},
	}
}

// OutputPath returns the absolute output directory.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.OutputDir) {
		return c.OutputDir
	}
	return filepath.Join(c.Root, c.OutputDir)
}

// TargetOutputPath returns the directory a target's files end up in.
func (c *Config) TargetOutputPath(target BuildTarget) string {
	return filepath.Join(c.OutputPath(), target.String())
}

// StagingPath returns the directory a target writes to when its output is
// captured in memory.
func (c *Config) StagingPath(target BuildTarget) string {
	return filepath.Join(c.OutputPath(), StagingDirName, target.String())
}

// EntryNames returns the configured entrypoint names and the default
// entrypoint, sorted and without duplicates.
func (c *Config) EntryNames() []string {
	names := make([]string, 0, len(c.Entries)+1)
	for name := range c.Entries {
		names = append(names, name)
	}
	if c.Server.Entrypoint != "" {
		names = append(names, c.Server.Entrypoint)
	}
	slices.Sort(names)
	return slices.Compact(names)
}
