package config

import (
	"strconv"
	"strings"
	"time"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.trai.ch/gourmet/internal/core/domain"
)

// File represents the structure of the gourmet.yaml configuration file.
type File struct {
	Version string               `yaml:"version"`
	Builder BuilderDTO           `yaml:"builder"`
	Targets map[string]TargetDTO `yaml:"targets"`
	Entry   map[string]EntryDTO  `yaml:"entry"`
	Server  ServerDTO            `yaml:"server"`
	Watch   WatchDTO             `yaml:"watch"`
}

// BuilderDTO holds the options shared by both targets.
type BuilderDTO struct {
	Stage        string `yaml:"stage"`
	StaticPrefix string `yaml:"staticPrefix"`
	OutputDir    string `yaml:"outputDir"`
}

// TargetDTO represents a build target definition.
type TargetDTO struct {
	Cmd         []string          `yaml:"cmd"`
	Watch       []string          `yaml:"watch"`
	Environment map[string]string `yaml:"env"`
}

// EntryDTO names the source files of an entrypoint.
type EntryDTO struct {
	Client string `yaml:"client"`
	Server string `yaml:"server"`
}

// ServerDTO represents the HTTP server options.
type ServerDTO struct {
	Host       string         `yaml:"host"`
	Port       int            `yaml:"port"`
	Mount      string         `yaml:"mount"`
	Entrypoint string         `yaml:"entrypoint"`
	Siloed     bool           `yaml:"siloed"`
	Params     map[string]any `yaml:"params"`
	Static     *bool          `yaml:"static"`
	RenderURL  string         `yaml:"renderUrl"`
}

// WatchDTO represents the watch options.
type WatchDTO struct {
	Delay  Millis   `yaml:"delay"`
	Poll   Poll     `yaml:"poll"`
	Ignore []string `yaml:"ignore"`
	FS     bool     `yaml:"fs"`
	Port   int      `yaml:"port"`
}

// Millis is a duration written either as milliseconds or as a Go duration
// string such as "250ms".
type Millis time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Millis) UnmarshalYAML(node *yaml.Node) error {
	d, err := parseMillis(node.Value)
	if err != nil {
		return zerr.With(err, "line", node.Line)
	}
	*m = Millis(d)
	return nil
}

func parseMillis(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, zerr.With(zerr.New("invalid duration, expected milliseconds"), "value", value)
	}
	return d, nil
}

// Poll is the watch poll option: false disables polling, true polls at the
// default interval, a number polls every that many milliseconds.
type Poll time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Poll) UnmarshalYAML(node *yaml.Node) error {
	d, err := ParsePoll(node.Value)
	if err != nil {
		return zerr.With(err, "line", node.Line)
	}
	*p = Poll(d)
	return nil
}

// ParsePoll parses a poll option.
func ParsePoll(value string) (time.Duration, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0":
		return 0, nil
	case "true":
		return domain.DefaultPollInterval, nil
	}

	ms, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || ms < 0 {
		return 0, zerr.With(domain.ErrInvalidWatchPoll, "value", value)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
