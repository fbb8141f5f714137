package config

import (
	"time"

	"go.trai.ch/gourmet/internal/core/domain"
)

// Overrides holds command line values that take precedence over the file.
// Nil fields leave the configuration untouched.
type Overrides struct {
	Stage        *string
	StaticPrefix *string
	Host         *string
	Port         *int
	RenderURL    *string
	WatchDelay   *time.Duration
	WatchPoll    *time.Duration
	WatchIgnore  []string
	WatchFS      *bool
	WatchPort    *int
}

// Apply writes the set overrides into cfg.
func (o Overrides) Apply(cfg *domain.Config) {
	apply(&cfg.Stage, o.Stage)
	apply(&cfg.StaticPrefix, o.StaticPrefix)
	apply(&cfg.Server.Host, o.Host)
	apply(&cfg.Server.Port, o.Port)
	apply(&cfg.Server.RenderURL, o.RenderURL)
	apply(&cfg.Watch.Delay, o.WatchDelay)
	apply(&cfg.Watch.Poll, o.WatchPoll)
	apply(&cfg.Watch.FS, o.WatchFS)
	apply(&cfg.Watch.Port, o.WatchPort)
	if len(o.WatchIgnore) > 0 {
		cfg.Watch.Ignore = append(cfg.Watch.Ignore, o.WatchIgnore...)
	}
}

func apply[T any](dst *T, value *T) {
	if value != nil {
		*dst = *value
	}
}
