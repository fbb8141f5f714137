package domain

import "time"

const (
	// DefaultAggregateTimeout is the debounce applied to source changes when
	// no watch delay is configured.
	DefaultAggregateTimeout = 300 * time.Millisecond

	// DefaultPollInterval is used when polling is enabled without an explicit
	// interval.
	DefaultPollInterval = time.Second

	// DefaultWatchPort is the port of the hot-update channel.
	DefaultWatchPort = 3938
)

// WatchOptions configures how a compiler watches its sources.
type WatchOptions struct {
	// AggregateTimeout coalesces changes arriving within the window into one
	// rebuild.
	AggregateTimeout time.Duration
	// Poll switches from file system notifications to polling at the given
	// interval. Zero disables polling.
	Poll time.Duration
	// Ignored holds doublestar patterns, relative to the project root, whose
	// matches never trigger a rebuild.
	Ignored []string
}

// Normalize fills unset fields with defaults.
func (o WatchOptions) Normalize() WatchOptions {
	if o.AggregateTimeout <= 0 {
		o.AggregateTimeout = DefaultAggregateTimeout
	}
	if o.Poll < 0 {
		o.Poll = 0
	}
	return o
}
