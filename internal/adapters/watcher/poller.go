package watcher

import (
	"context"
	"encoding/binary"
	"io/fs"
	"iter"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"go.trai.ch/gourmet/internal/core/ports"
)

var _ ports.Watcher = (*Poller)(nil)

// Poller detects changes by rescanning the watched trees at a fixed
// interval. It is used where file system notifications are unreliable,
// such as network mounts and some container volumes.
type Poller struct {
	interval time.Duration
	ignore   *IgnoreMatcher
	roots    []string
	events   chan ports.WatchEvent
	stop     chan struct{}
	stopOnce sync.Once
}

// NewPoller creates a poller scanning every interval.
func NewPoller(interval time.Duration, ignore *IgnoreMatcher) *Poller {
	return &Poller{
		interval: interval,
		ignore:   ignore,
		events:   make(chan ports.WatchEvent, eventChannelBuffer),
		stop:     make(chan struct{}),
	}
}

// Start takes the initial snapshot and starts polling.
func (p *Poller) Start(ctx context.Context, roots ...string) error {
	p.roots = roots
	snapshot := p.scan()
	go p.run(ctx, snapshot)
	return nil
}

// Stop ends polling.
func (p *Poller) Stop() error {
	p.stopOnce.Do(func() { close(p.stop) })
	return nil
}

// Events returns the reported changes.
func (p *Poller) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range p.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (p *Poller) run(ctx context.Context, previous map[string]uint64) {
	defer close(p.events)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
		}

		current := p.scan()
		for _, event := range diff(previous, current) {
			select {
			case p.events <- event:
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			}
		}
		previous = current
	}
}

// scan fingerprints every file below the roots.
func (p *Poller) scan() map[string]uint64 {
	files := make(map[string]uint64)
	for _, root := range p.roots {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // files may vanish while scanning
			}
			if path != root && p.ignored(path) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil //nolint:nilerr // files may vanish while scanning
			}
			files[path] = fingerprint(info)
			return nil
		})
	}
	return files
}

func (p *Poller) ignored(path string) bool {
	if p.ignore == nil {
		return skippedDirectories[filepath.Base(path)]
	}
	return p.ignore.Match(path)
}

func fingerprint(info fs.FileInfo) uint64 {
	var buf [20]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(info.Size()))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(info.ModTime().UnixNano()))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(info.Mode()))
	return xxhash.Sum64(buf[:])
}

func diff(previous, current map[string]uint64) []ports.WatchEvent {
	var events []ports.WatchEvent
	for path, sum := range current {
		old, ok := previous[path]
		switch {
		case !ok:
			events = append(events, ports.WatchEvent{Path: path, Operation: ports.OpCreate})
		case old != sum:
			events = append(events, ports.WatchEvent{Path: path, Operation: ports.OpWrite})
		}
	}
	for path := range previous {
		if _, ok := current[path]; !ok {
			events = append(events, ports.WatchEvent{Path: path, Operation: ports.OpRemove})
		}
	}
	return events
}
