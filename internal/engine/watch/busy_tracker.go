package watch

import "go.trai.ch/gourmet/internal/core/domain"

// BusyTracker holds the busy flag of each build target and derives the
// aggregate compiling state from them.
type BusyTracker struct {
	busy map[domain.BuildTarget]bool
}

// NewBusyTracker returns a tracker with every target busy, so that nothing
// is served before the first build of both targets finished.
func NewBusyTracker() *BusyTracker {
	b := &BusyTracker{busy: make(map[domain.BuildTarget]bool, len(domain.Targets))}
	for _, t := range domain.Targets {
		b.busy[t] = true
	}
	return b
}

// SetBusy updates one target and reports whether the aggregate state went
// from compiling to idle with this call. The aggregate is recomputed from
// all targets, so the result is true only for the call that clears the last
// busy target.
func (b *BusyTracker) SetBusy(target domain.BuildTarget, busy bool) (becameIdle bool) {
	was := b.Compiling()
	b.busy[target] = busy
	return was && !b.Compiling()
}

// Busy reports whether target is mid-cycle.
func (b *BusyTracker) Busy(target domain.BuildTarget) bool {
	return b.busy[target]
}

// Compiling reports whether any target is mid-cycle.
func (b *BusyTracker) Compiling() bool {
	for _, busy := range b.busy {
		if busy {
			return true
		}
	}
	return false
}
