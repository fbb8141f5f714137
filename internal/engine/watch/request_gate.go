package watch

// RequestGate holds requests back while the system is busy and releases
// them, in arrival order, when it is told to flush.
type RequestGate struct {
	busy    func() bool
	pending []func()
}

// NewRequestGate creates a gate that consults busy on every admission.
func NewRequestGate(busy func() bool) *RequestGate {
	return &RequestGate{busy: busy}
}

// Admit dispatches the request right away when the system is idle and
// queues it otherwise. It reports whether the request was queued.
func (g *RequestGate) Admit(dispatch func()) (queued bool) {
	if g.busy() {
		g.pending = append(g.pending, dispatch)
		return true
	}
	dispatch()
	return false
}

// Flush dispatches every queued request in arrival order and returns how
// many were released. The queue is captured and cleared before the first
// dispatch: requests admitted during the replay go through Admit again and
// are never mixed into the released batch.
func (g *RequestGate) Flush() int {
	batch := g.pending
	g.pending = nil

	for _, dispatch := range batch {
		dispatch()
	}
	return len(batch)
}

// Len returns the number of queued requests.
func (g *RequestGate) Len() int {
	return len(g.pending)
}
