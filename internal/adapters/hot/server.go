// Package hot pushes client rebuild notifications to browsers over
// server-sent events.
package hot

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/goccy/go-json"

	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

const (
	// EventsPath is the endpoint browsers subscribe to.
	EventsPath = "/events"

	// ClientPath serves a script that reloads the page on every new hash.
	ClientPath = "/client.js"

	subscriberBuffer = 16
)

// Event types.
const (
	EventCompiling = "compiling"
	EventOK        = "ok"
	EventErrors    = "errors"
)

// Event is one notification sent to subscribers.
type Event struct {
	Type   string   `json:"type"`
	Hash   string   `json:"hash,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

var _ ports.HotNotifier = (*Server)(nil)

// Server fans events out to every connected browser. New subscribers
// receive the latest event first.
type Server struct {
	logger ports.Logger

	mu     sync.Mutex
	subs   map[chan Event]struct{}
	last   *Event
	failed bool
}

// NewServer creates a Server.
func NewServer(logger ports.Logger) *Server {
	return &Server{
		logger: logger,
		subs:   make(map[chan Event]struct{}),
	}
}

// Compiling announces a client rebuild.
func (s *Server) Compiling() {
	s.mu.Lock()
	s.failed = false
	s.mu.Unlock()

	s.publish(Event{Type: EventCompiling})
}

// Ready announces the new client hash, unless the last client build failed.
func (s *Server) Ready(hash string) {
	s.mu.Lock()
	failed := s.failed
	s.mu.Unlock()

	if failed {
		return
	}
	s.publish(Event{Type: EventOK, Hash: hash})
}

// OnClientResult records client failures and sends them to browsers.
func (s *Server) OnClientResult(err error, result *domain.CompiledResult) {
	var messages []string
	switch {
	case err != nil:
		messages = []string{err.Error()}
	case result.HasErrors():
		messages = result.Errors
	default:
		return
	}

	s.mu.Lock()
	s.failed = true
	s.mu.Unlock()

	s.publish(Event{Type: EventErrors, Errors: messages})
}

// Subscribe registers a subscriber and returns its channel and a function
// that removes it.
func (s *Server) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	if s.last != nil {
		ch <- *s.last
	}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
		})
	}
}

func (s *Server) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = &ev
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: it catches up with the next event.
		}
	}
}

// Handler returns the HTTP handler serving the events and client script.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+EventsPath, s.serveEvents)
	mux.HandleFunc("GET "+ClientPath, serveClient)
	return mux
}

func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, unsubscribe := s.Subscribe()
	defer unsubscribe()
	s.logger.Debug(fmt.Sprintf("hot client connected from %s", r.RemoteAddr))

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			if err := writeEvent(w, ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
	return err
}

const clientScript = `(function () {
  var hash = null;
  var source = new EventSource(%s);
  source.addEventListener("ok", function (e) {
    var next = JSON.parse(e.data).hash;
    if (hash !== null && next !== hash) { window.location.reload(); }
    hash = next;
  });
  source.addEventListener("errors", function (e) {
    JSON.parse(e.data).errors.forEach(function (msg) { console.error(msg); });
  });
})();
`

func serveClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	url := "//" + r.Host + EventsPath
	_, _ = fmt.Fprintf(w, clientScript, strconv.Quote(url))
}
