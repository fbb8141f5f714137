package hot_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/gourmet/internal/adapters/hot"
	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports/mocks"
)

func newServer(t *testing.T) *hot.Server {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return hot.NewServer(log)
}

func next(t *testing.T, events <-chan hot.Event) hot.Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return hot.Event{}
	}
}

func TestServer_Lifecycle(t *testing.T) {
	s := newServer(t)
	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.Compiling()
	s.OnClientResult(nil, &domain.CompiledResult{Hash: "aaaa"})
	s.Ready("aaaa")

	assert.Equal(t, hot.Event{Type: hot.EventCompiling}, next(t, events))
	assert.Equal(t, hot.Event{Type: hot.EventOK, Hash: "aaaa"}, next(t, events))
	assert.Empty(t, events)
}

func TestServer_ErrorsSuppressReady(t *testing.T) {
	s := newServer(t)
	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.Compiling()
	s.OnClientResult(nil, &domain.CompiledResult{Hash: "bbbb", Errors: []string{"Module not found"}})
	s.Ready("bbbb")

	assert.Equal(t, hot.EventCompiling, next(t, events).Type)
	assert.Equal(t, hot.Event{Type: hot.EventErrors, Errors: []string{"Module not found"}}, next(t, events))
	assert.Empty(t, events)

	s.Compiling()
	s.OnClientResult(nil, &domain.CompiledResult{Hash: "cccc"})
	s.Ready("cccc")

	assert.Equal(t, hot.EventCompiling, next(t, events).Type)
	assert.Equal(t, hot.Event{Type: hot.EventOK, Hash: "cccc"}, next(t, events))
}

func TestServer_CompilerErrorIsForwarded(t *testing.T) {
	s := newServer(t)
	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.OnClientResult(errors.New("bundler crashed"), nil)

	assert.Equal(t, hot.Event{Type: hot.EventErrors, Errors: []string{"bundler crashed"}}, next(t, events))
}

func TestServer_LateSubscriberGetsLastEvent(t *testing.T) {
	s := newServer(t)
	s.Compiling()
	s.Ready("aaaa")

	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	assert.Equal(t, hot.Event{Type: hot.EventOK, Hash: "aaaa"}, next(t, events))
}

func TestServer_Unsubscribe(t *testing.T) {
	s := newServer(t)
	events, unsubscribe := s.Subscribe()
	unsubscribe()
	unsubscribe()

	s.Ready("aaaa")
	assert.Empty(t, events)
}

func TestServer_EventStream(t *testing.T) {
	s := newServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+hot.EventsPath, nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	s.Ready("abcd")

	reader := bufio.NewReader(res.Body)
	var lines []string
	for len(lines) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	assert.Equal(t, []string{"event: ok", `data: {"type":"ok","hash":"abcd"}`}, lines)
}

func TestServer_ClientScript(t *testing.T) {
	srv := httptest.NewServer(newServer(t).Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL + hot.ClientPath)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `new EventSource("//`+strings.TrimPrefix(srv.URL, "http://")+`/events")`)
}
