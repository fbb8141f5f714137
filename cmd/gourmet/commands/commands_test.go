package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/gourmet/cmd/gourmet/commands"
	"go.trai.ch/gourmet/internal/app"
	"go.trai.ch/gourmet/internal/build"
	"go.trai.ch/gourmet/internal/core/domain"
)

type mockApp struct {
	jsonOutput bool
	verbose    bool

	serveFunc func(ctx context.Context, opts app.Options) error
	buildFunc func(ctx context.Context, opts app.Options) error
	cleanFunc func(ctx context.Context, opts app.Options) error
}

func (m *mockApp) ConfigureLogging(jsonOutput, verbose bool) {
	m.jsonOutput = jsonOutput
	m.verbose = verbose
}

func (m *mockApp) Serve(ctx context.Context, opts app.Options) error {
	if m.serveFunc != nil {
		return m.serveFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Build(ctx context.Context, opts app.Options) error {
	if m.buildFunc != nil {
		return m.buildFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.Options) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

func execute(t *testing.T, mock *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(mock)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(t.Context())
	return buf.String(), err
}

func TestCommands_Serve(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.Options
		mock := &mockApp{serveFunc: func(_ context.Context, opts app.Options) error {
			captured = opts
			return nil
		}}

		_, err := execute(t, mock, "serve",
			"--dir", "web",
			"--stage", "test",
			"--port", "4000",
			"--host", "0.0.0.0",
			"--static-prefix", "/assets/",
			"--render-url", "http://localhost:9000/render",
			"--watch-delay", "150ms",
			"--watch-poll", "true",
			"--watch-ignore", "**/*.tmp",
			"--watch-ignore", "tmp/**",
			"--watch-fs",
			"--watch-port", "4001",
		)
		require.NoError(t, err)

		o := captured.Overrides
		assert.Equal(t, "web", captured.Dir)
		assert.False(t, captured.NoWatch)
		require.NotNil(t, o.Stage)
		assert.Equal(t, "test", *o.Stage)
		require.NotNil(t, o.Port)
		assert.Equal(t, 4000, *o.Port)
		require.NotNil(t, o.Host)
		assert.Equal(t, "0.0.0.0", *o.Host)
		require.NotNil(t, o.StaticPrefix)
		assert.Equal(t, "/assets/", *o.StaticPrefix)
		require.NotNil(t, o.RenderURL)
		assert.Equal(t, "http://localhost:9000/render", *o.RenderURL)
		require.NotNil(t, o.WatchDelay)
		assert.Equal(t, 150*time.Millisecond, *o.WatchDelay)
		require.NotNil(t, o.WatchPoll)
		assert.Equal(t, domain.DefaultPollInterval, *o.WatchPoll)
		assert.Equal(t, []string{"**/*.tmp", "tmp/**"}, o.WatchIgnore)
		require.NotNil(t, o.WatchFS)
		assert.True(t, *o.WatchFS)
		require.NotNil(t, o.WatchPort)
		assert.Equal(t, 4001, *o.WatchPort)
	})

	t.Run("unset flags leave configuration alone", func(t *testing.T) {
		var captured app.Options
		mock := &mockApp{serveFunc: func(_ context.Context, opts app.Options) error {
			captured = opts
			return nil
		}}

		_, err := execute(t, mock, "serve", "--no-watch")
		require.NoError(t, err)

		assert.True(t, captured.NoWatch)
		assert.Equal(t, ".", captured.Dir)
		assert.Nil(t, captured.Overrides.Stage)
		assert.Nil(t, captured.Overrides.Port)
		assert.Nil(t, captured.Overrides.WatchPoll)
		assert.Empty(t, captured.Overrides.WatchIgnore)
	})

	t.Run("poll interval in milliseconds", func(t *testing.T) {
		var captured app.Options
		mock := &mockApp{serveFunc: func(_ context.Context, opts app.Options) error {
			captured = opts
			return nil
		}}

		_, err := execute(t, mock, "serve", "--watch-poll", "250")
		require.NoError(t, err)
		require.NotNil(t, captured.Overrides.WatchPoll)
		assert.Equal(t, 250*time.Millisecond, *captured.Overrides.WatchPoll)
	})

	t.Run("rejects invalid poll value", func(t *testing.T) {
		mock := &mockApp{serveFunc: func(context.Context, app.Options) error {
			panic("should not be called")
		}}

		_, err := execute(t, mock, "serve", "--watch-poll", "sometimes")
		assert.ErrorContains(t, err, domain.ErrInvalidWatchPoll.Error())
	})

	t.Run("returns error on serve failure", func(t *testing.T) {
		mock := &mockApp{serveFunc: func(context.Context, app.Options) error {
			return errors.New("simulated error")
		}}

		_, err := execute(t, mock, "serve")
		assert.ErrorContains(t, err, "simulated error")
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "serve", "extra")
		assert.Error(t, err)
	})
}

func TestCommands_Build(t *testing.T) {
	var captured app.Options
	mock := &mockApp{buildFunc: func(_ context.Context, opts app.Options) error {
		captured = opts
		return nil
	}}

	_, err := execute(t, mock, "build", "--stage", "production", "--static-prefix", "https://cdn.example.com/")
	require.NoError(t, err)

	require.NotNil(t, captured.Overrides.Stage)
	assert.Equal(t, "production", *captured.Overrides.Stage)
	require.NotNil(t, captured.Overrides.StaticPrefix)
	assert.Equal(t, "https://cdn.example.com/", *captured.Overrides.StaticPrefix)
}

func TestCommands_Clean(t *testing.T) {
	called := false
	mock := &mockApp{cleanFunc: func(_ context.Context, opts app.Options) error {
		called = true
		assert.Equal(t, "project", opts.Dir)
		return nil
	}}

	_, err := execute(t, mock, "clean", "--dir", "project")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestCommands_ConfigureLogging(t *testing.T) {
	mock := &mockApp{}

	_, err := execute(t, mock, "build", "--log-json", "-v")
	require.NoError(t, err)

	assert.True(t, mock.jsonOutput)
	assert.True(t, mock.verbose)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "gourmet version "+build.Version)
	assert.Contains(t, out, "commit: "+build.Commit)
}

func TestCommands_VersionFlag(t *testing.T) {
	out, err := execute(t, &mockApp{}, "--version")
	require.NoError(t, err)

	assert.Contains(t, out, build.Version)
	assert.Contains(t, out, "date: "+build.Date)
}
