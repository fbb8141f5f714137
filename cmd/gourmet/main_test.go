package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/gourmet/internal/adapters/compiler"
	"go.trai.ch/gourmet/internal/adapters/hot"
	"go.trai.ch/gourmet/internal/adapters/telemetry"
	"go.trai.ch/gourmet/internal/app"
	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports/mocks"
)

func newComponents(loader *mocks.MockConfigLoader, log *mocks.MockLogger) ComponentProvider {
	return func(context.Context) (*app.Components, error) {
		tracer := telemetry.NewOTelTracer()
		application := app.New(
			loader,
			log,
			compiler.NewFactory(log, nil),
			hot.NewServer(log),
			tracer,
			telemetry.NewSink(),
		)
		return &app.Components{App: application, Logger: log, Tracer: tracer}, nil
	}
}

func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := newComponents(mocks.NewMockConfigLoader(ctrl), mocks.NewMockLogger(ctrl))

	stdout := new(bytes.Buffer)
	exitCode := run(t.Context(), []string{"version"}, stdout, io.Discard, provider)

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "gourmet version")
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(context.Context) (*app.Components, error) {
		return nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(t.Context(), []string{"version"}, io.Discard, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_ExecutionErrorIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load("somewhere").Return(nil, domain.ErrConfigNotFound)
	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	})

	exitCode := run(t.Context(), []string{"clean", "--dir", "somewhere"}, io.Discard, io.Discard, newComponents(loader, log))
	assert.Equal(t, 1, exitCode)
}

func TestRun_BuildFailureIsNotLoggedTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)

	cfg := domain.NewConfig(t.TempDir())
	for _, target := range domain.Targets {
		cfg.Targets[target] = domain.TargetConfig{Command: []string{"sh", "-c", "echo broken; exit 1"}}
	}
	loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)

	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Success(gomock.Any()).AnyTimes()

	var logged []error
	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		logged = append(logged, err)
	}).AnyTimes()

	exitCode := run(t.Context(), []string{"build"}, io.Discard, io.Discard, newComponents(loader, log))

	assert.Equal(t, 1, exitCode)
	require.NotEmpty(t, logged, "compile errors are reported")
	for _, err := range logged {
		assert.NotErrorIs(t, err, domain.ErrBuildExecutionFailed)
	}
}

func TestRun_Signal(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	blockCh := make(chan struct{})
	loader.EXPECT().Load(gomock.Any()).DoAndReturn(func(string) (*domain.Config, error) {
		select {
		case <-blockCh:
			return nil, context.Canceled
		case <-time.After(5 * time.Second):
			return nil, errors.New("timeout in mock")
		}
	})

	ctx, cancel := context.WithCancel(t.Context())
	exitCh := make(chan int)
	go func() {
		exitCh <- run(ctx, []string{"serve"}, io.Discard, io.Discard, newComponents(loader, log))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	close(blockCh)

	select {
	case code := <-exitCh:
		assert.NotEqual(t, 0, code)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
}
