package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/gourmet/internal/adapters/config"
	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports/mocks"
)

const minimal = `
version: "1"
targets:
  server:
    cmd: ["esbuild", "--platform=node"]
  client:
    cmd: ["esbuild", "--bundle"]
`

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), domain.PrivateFilePerm))
}

func newLoader(t *testing.T) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	return config.NewLoader(log), log
}

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, minimal)
	loader, _ := newLoader(t)

	cfg, err := loader.Load(root)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, domain.DefaultStage, cfg.Stage)
	assert.Equal(t, domain.DefaultStaticPrefix, cfg.StaticPrefix)
	assert.Equal(t, domain.DefaultOutputDirName, cfg.OutputDir)
	assert.Equal(t, domain.DefaultHost, cfg.Server.Host)
	assert.Equal(t, domain.DefaultPort, cfg.Server.Port)
	assert.Equal(t, domain.DefaultMount, cfg.Server.Mount)
	assert.Equal(t, domain.DefaultEntrypoint, cfg.Server.Entrypoint)
	assert.True(t, cfg.Server.Static)
	assert.Equal(t, domain.DefaultAggregateTimeout, cfg.Watch.Delay)
	assert.Equal(t, domain.DefaultWatchPort, cfg.Watch.Port)
	assert.Zero(t, cfg.Watch.Poll)
	assert.Equal(t, []string{"esbuild", "--bundle"}, cfg.Targets[domain.TargetClient].Command)
}

func TestLoad_FullFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), domain.DirPerm))
	writeConfig(t, root, `
version: "1"
builder:
  stage: prod
  staticPrefix: /assets/
  outputDir: build
targets:
  server:
    cmd: ["make", "server"]
    watch: ["src"]
    env:
      NODE_ENV: production
  client:
    cmd: ["make", "client"]
entry:
  admin:
    client: ./src/admin.client.js
    server: ./src/admin.server.js
server:
  host: 127.0.0.1
  port: 8080
  mount: /app
  entrypoint: admin
  siloed: true
  params:
    theme: dark
  static: false
  renderUrl: http://localhost:4000/
watch:
  delay: 50
  poll: true
  ignore: ["**/*.tmp"]
  fs: true
  port: 9000
`)
	loader, _ := newLoader(t)

	cfg, err := loader.Load(root)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Stage)
	assert.Equal(t, "/assets/", cfg.StaticPrefix)
	assert.Equal(t, filepath.Join(root, "build"), cfg.OutputPath())
	assert.Equal(t, domain.TargetConfig{
		Command:     []string{"make", "server"},
		Watch:       []string{"src"},
		Environment: map[string]string{"NODE_ENV": "production"},
	}, cfg.Targets[domain.TargetServer])
	assert.Equal(t, domain.Entry{Client: "./src/admin.client.js", Server: "./src/admin.server.js"}, cfg.Entries["admin"])
	assert.Equal(t, domain.ServerConfig{
		Host:       "127.0.0.1",
		Port:       8080,
		Mount:      "/app",
		Entrypoint: "admin",
		Siloed:     true,
		Params:     map[string]any{"theme": "dark"},
		Static:     false,
		RenderURL:  "http://localhost:4000/",
	}, cfg.Server)
	assert.Equal(t, domain.WatchConfig{
		Delay:  50 * time.Millisecond,
		Poll:   domain.DefaultPollInterval,
		Ignore: []string{"**/*.tmp"},
		FS:     true,
		Port:   9000,
	}, cfg.Watch)
}

func TestLoad_DiscoversUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, minimal)
	deep := filepath.Join(root, "src", "components")
	require.NoError(t, os.MkdirAll(deep, domain.DirPerm))
	loader, _ := newLoader(t)

	cfg, err := loader.Load(deep)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.Root)
}

func TestLoad_NearestWins(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, minimal)
	nested := filepath.Join(root, "packages", "web")
	writeConfig(t, nested, minimal+"builder:\n  stage: nested\n")
	loader, _ := newLoader(t)

	cfg, err := loader.Load(nested)
	require.NoError(t, err)
	assert.Equal(t, nested, cfg.Root)
	assert.Equal(t, "nested", cfg.Stage)
}

func TestLoad_NotFound(t *testing.T) {
	loader, _ := newLoader(t)
	_, err := loader.Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}

func TestLoad_WarnsMissingWatchPath(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
targets:
  server:
    cmd: ["true"]
    watch: ["missing"]
  client:
    cmd: ["true"]
`)
	loader, log := newLoader(t)
	log.EXPECT().Warn(`watch path "missing" of target server does not exist`)

	_, err := loader.Load(root)
	require.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			content: "targets: [",
			wantErr: domain.ErrConfigParseFailed.Error(),
		},
		{
			name:    "unknown key",
			content: minimal + "extra: true\n",
			wantErr: domain.ErrConfigParseFailed.Error(),
		},
		{
			name:    "unknown target",
			content: minimal + "  worker:\n    cmd: [\"true\"]\n",
			wantErr: domain.ErrUnknownTarget.Error(),
		},
		{
			name:    "missing client command",
			content: "targets:\n  server:\n    cmd: [\"true\"]\n",
			wantErr: domain.ErrMissingTargetCommand.Error(),
		},
		{
			name:    "invalid poll",
			content: minimal + "watch:\n  poll: often\n",
			wantErr: domain.ErrInvalidWatchPoll.Error(),
		},
		{
			name:    "invalid delay",
			content: minimal + "watch:\n  delay: soon\n",
			wantErr: "invalid duration",
		},
		{
			name:    "port out of range",
			content: minimal + "server:\n  port: 70000\n",
			wantErr: "port out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeConfig(t, root, tt.content)
			loader, _ := newLoader(t)

			_, err := loader.Load(root)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParsePoll(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{value: "", want: 0},
		{value: "false", want: 0},
		{value: "true", want: domain.DefaultPollInterval},
		{value: "TRUE", want: domain.DefaultPollInterval},
		{value: "250", want: 250 * time.Millisecond},
		{value: "-1", wantErr: true},
		{value: "1s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := config.ParsePoll(tt.value)
			if tt.wantErr {
				assert.ErrorContains(t, err, domain.ErrInvalidWatchPoll.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverrides_Apply(t *testing.T) {
	cfg := domain.NewConfig("/project")
	cfg.Watch.Ignore = []string{"dist/**"}

	port := 4000
	poll := 2 * time.Second
	fsOut := true
	stage := "test"
	config.Overrides{
		Stage:       &stage,
		Port:        &port,
		WatchPoll:   &poll,
		WatchFS:     &fsOut,
		WatchIgnore: []string{"tmp/**"},
	}.Apply(cfg)

	assert.Equal(t, "test", cfg.Stage)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Watch.Poll)
	assert.True(t, cfg.Watch.FS)
	assert.Equal(t, []string{"dist/**", "tmp/**"}, cfg.Watch.Ignore)
	assert.Equal(t, domain.DefaultHost, cfg.Server.Host)
	assert.Equal(t, domain.DefaultAggregateTimeout, cfg.Watch.Delay)
}
