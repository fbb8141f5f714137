package render

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/adapters/manifest"
	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

var _ ports.PageRenderer = (*Shell)(nil)

var shellTemplate = template.Must(template.New("shell").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
{{- if .Siloed}}
<meta name="gourmet-siloed" content="true">
{{- end}}
{{- range .Styles}}
<link rel="stylesheet" href="{{.}}">
{{- end}}
</head>
<body>
<div id="__gourmet_content__"></div>
<script id="__gourmet_params__" type="application/json">{{.Params}}</script>
{{- range .Scripts}}
<script src="{{.}}" defer></script>
{{- end}}
</body>
</html>
`))

type shellData struct {
	Siloed  bool
	Styles  []string
	Scripts []string
	Params  template.JS
}

// Shell renders an HTML document that loads an entrypoint's client assets.
// The client manifest is read once and kept until CleanCache.
type Shell struct {
	storage      ports.Storage
	staticPrefix string

	mu       sync.Mutex
	manifest *domain.Manifest
}

// NewShell creates a Shell reading the client manifest from storage.
func NewShell(storage ports.Storage, staticPrefix string) *Shell {
	return &Shell{storage: storage, staticPrefix: staticPrefix}
}

// Render renders the shell of req.Entrypoint.
func (s *Shell) Render(_ context.Context, req ports.RenderRequest) (*ports.RenderResult, error) {
	m, err := s.clientManifest()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrRenderFailed.Error())
	}

	files, ok := m.Entrypoints[req.Entrypoint]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrEntrypointNotFound, "cannot render page"), "entrypoint", req.Entrypoint)
	}

	params := req.Params
	if params == nil {
		params = map[string]any{}
	}
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrRenderFailed.Error())
	}

	data := shellData{Siloed: req.Siloed, Params: template.JS(encoded)} //nolint:gosec // JSON with HTML characters escaped
	for _, f := range files {
		switch {
		case strings.HasSuffix(f, ".css"):
			data.Styles = append(data.Styles, s.assetURL(f))
		case strings.HasSuffix(f, ".js"):
			data.Scripts = append(data.Scripts, s.assetURL(f))
		}
	}

	var buf bytes.Buffer
	if err := shellTemplate.Execute(&buf, data); err != nil {
		return nil, zerr.Wrap(err, domain.ErrRenderFailed.Error())
	}

	header := http.Header{}
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Content-Length", strconv.Itoa(buf.Len()))
	return &ports.RenderResult{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       io.NopCloser(&buf),
	}, nil
}

// CleanCache forgets the loaded manifest.
func (s *Shell) CleanCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifest = nil
}

// ManifestWritten forgets the loaded manifest once the client manifest was
// replaced. Pass it to manifest.Writer.OnWrite.
func (s *Shell) ManifestWritten(target domain.BuildTarget) {
	if target == domain.TargetClient {
		s.CleanCache()
	}
}

func (s *Shell) clientManifest() (*domain.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.manifest != nil {
		return s.manifest, nil
	}
	m, err := manifest.Read(s.storage, domain.TargetClient)
	if err != nil {
		return nil, err
	}
	s.manifest = m
	return m, nil
}

func (s *Shell) assetURL(file string) string {
	return strings.TrimSuffix(s.staticPrefix, "/") + "/" + file
}
