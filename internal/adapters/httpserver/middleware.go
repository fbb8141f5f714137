package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/adapters/render"
	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

type argsKey struct{}

// WithArgs returns a context carrying the decoded args header.
func WithArgs(ctx context.Context, args map[string]any) context.Context {
	return context.WithValue(ctx, argsKey{}, args)
}

// ArgsFromContext returns the args stored by WithArgs, or an empty map.
func ArgsFromContext(ctx context.Context) map[string]any {
	if args, ok := ctx.Value(argsKey{}).(map[string]any); ok {
		return args
	}
	return map[string]any{}
}

// responseRecorder remembers the status of a response.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (r *responseRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += int64(n)
	return n, err
}

func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *responseRecorder) headersSent() bool {
	return r.status != 0
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := float64(time.Since(start).Microseconds()) / 1000
		s.logger.Info(fmt.Sprintf("%s %s %d %.3f ms - %d", r.Method, r.URL.RequestURI(), status, elapsed, rec.bytes))
	})
}

func (s *Server) servePages(w http.ResponseWriter, r *http.Request) {
	rec, ok := w.(*responseRecorder)
	if !ok {
		rec = &responseRecorder{ResponseWriter: w}
	}

	if s.opts.Static && strings.HasPrefix(r.URL.Path, s.opts.StaticPrefix) {
		s.serveAsset(rec, r)
		return
	}

	if !underMount(r.URL.Path, s.opts.Mount) {
		http.NotFound(rec, r)
		return
	}

	r = r.WithContext(WithArgs(r.Context(), render.DecodeArgs(r.Header.Get(domain.ArgsHeader))))
	if err := s.render(rec, r); err != nil {
		s.handleError(rec, r, err)
	}
}

func underMount(p, mount string) bool {
	if mount == "/" || p == mount {
		return true
	}
	return strings.HasPrefix(p, strings.TrimSuffix(mount, "/")+"/")
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, s.opts.StaticPrefix)
	name := path.Join(domain.TargetClient.String(), rel)
	if rel == "" || !fs.ValidPath(name) {
		http.NotFound(w, r)
		return
	}

	f, err := s.assets.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	rs, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		rs = strings.NewReader(string(data))
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), rs)
}

// renderRequest merges the configured defaults with the request args.
func (s *Server) renderRequest(r *http.Request) ports.RenderRequest {
	req := ports.RenderRequest{
		Entrypoint: s.opts.Entrypoint,
		Siloed:     s.opts.Siloed,
		Params:     s.opts.Params,
		URL:        r.URL.RequestURI(),
		Method:     r.Method,
		Headers:    r.Header.Clone(),
	}

	for key, value := range ArgsFromContext(r.Context()) {
		switch key {
		case "entrypoint":
			if v, ok := value.(string); ok && v != "" {
				req.Entrypoint = v
			}
		case "siloed":
			if v, ok := value.(bool); ok {
				req.Siloed = v
			}
		case "params":
			if v, ok := value.(map[string]any); ok {
				req.Params = v
			}
		default:
			if req.Extra == nil {
				req.Extra = make(map[string]any)
			}
			req.Extra[key] = value
		}
	}
	return req
}

func (s *Server) render(w *responseRecorder, r *http.Request) error {
	res, err := s.renderer.Render(r.Context(), s.renderRequest(r))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	for key, values := range res.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(res.StatusCode)

	if _, err := io.Copy(w, res.Body); err != nil {
		return zerr.Wrap(err, "failed to stream rendered page")
	}
	return nil
}

func (s *Server) handleError(w *responseRecorder, r *http.Request, err error) {
	err = zerr.With(err, "url", r.URL.RequestURI())
	err = zerr.With(err, "method", r.Method)
	s.logger.Error(err)

	if w.headersSent() {
		return
	}
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrEntrypointNotFound) {
		status = http.StatusNotFound
	}
	http.Error(w, http.StatusText(status), status)
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.dev.Status(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, status)
}

func (s *Server) serveMetrics(w http.ResponseWriter, r *http.Request) {
	summary, err := s.sink.DisplayMetrics(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, summary)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(append(data, '\n'))
}
