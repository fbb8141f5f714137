package ports

import (
	"context"
	"io"
	"net/http"
)

// RenderRequest carries the arguments of one page render.
type RenderRequest struct {
	Entrypoint string         `json:"entrypoint"`
	Siloed     bool           `json:"siloed"`
	Params     map[string]any `json:"params,omitempty"`
	URL        string         `json:"url"`
	Method     string         `json:"method"`
	Headers    http.Header    `json:"headers,omitempty"`
	// Extra holds arguments forwarded by an upstream proxy.
	Extra map[string]any `json:"extra,omitempty"`
}

// RenderResult is a rendered response.
type RenderResult struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// PageRenderer produces server-rendered pages.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type PageRenderer interface {
	// Render renders the page described by req.
	Render(ctx context.Context, req RenderRequest) (*RenderResult, error)

	// CleanCache drops anything loaded from a previous server build.
	CleanCache()
}
