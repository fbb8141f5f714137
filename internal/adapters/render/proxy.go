package render

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/core/domain"
	"go.trai.ch/gourmet/internal/core/ports"
)

var _ ports.PageRenderer = (*Proxy)(nil)

// Proxy forwards render requests to a render server. The arguments travel
// in the args header; the response is streamed back unchanged.
type Proxy struct {
	target *url.URL
	client *http.Client
}

// NewProxy creates a Proxy for the render server at rawURL.
func NewProxy(rawURL string) (*Proxy, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, zerr.With(zerr.New("invalid render server url"), "url", rawURL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 256
	transport.MaxIdleConnsPerHost = 128
	transport.IdleConnTimeout = 30 * time.Second

	return &Proxy{target: u, client: &http.Client{Transport: transport}}, nil
}

// Render asks the render server for the page.
func (p *Proxy) Render(ctx context.Context, req ports.RenderRequest) (*ports.RenderResult, error) {
	args, err := EncodeArgs(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target.String(), nil)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrRenderFailed.Error())
	}
	httpReq.Header.Set(domain.ArgsHeader, args)

	resp, err := p.client.Do(httpReq) //nolint:bodyclose // the body is handed to the caller
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRenderFailed.Error()), "url", p.target.String())
	}

	return &ports.RenderResult{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       resp.Body,
	}, nil
}

// CleanCache is a no-op: the render server reloads its own bundles.
func (p *Proxy) CleanCache() {}
