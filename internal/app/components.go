package app

import (
	"context"

	"go.trai.ch/gourmet/internal/core/ports"
)

// shutdowner is implemented by tracers that buffer spans.
type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Components holds everything the command line needs.
type Components struct {
	App    *App
	Logger ports.Logger
	Tracer ports.Tracer
}

// Shutdown flushes the tracer.
func (c *Components) Shutdown(ctx context.Context) error {
	if s, ok := c.Tracer.(shutdowner); ok {
		return s.Shutdown(ctx)
	}
	return nil
}
