package watch

import (
	"context"

	"go.trai.ch/gourmet/internal/core/ports"
)

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End() {}
func (noopSpan) RecordError(error) {}
func (noopSpan) SetAttribute(string, any) {}
