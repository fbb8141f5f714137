package telemetry

import (
	"context"
	"strings"

	"github.com/hashicorp/go-metrics"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanDurationKey prefixes the duration samples recorded per span name.
const SpanDurationKey = "gourmet.span.duration"

// Label names attached to span duration samples.
const (
	LabelSpan   = "span"
	LabelStatus = "status"
)

// MetricsBridge implements sdktrace.SpanProcessor by recording the duration
// of every ended span, in milliseconds, as a sample.
type MetricsBridge struct {
	sink metrics.MetricSink
}

// NewMetricsBridge returns a new MetricsBridge.
func NewMetricsBridge(sink metrics.MetricSink) *MetricsBridge {
	return &MetricsBridge{sink: sink}
}

// OnStart does nothing.
func (b *MetricsBridge) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd records the span duration.
func (b *MetricsBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() {
		return
	}

	status := "ok"
	if s.Status().Code == codes.Error {
		status = "error"
	}

	ms := float32(s.EndTime().Sub(s.StartTime()).Microseconds()) / 1000
	b.sink.AddSampleWithLabels([]string{SpanDurationKey}, ms, []metrics.Label{
		{Name: LabelSpan, Value: spanLabel(s.Name())},
		{Name: LabelStatus, Value: status},
	})
}

// ForceFlush does nothing.
func (b *MetricsBridge) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *MetricsBridge) Shutdown(context.Context) error {
	return nil
}

func spanLabel(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}
