package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"go.trai.ch/gourmet/internal/adapters/telemetry"
	"go.trai.ch/gourmet/internal/core/ports"
)

func TestOTelTracer_RecordsSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tracer := telemetry.NewOTelTracer(sr)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	_, span := tracer.Start(context.Background(), "compile client", ports.WithAttribute("target", "client"))
	span.SetAttribute("hash", "abcd")
	span.SetAttribute("assets", 3)
	span.SetAttribute("changed", true)
	span.SetAttribute("files", []string{"main.js"})
	span.SetAttribute("duration", time.Second)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "compile client", ended[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "client", attrs["target"].AsString())
	assert.Equal(t, "abcd", attrs["hash"].AsString())
	assert.Equal(t, int64(3), attrs["assets"].AsInt64())
	assert.True(t, attrs["changed"].AsBool())
	assert.Equal(t, []string{"main.js"}, attrs["files"].AsStringSlice())
	assert.Equal(t, "1s", attrs["duration"].AsString())
}

func TestOTelTracer_RecordError(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tracer := telemetry.NewOTelTracer(sr)

	_, span := tracer.Start(context.Background(), "finalize")
	span.RecordError(errors.New("disk full"))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "disk full", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestMetricsBridge_RecordsDurations(t *testing.T) {
	sink := metrics.NewInmemSink(time.Minute, time.Minute)
	tracer := telemetry.NewOTelTracer(telemetry.NewMetricsBridge(sink))

	_, ok := tracer.Start(context.Background(), "compile server")
	ok.End()

	_, failed := tracer.Start(context.Background(), "finalize")
	failed.RecordError(errors.New("boom"))
	failed.End()

	data := sink.Data()
	require.NotEmpty(t, data)
	samples := data[len(data)-1].Samples

	var names []string
	for name, s := range samples {
		names = append(names, name)
		assert.Equal(t, 1, s.Count)
	}
	assert.ElementsMatch(t, []string{
		"gourmet.span.duration;span=compile_server;status=ok",
		"gourmet.span.duration;span=finalize;status=error",
	}, names)
}
