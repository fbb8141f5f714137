package telemetry

import (
	"time"

	"github.com/hashicorp/go-metrics"
)

const (
	sinkInterval  = 10 * time.Second
	sinkRetention = time.Minute
)

// NewSink creates the in-memory sink exposed on the metrics endpoint.
func NewSink() *metrics.InmemSink {
	return metrics.NewInmemSink(sinkInterval, sinkRetention)
}
