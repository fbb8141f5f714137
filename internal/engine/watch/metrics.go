package watch

import (
	"github.com/hashicorp/go-metrics"

	"go.trai.ch/gourmet/internal/core/domain"
)

var (
	compileCountKey  = []string{"gourmet", "compile", "count"}
	finalizeCountKey = []string{"gourmet", "finalize", "count"}
	gateQueuedKey    = []string{"gourmet", "gate", "queued"}
	gateFlushedKey   = []string{"gourmet", "gate", "flushed"}
	gatePendingKey   = []string{"gourmet", "gate", "pending"}
)

const (
	resultOK        = "ok"
	resultError     = "error"
	resultUnchanged = "unchanged"
)

func targetLabel(t domain.BuildTarget) metrics.Label {
	return metrics.Label{Name: "target", Value: t.String()}
}

func resultLabel(result string) metrics.Label {
	return metrics.Label{Name: "result", Value: result}
}
