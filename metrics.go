package flowgraph

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// instrumentationName identifies this module to OpenTelemetry providers.
const instrumentationName = "github.com/threatflow/flowgraph"

// sessionMetrics bundles the OpenTelemetry instruments a session records.
// All instruments come from the caller-provided meter (noop by default), so
// the assembler itself never owns an exporter or any I/O.
type sessionMetrics struct {
	nodesEmitted metric.Int64Counter
	edgesEmitted metric.Int64Counter
	linesSkipped metric.Int64Counter
	evictions    metric.Int64Counter
	pendingDepth metric.Int64Gauge
}

func newSessionMetrics(meter metric.Meter) (*sessionMetrics, error) {
	m := &sessionMetrics{}
	var err error

	if m.nodesEmitted, err = meter.Int64Counter("flowgraph.nodes.emitted",
		metric.WithDescription("Graph nodes handed to the consumer"),
	); err != nil {
		return nil, fmt.Errorf("failed to create nodes counter: %w", err)
	}

	if m.edgesEmitted, err = meter.Int64Counter("flowgraph.edges.emitted",
		metric.WithDescription("Graph edges handed to the consumer"),
	); err != nil {
		return nil, fmt.Errorf("failed to create edges counter: %w", err)
	}

	if m.linesSkipped, err = meter.Int64Counter("flowgraph.lines.skipped",
		metric.WithDescription("Stream lines dropped as unparseable"),
	); err != nil {
		return nil, fmt.Errorf("failed to create skipped counter: %w", err)
	}

	if m.evictions, err = meter.Int64Counter("flowgraph.evictions",
		metric.WithDescription("Entries discarded from bounded collections"),
	); err != nil {
		return nil, fmt.Errorf("failed to create evictions counter: %w", err)
	}

	if m.pendingDepth, err = meter.Int64Gauge("flowgraph.edges.pending",
		metric.WithDescription("Edges currently awaiting endpoint resolution"),
	); err != nil {
		return nil, fmt.Errorf("failed to create pending gauge: %w", err)
	}

	return m, nil
}

func (m *sessionMetrics) recordEvictions(ctx context.Context, collection string, n int) {
	if n <= 0 {
		return
	}
	m.evictions.Add(ctx, int64(n),
		metric.WithAttributes(attribute.String("collection", collection)))
}
