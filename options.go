package flowgraph

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/threatflow/flowgraph/graph"
)

// NodeHandler receives each graph node the instant it is safely known to be
// complete.
type NodeHandler func(node graph.Node)

// EdgeHandler receives each graph edge once both of its endpoints have been
// emitted.
type EdgeHandler func(edge graph.Edge)

// ErrorHandler receives error messages the model embeds in the record stream.
type ErrorHandler func(message string)

// Option configures a Session.
type Option func(*sessionConfig)

// sessionConfig holds configuration for a Session instance.
type sessionConfig struct {
	limits       Limits
	logger       *slog.Logger
	tracer       trace.Tracer
	meter        metric.Meter
	nodeHandler  NodeHandler
	edgeHandler  EdgeHandler
	errorHandler ErrorHandler
	now          func() time.Time
	repair       bool
}

// WithLimits sets the memory bounds for the session. Zero-valued fields keep
// their defaults.
func WithLimits(limits Limits) Option {
	return func(c *sessionConfig) {
		c.limits = limits
	}
}

// WithLogger sets a custom logger for the session.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *sessionConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer sets an OpenTelemetry tracer; each Feed call then runs inside a
// span. Without this option no spans are created.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *sessionConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets the OpenTelemetry meter backing the session's instruments.
// Defaults to the global meter provider, which is a no-op unless configured.
func WithMeter(meter metric.Meter) Option {
	return func(c *sessionConfig) {
		c.meter = meter
	}
}

// WithNodeHandler sets the callback that receives emitted nodes. A session
// without a node handler still tracks state but surfaces nothing.
func WithNodeHandler(h NodeHandler) Option {
	return func(c *sessionConfig) {
		c.nodeHandler = h
	}
}

// WithEdgeHandler sets the callback that receives emitted edges.
func WithEdgeHandler(h EdgeHandler) Option {
	return func(c *sessionConfig) {
		c.edgeHandler = h
	}
}

// WithErrorHandler sets the callback that receives model-reported error
// messages found in the record stream.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *sessionConfig) {
		c.errorHandler = h
	}
}

// WithClock overrides the session's time source. Intended for tests that
// exercise pending-edge aging.
func WithClock(now func() time.Time) Option {
	return func(c *sessionConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithJSONRepair controls the parser's second-chance repair pass for
// almost-JSON lines. Enabled by default.
func WithJSONRepair(enabled bool) Option {
	return func(c *sessionConfig) {
		c.repair = enabled
	}
}
