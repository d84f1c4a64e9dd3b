package flowgraph

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/threatflow/flowgraph/graph"
	"github.com/threatflow/flowgraph/id"
	"github.com/threatflow/flowgraph/stream"
)

// Session assembles one attack flow from one model streaming response.
//
// A Session owns a stream.Parser and a graph.State and wires them together:
// every Feed call parses whatever complete records the new fragment yields,
// registers and emits nodes, routes edges (immediately when both endpoints
// are already emitted, otherwise into the pending queue), and then runs a
// pending-edge resolution pass. Each element reaches the handlers exactly
// once, and an edge never arrives before both of its nodes.
//
// Sessions hold no process-wide state: create one per analysis request, feed
// it the fragments strictly in order, and discard it when the response ends.
// Cancellation is the caller's concern; because no operation suspends,
// cancelling simply means to stop feeding and call Reset.
//
// Session is not safe for concurrent use.
type Session struct {
	sessionID string
	cfg       sessionConfig

	parser  *stream.Parser
	state   *graph.State
	ids     *id.Generator
	metrics *sessionMetrics

	skippedSeen int
	closed      bool
}

// SessionStats is a read-only snapshot of a session's parser and graph state.
type SessionStats struct {
	// SessionID identifies the session.
	SessionID string `json:"session_id"`

	// Graph holds the state manager's collection sizes and counters.
	Graph graph.Stats `json:"graph"`

	// BufferedBytes is the size of the parser's incomplete-line buffer.
	BufferedBytes int `json:"buffered_bytes"`

	// SkippedLines is the number of stream lines dropped as unparseable.
	SkippedLines int `json:"skipped_lines"`
}

// NewSession creates a session for one analysis request.
func NewSession(opts ...Option) (*Session, error) {
	cfg := sessionConfig{
		limits: DefaultLimits(),
		logger: slog.Default(),
		now:    time.Now,
		repair: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	cfg.limits = cfg.limits.withDefaults()
	if err := cfg.limits.Validate(); err != nil {
		return nil, NewConfigurationError("NewSession", err)
	}

	meter := cfg.meter
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	metrics, err := newSessionMetrics(meter)
	if err != nil {
		return nil, NewInternalError("NewSession", err)
	}

	s := &Session{
		sessionID: uuid.NewString(),
		cfg:       cfg,
		metrics:   metrics,
		ids:       id.NewGenerator(),
	}
	s.parser = stream.NewParser(
		stream.WithMaxBuffer(cfg.limits.MaxBufferBytes),
		stream.WithRepair(cfg.repair),
		stream.WithLogger(cfg.logger),
	)
	s.state = graph.NewState(graph.Config{
		MaxNodeEntries:    cfg.limits.MaxNodeEntries,
		MaxProcessedEdges: cfg.limits.MaxProcessedEdges,
		MaxPendingEdges:   cfg.limits.MaxPendingEdges,
		PendingMaxAge:     cfg.limits.PendingMaxAge,
		RetainFraction:    cfg.limits.RetainFraction,
		Logger:            cfg.logger,
		Now:               cfg.now,
	})
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.sessionID
}

// Feed processes one raw text fragment from the model stream. Fragments must
// be delivered strictly sequentially; each call completes all consequent node
// and edge emission before returning.
//
// The only fatal failure is a parser buffer overflow, returned as a FlowError
// wrapping ErrBufferOverflow; the session is closed and further Feed calls
// return ErrSessionClosed. Malformed lines and capacity evictions never fail
// the call.
func (s *Session) Feed(ctx context.Context, fragment string) error {
	if s.closed {
		return NewStateError("Session.Feed", ErrSessionClosed)
	}

	if s.cfg.tracer != nil {
		var span trace.Span
		ctx, span = s.cfg.tracer.Start(ctx, "flowgraph.Session.Feed",
			trace.WithAttributes(
				attribute.String("session.id", s.sessionID),
				attribute.Int("fragment.bytes", len(fragment)),
			))
		defer span.End()
	}

	records, err := s.parser.Feed(fragment)
	if err != nil {
		s.closed = true
		return NewCapacityError("Session.Feed", err).WithContext(map[string]any{
			"session_id": s.sessionID,
		})
	}

	if skipped := s.parser.SkippedLines(); skipped > s.skippedSeen {
		s.metrics.linesSkipped.Add(ctx, int64(skipped-s.skippedSeen))
		s.skippedSeen = skipped
	}

	for i := range records {
		s.applyRecord(ctx, &records[i])
	}

	s.resolvePending(ctx)
	s.metrics.pendingDepth.Record(ctx, int64(s.state.Stats().PendingEdges))
	return nil
}

// applyRecord registers and emits a record's nodes, then routes its edges.
func (s *Session) applyRecord(ctx context.Context, rec *stream.Record) {
	if rec.Error != "" {
		s.cfg.logger.Warn("model reported stream error", "error", rec.Error)
		if s.cfg.errorHandler != nil {
			s.cfg.errorHandler(rec.Error)
		}
	}

	for _, d := range rec.Nodes {
		s.applyNode(ctx, d)
	}
	for _, d := range rec.Edges {
		s.applyEdge(ctx, d)
	}
}

func (s *Session) applyNode(ctx context.Context, d stream.NodeDescriptor) {
	before := s.state.Stats().NodeEvictions

	displayID := s.ids.DisplayID(d.ID)
	alreadyEmitted := s.state.HasEmittedNode(displayID)
	if d.ID != "" {
		// Last write wins: re-registration refreshes the mapping.
		s.state.RegisterNode(d.ID, displayID)
	}
	if alreadyEmitted {
		return
	}

	node := nodeFromDescriptor(d, displayID, s.cfg.now())
	if s.cfg.nodeHandler != nil {
		s.cfg.nodeHandler(node)
	}
	s.state.MarkNodeEmitted(displayID)
	s.metrics.nodesEmitted.Add(ctx, 1)
	s.metrics.recordEvictions(ctx, "node_identity", s.state.Stats().NodeEvictions-before)
}

func (s *Session) applyEdge(ctx context.Context, d stream.EdgeDescriptor) {
	edgeID := d.ID
	if edgeID == "" {
		// The model omitted an edge ID; the endpoint pair is the identity.
		edgeID = d.Source + "->" + d.Target
	}
	if s.state.HasProcessedEdge(edgeID) {
		return
	}

	edge := edgeFromDescriptor(d, edgeID)

	src, srcOK := s.emittedDisplayID(d.Source)
	tgt, tgtOK := s.emittedDisplayID(d.Target)
	if srcOK && tgtOK {
		edge.Source = src
		edge.Target = tgt
		s.state.MarkEdgeProcessed(edgeID)
		if s.cfg.edgeHandler != nil {
			s.cfg.edgeHandler(edge)
		}
		s.metrics.edgesEmitted.Add(ctx, 1)
		return
	}

	before := s.state.Stats()
	s.state.AddPendingEdge(edge, d.Source, d.Target)
	after := s.state.Stats()
	s.metrics.recordEvictions(ctx, "pending_edges",
		after.PendingEvictions-before.PendingEvictions+after.PendingExpired-before.PendingExpired)
}

// emittedDisplayID resolves an original ID to a display ID, requiring the
// node to have been emitted, not merely registered.
func (s *Session) emittedDisplayID(originalID string) (string, bool) {
	displayID, ok := s.state.DisplayID(originalID)
	if !ok || !s.state.HasEmittedNode(displayID) {
		return "", false
	}
	return displayID, true
}

// resolvePending runs one pending-edge resolution pass, emitting every edge
// whose endpoints have both been emitted since it was queued.
func (s *Session) resolvePending(ctx context.Context) {
	s.state.ProcessPendingEdges(func(edge graph.Edge) {
		if s.cfg.edgeHandler != nil {
			s.cfg.edgeHandler(edge)
		}
		s.metrics.edgesEmitted.Add(ctx, 1)
	})
}

// Reset abandons all in-flight state and reopens the session: the parser
// buffer, identity maps, pending queue, and deduplication sets are cleared.
func (s *Session) Reset() {
	s.parser.Reset()
	s.state.Reset()
	s.skippedSeen = 0
	s.closed = false
}

// Close marks the session finished. Subsequent Feed calls return a FlowError
// wrapping ErrSessionClosed. Close is idempotent.
func (s *Session) Close() error {
	s.closed = true
	return nil
}

// Stats returns a read-only snapshot of parser and graph state.
func (s *Session) Stats() SessionStats {
	return SessionStats{
		SessionID:     s.sessionID,
		Graph:         s.state.Stats(),
		BufferedBytes: s.parser.Buffered(),
		SkippedLines:  s.parser.SkippedLines(),
	}
}

// nodeFromDescriptor converts a raw node descriptor to an emitted node.
// A "type" property is promoted to the node's Type field; everything else
// stays in Properties untouched.
func nodeFromDescriptor(d stream.NodeDescriptor, displayID string, now time.Time) graph.Node {
	node := graph.Node{
		ID:         displayID,
		OriginalID: d.ID,
		CreatedAt:  now,
	}
	props := d.Properties
	if t, ok := props["type"].(string); ok {
		node.Type = t
		delete(props, "type")
	}
	if len(props) > 0 {
		node.Properties = props
	}
	return node
}

// edgeFromDescriptor converts a raw edge descriptor to an edge payload with
// unresolved endpoints.
func edgeFromDescriptor(d stream.EdgeDescriptor, edgeID string) graph.Edge {
	edge := graph.Edge{ID: edgeID}
	props := d.Properties
	if t, ok := props["type"].(string); ok {
		edge.Type = t
		delete(props, "type")
	}
	if len(props) > 0 {
		edge.Properties = props
	}
	return edge
}
