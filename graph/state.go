package graph

import (
	"log/slog"
	"time"
)

// Default capacity bounds for the state manager's internal collections.
const (
	// DefaultMaxNodeEntries bounds the original-to-display identity map.
	DefaultMaxNodeEntries = 500

	// DefaultMaxProcessedEdges bounds the edge deduplication set.
	DefaultMaxProcessedEdges = 500

	// DefaultMaxPendingEdges bounds the unresolved-edge queue.
	DefaultMaxPendingEdges = 1000

	// DefaultPendingMaxAge is how long an unresolved edge may wait before it
	// is pruned regardless of queue occupancy.
	DefaultPendingMaxAge = 5 * time.Minute

	// DefaultRetainFraction is the share of a full collection kept when a
	// capacity trim runs.
	DefaultRetainFraction = 0.75
)

// Config configures a State instance. The zero value is usable; any field
// left unset falls back to the package defaults above.
type Config struct {
	// MaxNodeEntries caps the node identity map.
	MaxNodeEntries int

	// MaxProcessedEdges caps the processed-edge deduplication set.
	MaxProcessedEdges int

	// MaxPendingEdges caps the pending-edge queue.
	MaxPendingEdges int

	// PendingMaxAge is the absolute age bound for pending edges.
	PendingMaxAge time.Duration

	// RetainFraction is the share of entries kept on a capacity trim.
	RetainFraction float64

	// Logger receives eviction warnings. Defaults to slog.Default().
	Logger *slog.Logger

	// Now supplies timestamps for pending-edge aging. Defaults to time.Now.
	// Injectable for tests.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.MaxNodeEntries <= 0 {
		c.MaxNodeEntries = DefaultMaxNodeEntries
	}
	if c.MaxProcessedEdges <= 0 {
		c.MaxProcessedEdges = DefaultMaxProcessedEdges
	}
	if c.MaxPendingEdges <= 0 {
		c.MaxPendingEdges = DefaultMaxPendingEdges
	}
	if c.PendingMaxAge <= 0 {
		c.PendingMaxAge = DefaultPendingMaxAge
	}
	if c.RetainFraction <= 0 || c.RetainFraction >= 1 {
		c.RetainFraction = DefaultRetainFraction
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Stats is a read-only snapshot of the state manager's collection sizes and
// degradation counters. Counts only; taking a snapshot has no behavioral
// effect.
type Stats struct {
	// KnownNodes is the number of original IDs currently mapped.
	KnownNodes int `json:"known_nodes"`

	// EmittedNodes is the number of display IDs handed to the caller.
	EmittedNodes int `json:"emitted_nodes"`

	// PendingEdges is the number of edges awaiting endpoint resolution.
	PendingEdges int `json:"pending_edges"`

	// ProcessedEdges is the number of edge IDs in the deduplication set.
	ProcessedEdges int `json:"processed_edges"`

	// NodeEvictions counts identity-map entries discarded by capacity trims.
	NodeEvictions int `json:"node_evictions"`

	// PendingEvictions counts pending edges discarded by capacity trims.
	PendingEvictions int `json:"pending_evictions"`

	// PendingExpired counts pending edges pruned by the age bound.
	PendingExpired int `json:"pending_expired"`
}

// State is the graph state manager: it tracks which nodes and edges are
// known, resolved, emitted, or still pending, and drives correct-order edge
// emission.
//
// Every internal collection is hard-capped, so memory stays bounded no matter
// how long or how pathological the upstream stream is. Overflow is handled by
// discarding the oldest entries, never by failing: no State method returns an
// error. The accepted trade-off is availability over completeness under
// adversarial input.
//
// A node moves through three states: known to the model's output, mapped to a
// display ID, and emitted to the caller. RegisterNode performs the mapping;
// MarkNodeEmitted records the hand-off. ProcessPendingEdges releases an edge
// only when both endpoints have reached the emitted state, so the caller never
// receives an edge referencing a node it has not seen.
//
// State is scoped to a single streaming session and is not safe for
// concurrent use.
type State struct {
	cfg Config

	identity  *boundedMap[string]
	emitted   *boundedMap[struct{}]
	processed *boundedMap[struct{}]
	pending   *pendingQueue
}

// NewState creates a state manager with the given configuration.
func NewState(cfg Config) *State {
	cfg = cfg.withDefaults()
	return &State{
		cfg:       cfg,
		identity:  newBoundedMap[string](cfg.MaxNodeEntries, cfg.RetainFraction),
		emitted:   newBoundedMap[struct{}](cfg.MaxNodeEntries, cfg.RetainFraction),
		processed: newBoundedMap[struct{}](cfg.MaxProcessedEdges, cfg.RetainFraction),
		pending:   newPendingQueue(cfg.MaxPendingEdges, cfg.PendingMaxAge),
	}
}

// RegisterNode maps a model-assigned identifier to a display identifier.
// Re-registering an existing original ID overwrites the mapping (last write
// wins) and does not error. Crossing the identity-map capacity triggers an
// insertion-order trim.
func (s *State) RegisterNode(originalID, displayID string) {
	if evicted := s.identity.put(originalID, displayID); evicted > 0 {
		s.cfg.Logger.Warn("node identity map over capacity, evicted oldest entries",
			"evicted", evicted,
			"capacity", s.cfg.MaxNodeEntries)
	}
}

// MarkNodeEmitted records that the node with the given display ID has been
// handed to the caller.
func (s *State) MarkNodeEmitted(displayID string) {
	s.emitted.put(displayID, struct{}{})
}

// HasProcessedNode reports whether the original ID has been registered.
func (s *State) HasProcessedNode(originalID string) bool {
	return s.identity.has(originalID)
}

// HasEmittedNode reports whether the display ID has been emitted to the caller.
func (s *State) HasEmittedNode(displayID string) bool {
	return s.emitted.has(displayID)
}

// DisplayID returns the display identifier mapped to the original ID, if any.
func (s *State) DisplayID(originalID string) (string, bool) {
	return s.identity.get(originalID)
}

// AddPendingEdge queues an edge whose endpoints are not yet emitted. Exact
// duplicates already pending (compared by edge ID) are silently ignored. If
// the queue is at capacity the oldest quarter is evicted first; that data
// loss is deliberate and logged, not surfaced as an error.
func (s *State) AddPendingEdge(edge Edge, sourceRef, targetRef string) {
	s.cleanupExpired()

	if edge.ID != "" && s.pending.contains(edge.ID) {
		return
	}

	evicted := s.pending.add(PendingEdge{
		Edge:      edge,
		SourceRef: sourceRef,
		TargetRef: targetRef,
		AddedAt:   s.cfg.Now(),
	})
	if evicted > 0 {
		s.cfg.Logger.Warn("pending edge queue over capacity, evicted oldest entries",
			"evicted", evicted,
			"capacity", s.cfg.MaxPendingEdges)
	}
}

// ProcessPendingEdges walks the pending queue and emits, via the callback,
// every edge whose endpoints both resolve to emitted display IDs. Emitted
// edges are removed from the queue and recorded in the deduplication set;
// everything else stays pending. Expired entries are pruned first.
//
// Callers re-invoke this after every batch of node registrations, which makes
// resolution eventually consistent: an edge arriving before its nodes is held
// until both ends exist.
func (s *State) ProcessPendingEdges(emit func(Edge)) {
	s.cleanupExpired()

	kept := s.pending.edges[:0]
	for _, pe := range s.pending.edges {
		src, srcOK := s.resolveEmitted(pe.SourceRef)
		tgt, tgtOK := s.resolveEmitted(pe.TargetRef)
		if !srcOK || !tgtOK {
			kept = append(kept, pe)
			continue
		}

		if pe.Edge.ID != "" && s.processed.has(pe.Edge.ID) {
			continue
		}

		edge := pe.Edge
		edge.Source = src
		edge.Target = tgt
		s.MarkEdgeProcessed(edge.ID)
		if emit != nil {
			emit(edge)
		}
	}
	s.pending.edges = kept
}

// resolveEmitted maps an original ID to its display ID, requiring the node to
// have actually been emitted, not merely registered.
func (s *State) resolveEmitted(originalID string) (string, bool) {
	displayID, ok := s.identity.get(originalID)
	if !ok {
		return "", false
	}
	if !s.emitted.has(displayID) {
		return "", false
	}
	return displayID, true
}

// MarkEdgeProcessed records an edge ID in the deduplication set, guarding
// against duplicate emission when the same logical edge reappears in the
// stream.
func (s *State) MarkEdgeProcessed(edgeID string) {
	if edgeID == "" {
		return
	}
	if evicted := s.processed.put(edgeID, struct{}{}); evicted > 0 {
		s.cfg.Logger.Warn("processed edge set over capacity, evicted oldest entries",
			"evicted", evicted,
			"capacity", s.cfg.MaxProcessedEdges)
	}
}

// HasProcessedEdge reports whether the edge ID has already been emitted.
func (s *State) HasProcessedEdge(edgeID string) bool {
	return s.processed.has(edgeID)
}

// PendingEdges returns a defensive snapshot of the unresolved edge queue.
// Mutating the returned slice has no effect on internal state.
func (s *State) PendingEdges() []PendingEdge {
	return s.pending.snapshot()
}

// Reset clears every internal collection. Safe to call mid-session to abandon
// in-flight state; required at the start of a new session when an instance is
// reused.
func (s *State) Reset() {
	s.identity.reset()
	s.emitted.reset()
	s.processed.reset()
	s.pending.reset()
}

// Stats returns a read-only snapshot of collection sizes and degradation
// counters.
func (s *State) Stats() Stats {
	return Stats{
		KnownNodes:       s.identity.len(),
		EmittedNodes:     s.emitted.len(),
		PendingEdges:     s.pending.len(),
		ProcessedEdges:   s.processed.len(),
		NodeEvictions:    s.identity.evictions,
		PendingEvictions: s.pending.evictions,
		PendingExpired:   s.pending.expired,
	}
}

// cleanupExpired prunes pending edges past the absolute age bound. Runs on
// every queue-touching operation so a session that never hits a size cap
// still cannot accumulate arbitrarily old, never-resolved edges.
func (s *State) cleanupExpired() {
	if removed := s.pending.pruneExpired(s.cfg.Now()); removed > 0 {
		s.cfg.Logger.Warn("pruned expired pending edges",
			"expired", removed,
			"max_age", s.cfg.PendingMaxAge)
	}
}
