// Package graph maintains the bounded, incrementally-assembled view of an
// attack flow: which nodes and edges are known, resolved, emitted, or still
// pending.
//
// The central type is State, the graph state manager. It resolves node and
// edge identity across the model-assigned identifier space and the display
// identifier space, defers edges whose endpoints have not yet arrived,
// suppresses duplicate emissions, and enforces hard caps on every internal
// collection with an insertion-order eviction policy that favors recency.
//
// # Node Lifecycle
//
// A node moves through three states per original identifier:
//
//   - Known: the model mentioned the identifier
//   - Mapped: RegisterNode assigned it a display identifier
//   - Emitted: MarkNodeEmitted recorded the hand-off to the caller
//
// Edge resolution in ProcessPendingEdges requires Emitted on both endpoints,
// so a consumer never receives an edge referencing a node it has not seen.
//
// # Memory Bounds
//
// Every collection is capped: the identity map and processed-edge set trim to
// their most-recently-inserted 75% when capacity is crossed, and the pending
// queue additionally prunes entries older than a configurable absolute age.
// Overflow is a deliberate, logged degradation rather than an error; no State
// method returns an error.
//
// State is scoped to one streaming session and is not safe for concurrent use.
package graph
