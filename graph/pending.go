package graph

import "time"

// PendingEdge is an edge whose source and/or target node has not yet been
// emitted. The Edge payload travels unresolved; SourceRef and TargetRef hold
// the model-assigned endpoint identifiers awaiting display-ID resolution.
type PendingEdge struct {
	// Edge is the edge payload as decoded from the stream. Source and Target
	// remain empty until both endpoints resolve.
	Edge Edge

	// SourceRef is the model-assigned identifier of the source node.
	SourceRef string

	// TargetRef is the model-assigned identifier of the target node.
	TargetRef string

	// AddedAt is the time the edge entered the pending queue.
	AddedAt time.Time
}

// pendingQueue holds edges awaiting endpoint resolution, in arrival order.
// Two independent bounds apply: a hard capacity with oldest-quarter eviction,
// and an absolute age limit pruned on every cleanup pass.
type pendingQueue struct {
	edges  []PendingEdge
	cap    int
	maxAge time.Duration

	evictions int
	expired   int
}

func newPendingQueue(capacity int, maxAge time.Duration) *pendingQueue {
	return &pendingQueue{cap: capacity, maxAge: maxAge}
}

// contains reports whether an edge with the given ID is already pending.
func (q *pendingQueue) contains(edgeID string) bool {
	for i := range q.edges {
		if q.edges[i].Edge.ID == edgeID {
			return true
		}
	}
	return false
}

// add appends a pending edge, evicting the oldest quarter first if the queue
// is at capacity. Returns the number of entries evicted to make room.
func (q *pendingQueue) add(pe PendingEdge) int {
	evicted := 0
	if len(q.edges) >= q.cap {
		drop := q.cap / 4
		if drop < 1 {
			drop = 1
		}
		if drop > len(q.edges) {
			drop = len(q.edges)
		}
		q.edges = append(q.edges[:0:0], q.edges[drop:]...)
		q.evictions += drop
		evicted = drop
	}
	q.edges = append(q.edges, pe)
	return evicted
}

// pruneExpired removes entries older than the configured maximum age.
// Returns the number of entries removed.
func (q *pendingQueue) pruneExpired(now time.Time) int {
	if q.maxAge <= 0 {
		return 0
	}
	cutoff := now.Add(-q.maxAge)
	kept := q.edges[:0]
	removed := 0
	for _, pe := range q.edges {
		if pe.AddedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, pe)
	}
	q.edges = kept
	q.expired += removed
	return removed
}

func (q *pendingQueue) len() int {
	return len(q.edges)
}

// snapshot returns a defensive copy of the queue contents.
func (q *pendingQueue) snapshot() []PendingEdge {
	out := make([]PendingEdge, len(q.edges))
	copy(out, q.edges)
	return out
}

func (q *pendingQueue) reset() {
	q.edges = nil
	q.evictions = 0
	q.expired = 0
}
