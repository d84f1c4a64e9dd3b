package graph

// boundedMap is an insertion-ordered map with a hard capacity. When an insert
// pushes the map past capacity, the oldest entries are discarded until only
// the most-recently-inserted retain fraction remains.
//
// Trimming is by insertion order, not last access: the stream is monotonic, so
// entry relevance correlates with recency and full LRU bookkeeping would buy
// nothing for its cost.
type boundedMap[V any] struct {
	order   []string
	entries map[string]V
	cap     int
	retain  float64

	// evictions counts entries discarded by capacity trims.
	evictions int
}

func newBoundedMap[V any](capacity int, retain float64) *boundedMap[V] {
	return &boundedMap[V]{
		entries: make(map[string]V),
		cap:     capacity,
		retain:  retain,
	}
}

// put inserts or overwrites the value for key. Overwriting keeps the key's
// original insertion position (last write wins on the value only). Returns the
// number of entries evicted by the insert.
func (m *boundedMap[V]) put(key string, value V) int {
	if _, ok := m.entries[key]; ok {
		m.entries[key] = value
		return 0
	}

	m.entries[key] = value
	m.order = append(m.order, key)

	if len(m.order) <= m.cap {
		return 0
	}
	return m.trim()
}

// trim discards the oldest entries, keeping the newest retain fraction of
// capacity.
func (m *boundedMap[V]) trim() int {
	keep := int(float64(m.cap) * m.retain)
	if keep < 1 {
		keep = 1
	}
	drop := len(m.order) - keep
	if drop <= 0 {
		return 0
	}

	for _, key := range m.order[:drop] {
		delete(m.entries, key)
	}
	m.order = append(m.order[:0:0], m.order[drop:]...)
	m.evictions += drop
	return drop
}

func (m *boundedMap[V]) get(key string) (V, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *boundedMap[V]) has(key string) bool {
	_, ok := m.entries[key]
	return ok
}

func (m *boundedMap[V]) len() int {
	return len(m.entries)
}

func (m *boundedMap[V]) reset() {
	m.order = nil
	m.entries = make(map[string]V)
	m.evictions = 0
}
