package flowgraph

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/threatflow/flowgraph/graph"
	"github.com/threatflow/flowgraph/stream"
)

// Limits holds every memory bound the assembler enforces. All fields are
// constructor-level tunables; zero values fall back to the package defaults.
type Limits struct {
	// MaxBufferBytes caps the parser's pending-text buffer. Exceeding it is
	// fatal to the session.
	MaxBufferBytes int `yaml:"max_buffer_bytes"`

	// MaxNodeEntries caps the node identity map.
	MaxNodeEntries int `yaml:"max_node_entries"`

	// MaxProcessedEdges caps the processed-edge deduplication set.
	MaxProcessedEdges int `yaml:"max_processed_edges"`

	// MaxPendingEdges caps the unresolved-edge queue.
	MaxPendingEdges int `yaml:"max_pending_edges"`

	// PendingMaxAge is how long an unresolved edge may wait before it is
	// pruned regardless of queue occupancy.
	PendingMaxAge time.Duration `yaml:"-"`

	// RetainFraction is the share of a full collection kept when a capacity
	// trim runs. Must be in (0, 1).
	RetainFraction float64 `yaml:"retain_fraction"`
}

// DefaultLimits returns the assembler's default memory bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxBufferBytes:    stream.DefaultMaxBuffer,
		MaxNodeEntries:    graph.DefaultMaxNodeEntries,
		MaxProcessedEdges: graph.DefaultMaxProcessedEdges,
		MaxPendingEdges:   graph.DefaultMaxPendingEdges,
		PendingMaxAge:     graph.DefaultPendingMaxAge,
		RetainFraction:    graph.DefaultRetainFraction,
	}
}

// withDefaults fills unset fields from DefaultLimits.
func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MaxBufferBytes <= 0 {
		l.MaxBufferBytes = def.MaxBufferBytes
	}
	if l.MaxNodeEntries <= 0 {
		l.MaxNodeEntries = def.MaxNodeEntries
	}
	if l.MaxProcessedEdges <= 0 {
		l.MaxProcessedEdges = def.MaxProcessedEdges
	}
	if l.MaxPendingEdges <= 0 {
		l.MaxPendingEdges = def.MaxPendingEdges
	}
	if l.PendingMaxAge <= 0 {
		l.PendingMaxAge = def.PendingMaxAge
	}
	if l.RetainFraction == 0 {
		l.RetainFraction = def.RetainFraction
	}
	return l
}

// Validate checks the limits for internal consistency.
func (l Limits) Validate() error {
	if l.MaxBufferBytes < 0 {
		return fmt.Errorf("%w: max_buffer_bytes must not be negative", ErrInvalidConfig)
	}
	if l.MaxNodeEntries < 0 {
		return fmt.Errorf("%w: max_node_entries must not be negative", ErrInvalidConfig)
	}
	if l.MaxProcessedEdges < 0 {
		return fmt.Errorf("%w: max_processed_edges must not be negative", ErrInvalidConfig)
	}
	if l.MaxPendingEdges < 0 {
		return fmt.Errorf("%w: max_pending_edges must not be negative", ErrInvalidConfig)
	}
	if l.PendingMaxAge < 0 {
		return fmt.Errorf("%w: pending_max_age must not be negative", ErrInvalidConfig)
	}
	if l.RetainFraction < 0 || l.RetainFraction >= 1 {
		return fmt.Errorf("%w: retain_fraction must be in (0, 1)", ErrInvalidConfig)
	}
	return nil
}

// LoadLimits reads a Limits document from a YAML file. Fields omitted from
// the file keep their defaults.
//
// Example file:
//
//	max_buffer_bytes: 1048576
//	max_node_entries: 500
//	max_pending_edges: 1000
//	pending_max_age: 5m
//	retain_fraction: 0.75
func LoadLimits(path string) (Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, NewConfigurationError("LoadLimits",
			fmt.Errorf("failed to read limits file %s: %w", path, err))
	}

	// Durations travel as strings in YAML ("5m", "90s") and are parsed with
	// time.ParseDuration.
	var doc struct {
		Limits        `yaml:",inline"`
		PendingMaxAge string `yaml:"pending_max_age"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Limits{}, NewConfigurationError("LoadLimits",
			fmt.Errorf("failed to parse limits file %s: %w", path, err))
	}

	l := doc.Limits
	if doc.PendingMaxAge != "" {
		d, err := time.ParseDuration(doc.PendingMaxAge)
		if err != nil {
			return Limits{}, NewConfigurationError("LoadLimits",
				fmt.Errorf("failed to parse pending_max_age %q: %w", doc.PendingMaxAge, err))
		}
		l.PendingMaxAge = d
	}

	l = l.withDefaults()
	if err := l.Validate(); err != nil {
		return Limits{}, NewConfigurationError("LoadLimits", err)
	}
	return l, nil
}
