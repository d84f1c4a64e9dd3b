package graph

import "fmt"

// Edge represents a directed relationship between two nodes in the attack flow.
//
// Source and Target hold display identifiers once the edge has been resolved.
// While the edge is pending resolution both fields are empty and the original
// endpoint references live in the surrounding PendingEdge.
type Edge struct {
	// ID is the edge identifier as assigned by the model.
	ID string `json:"id"`

	// Source is the display ID of the source node.
	Source string `json:"source"`

	// Target is the display ID of the target node.
	Target string `json:"target"`

	// Type describes the relationship (e.g., "uses", "targets", "precedes").
	Type string `json:"type,omitempty"`

	// Properties contains optional model-provided edge metadata.
	Properties map[string]any `json:"properties,omitempty"`
}

// NewEdge creates a new Edge with the specified identifier and endpoints.
func NewEdge(id, source, target string) *Edge {
	return &Edge{
		ID:         id,
		Source:     source,
		Target:     target,
		Properties: make(map[string]any),
	}
}

// WithType sets the relationship type and returns the edge for chaining.
func (e *Edge) WithType(edgeType string) *Edge {
	e.Type = edgeType
	return e
}

// WithProperty adds a single property to the edge and returns the edge for
// chaining.
func (e *Edge) WithProperty(key string, value any) *Edge {
	if e.Properties == nil {
		e.Properties = make(map[string]any)
	}
	e.Properties[key] = value
	return e
}

// Validate checks that the edge has all required fields populated.
// Returns an error if ID, Source, or Target are empty.
func (e *Edge) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("edge ID cannot be empty")
	}
	if e.Source == "" {
		return fmt.Errorf("edge Source cannot be empty")
	}
	if e.Target == "" {
		return fmt.Errorf("edge Target cannot be empty")
	}
	return nil
}
