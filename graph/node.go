package graph

import (
	"errors"
	"time"
)

// Node represents a single element of the assembled attack flow: a technique,
// tool, asset, or piece of infrastructure surfaced by the model.
//
// The ID field carries the display identifier handed to the consuming layer;
// OriginalID preserves the identifier the model assigned in its raw output.
// Beyond the identifier fields the node is opaque to the assembler: all
// model-provided attributes travel untouched in Properties.
type Node struct {
	// ID is the display identifier used by the consuming layer.
	ID string `json:"id"`

	// OriginalID is the identifier the model assigned in its output.
	// Not guaranteed unique or stable in form.
	OriginalID string `json:"original_id,omitempty"`

	// Type is the node category (e.g., "technique", "tool", "asset").
	Type string `json:"type,omitempty"`

	// Properties contains arbitrary model-provided attributes for the node.
	Properties map[string]any `json:"properties,omitempty"`

	// CreatedAt is the timestamp when the node was assembled.
	CreatedAt time.Time `json:"created_at"`
}

// NewNode creates a new Node with the specified display ID and sensible
// defaults. The Properties map is initialized and CreatedAt is set to now.
func NewNode(id string) *Node {
	return &Node{
		ID:         id,
		Properties: make(map[string]any),
		CreatedAt:  time.Now(),
	}
}

// WithOriginalID sets the model-assigned identifier and returns the node for
// method chaining.
func (n *Node) WithOriginalID(id string) *Node {
	n.OriginalID = id
	return n
}

// WithType sets the node category and returns the node for method chaining.
func (n *Node) WithType(nodeType string) *Node {
	n.Type = nodeType
	return n
}

// WithProperty sets a single property and returns the node for method chaining.
// If the Properties map is nil, it will be initialized.
func (n *Node) WithProperty(key string, value any) *Node {
	if n.Properties == nil {
		n.Properties = make(map[string]any)
	}
	n.Properties[key] = value
	return n
}

// WithProperties sets multiple properties and returns the node for method
// chaining. This replaces the entire Properties map.
func (n *Node) WithProperties(props map[string]any) *Node {
	n.Properties = props
	return n
}

// Validate checks that the node has all required fields set correctly.
// Returns an error if the display ID is empty.
func (n *Node) Validate() error {
	if n.ID == "" {
		return errors.New("node display id is required")
	}
	return nil
}
