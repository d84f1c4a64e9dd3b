package stream

import "encoding/json"

// NodeDescriptor is a raw node as produced by the model: an identifier plus
// whatever other attributes the model chose to include. The assembler only
// interprets the identifier; everything else travels opaquely in Properties.
type NodeDescriptor struct {
	// ID is the model-assigned node identifier.
	ID string

	// Properties holds every other field of the node object, untouched.
	Properties map[string]any
}

// UnmarshalJSON captures the id field and routes all remaining fields into
// Properties.
func (d *NodeDescriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if id, ok := raw["id"].(string); ok {
		d.ID = id
	}
	delete(raw, "id")
	d.Properties = raw
	return nil
}

// EdgeDescriptor is a raw edge as produced by the model. Source and Target
// reference model-assigned node identifiers, which may not have arrived yet.
type EdgeDescriptor struct {
	// ID is the model-assigned edge identifier.
	ID string

	// Source is the model-assigned identifier of the source node.
	Source string

	// Target is the model-assigned identifier of the target node.
	Target string

	// Properties holds every other field of the edge object, untouched.
	Properties map[string]any
}

// UnmarshalJSON captures the id, source, and target fields and routes all
// remaining fields into Properties.
func (d *EdgeDescriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if id, ok := raw["id"].(string); ok {
		d.ID = id
	}
	if src, ok := raw["source"].(string); ok {
		d.Source = src
	}
	if tgt, ok := raw["target"].(string); ok {
		d.Target = tgt
	}
	delete(raw, "id")
	delete(raw, "source")
	delete(raw, "target")
	d.Properties = raw
	return nil
}

// Record is one self-contained unit extracted from the line-delimited wire
// stream: zero or more node descriptors, zero or more edge descriptors, and
// an optional error message reported by the model. Records are transient;
// they are consumed immediately and never retained.
type Record struct {
	Nodes []NodeDescriptor `json:"nodes"`
	Edges []EdgeDescriptor `json:"edges"`
	Error string           `json:"error"`
}

// HasContent reports whether the record carries anything worth routing:
// at least one node, one edge, or an error message. JSON lines that decode
// but carry none of these are accepted and ignored.
func (r *Record) HasContent() bool {
	return len(r.Nodes) > 0 || len(r.Edges) > 0 || r.Error != ""
}
