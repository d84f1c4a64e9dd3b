package stream

import (
	"encoding/json"
	"testing"
)

func TestNodeDescriptor_UnmarshalJSON(t *testing.T) {
	var d NodeDescriptor
	data := `{"id":"n1","type":"tool","name":"Cobalt Strike","confidence":0.9}`
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if d.ID != "n1" {
		t.Errorf("ID = %q, want %q", d.ID, "n1")
	}
	if _, ok := d.Properties["id"]; ok {
		t.Error("expected id to be removed from Properties")
	}
	if d.Properties["name"] != "Cobalt Strike" {
		t.Errorf("Properties[name] = %v, want %q", d.Properties["name"], "Cobalt Strike")
	}
	if d.Properties["confidence"] != 0.9 {
		t.Errorf("Properties[confidence] = %v, want 0.9", d.Properties["confidence"])
	}
}

func TestEdgeDescriptor_UnmarshalJSON(t *testing.T) {
	var d EdgeDescriptor
	data := `{"id":"e1","source":"n1","target":"n2","type":"uses","weight":2}`
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if d.ID != "e1" || d.Source != "n1" || d.Target != "n2" {
		t.Errorf("identity fields = (%q, %q, %q), want (e1, n1, n2)", d.ID, d.Source, d.Target)
	}
	for _, key := range []string{"id", "source", "target"} {
		if _, ok := d.Properties[key]; ok {
			t.Errorf("expected %q to be removed from Properties", key)
		}
	}
	if d.Properties["type"] != "uses" {
		t.Errorf("Properties[type] = %v, want %q", d.Properties["type"], "uses")
	}
}

func TestRecord_HasContent(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   bool
	}{
		{
			name:   "nodes only",
			record: Record{Nodes: []NodeDescriptor{{ID: "n1"}}},
			want:   true,
		},
		{
			name:   "edges only",
			record: Record{Edges: []EdgeDescriptor{{ID: "e1"}}},
			want:   true,
		},
		{
			name:   "error only",
			record: Record{Error: "model refused"},
			want:   true,
		},
		{
			name:   "empty",
			record: Record{},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.HasContent(); got != tt.want {
				t.Errorf("HasContent() = %v, want %v", got, tt.want)
			}
		})
	}
}
