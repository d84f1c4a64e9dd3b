package graph

import "testing"

func TestNewNode(t *testing.T) {
	node := NewNode("node:abc")

	if node.ID != "node:abc" {
		t.Errorf("expected ID to be 'node:abc', got %q", node.ID)
	}
	if node.Properties == nil {
		t.Error("expected Properties to be initialized")
	}
	if node.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestNode_BuilderMethods(t *testing.T) {
	node := NewNode("node:abc").
		WithOriginalID("t1566").
		WithType("technique").
		WithProperty("name", "Phishing").
		WithProperty("tactic", "initial-access")

	if node.OriginalID != "t1566" {
		t.Errorf("expected OriginalID to be 't1566', got %q", node.OriginalID)
	}
	if node.Type != "technique" {
		t.Errorf("expected Type to be 'technique', got %q", node.Type)
	}
	if node.Properties["name"] != "Phishing" {
		t.Errorf("expected Properties['name'] to be 'Phishing', got %v", node.Properties["name"])
	}
	if node.Properties["tactic"] != "initial-access" {
		t.Errorf("expected Properties['tactic'] to be 'initial-access', got %v", node.Properties["tactic"])
	}
}

func TestNode_WithProperties(t *testing.T) {
	props := map[string]any{
		"name":  "Mimikatz",
		"count": 3,
	}

	node := NewNode("node:abc").WithProperties(props)

	if node.Properties["name"] != "Mimikatz" {
		t.Errorf("expected Properties['name'] to be 'Mimikatz', got %v", node.Properties["name"])
	}
	if node.Properties["count"] != 3 {
		t.Errorf("expected Properties['count'] to be 3, got %v", node.Properties["count"])
	}
}

func TestNode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		node    *Node
		wantErr bool
	}{
		{
			name:    "valid node",
			node:    NewNode("node:abc"),
			wantErr: false,
		},
		{
			name:    "missing display id",
			node:    &Node{OriginalID: "t1566"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
