package stream

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParser_Feed_SingleRecord(t *testing.T) {
	p := NewParser()

	records, err := p.Feed(`{"nodes":[{"id":"n1","type":"technique"}]}` + "\n")
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if len(records[0].Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(records[0].Nodes))
	}
	if records[0].Nodes[0].ID != "n1" {
		t.Errorf("node ID = %q, want %q", records[0].Nodes[0].ID, "n1")
	}
	if records[0].Nodes[0].Properties["type"] != "technique" {
		t.Errorf("node type property = %v, want %q", records[0].Nodes[0].Properties["type"], "technique")
	}
}

func TestParser_Feed_SplitAcrossFragments(t *testing.T) {
	p := NewParser()

	records, err := p.Feed(`{"nodes":[{"id":`)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records before line completes, got %d", len(records))
	}
	if p.Buffered() == 0 {
		t.Error("expected incomplete line to stay buffered")
	}

	records, err = p.Feed(`"n1"}]}` + "\n")
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after line completes, got %d", len(records))
	}
	if p.Buffered() != 0 {
		t.Errorf("expected empty buffer, got %d bytes", p.Buffered())
	}
}

// TestParser_Feed_ByteAtATime verifies the fragmentation-independence
// property: feeding one byte at a time yields the same records, in the same
// order, as feeding the whole input at once.
func TestParser_Feed_ByteAtATime(t *testing.T) {
	input := strings.Join([]string{
		`{"nodes":[{"id":"n1","type":"technique","name":"Spearphishing"}]}`,
		`{"nodes":[{"id":"n2"}],"edges":[{"id":"e1","source":"n1","target":"n2"}]}`,
		`{"edges":[{"id":"e2","source":"n2","target":"n1","type":"precedes"}]}`,
	}, "\n") + "\n"

	whole := NewParser()
	want, err := whole.Feed(input)
	if err != nil {
		t.Fatalf("Feed(whole) error = %v", err)
	}

	byteWise := NewParser()
	var got []Record
	for i := 0; i < len(input); i++ {
		records, err := byteWise.Feed(input[i : i+1])
		if err != nil {
			t.Fatalf("Feed(byte %d) error = %v", i, err)
		}
		got = append(got, records...)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("byte-at-a-time records = %+v, want %+v", got, want)
	}
}

func TestParser_Feed_SkipsProse(t *testing.T) {
	p := NewParser()

	records, err := p.Feed("Here is the attack flow you asked for:\n```json\n" +
		`{"nodes":[{"id":"n1"}]}` + "\n```\n")
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if p.SkippedLines() == 0 {
		t.Error("expected prose lines to be counted as skipped")
	}
}

func TestParser_Feed_IgnoresUnroutableJSON(t *testing.T) {
	p := NewParser()

	records, err := p.Feed(`{"status":"thinking"}` + "\n" + `{"nodes":[{"id":"n1"}]}` + "\n")
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	// Valid JSON without nodes, edges, or error is accepted and dropped.
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestParser_Feed_RepairsAlmostJSON(t *testing.T) {
	p := NewParser()

	// Trailing comma: invalid for encoding/json, routine in model output.
	records, err := p.Feed(`{"nodes":[{"id":"n1",}]}` + "\n")
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected repaired record, got %d records", len(records))
	}
	if records[0].Nodes[0].ID != "n1" {
		t.Errorf("node ID = %q, want %q", records[0].Nodes[0].ID, "n1")
	}
}

func TestParser_Feed_RepairDisabled(t *testing.T) {
	p := NewParser(WithRepair(false))

	records, err := p.Feed(`{"nodes":[{"id":"n1",}]}` + "\n")
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	if len(records) != 0 {
		t.Fatalf("expected broken line to be skipped, got %d records", len(records))
	}
	if p.SkippedLines() != 1 {
		t.Errorf("SkippedLines() = %d, want 1", p.SkippedLines())
	}
}

func TestParser_Feed_BufferOverflow(t *testing.T) {
	p := NewParser(WithMaxBuffer(32))

	if _, err := p.Feed(strings.Repeat("x", 16)); err != nil {
		t.Fatalf("Feed() within limit error = %v", err)
	}

	_, err := p.Feed(strings.Repeat("x", 17))
	if err == nil {
		t.Fatal("expected overflow error")
	}
	if !errors.Is(err, ErrBufferOverflow) {
		t.Errorf("error = %v, want ErrBufferOverflow", err)
	}
}

func TestParser_Reset(t *testing.T) {
	p := NewParser()

	if _, err := p.Feed(`{"nodes":[{"id":`); err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if _, err := p.Feed("not json\n"); err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	p.Reset()

	if p.Buffered() != 0 {
		t.Errorf("Buffered() after reset = %d, want 0", p.Buffered())
	}
	if p.SkippedLines() != 0 {
		t.Errorf("SkippedLines() after reset = %d, want 0", p.SkippedLines())
	}
}
