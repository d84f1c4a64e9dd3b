package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kaptinlin/jsonrepair"
)

// DefaultMaxBuffer is the default cap on buffered, not-yet-parsed text.
const DefaultMaxBuffer = 1 << 20 // 1 MiB

// ErrBufferOverflow indicates the pending-text buffer exceeded its maximum
// size. This is fatal to the streaming session: the upstream is misbehaving
// or the model is producing unbounded output, and the parser can no longer
// guarantee it will ever find a record boundary.
var ErrBufferOverflow = errors.New("stream buffer overflow")

// Option configures a Parser.
type Option func(*Parser)

// WithMaxBuffer sets the maximum buffered text size in bytes.
func WithMaxBuffer(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.max = n
		}
	}
}

// WithRepair controls whether lines that fail strict JSON decoding get a
// second attempt through jsonrepair before being skipped. Enabled by default:
// almost-JSON (unquoted keys, trailing commas, single quotes) is routine in
// model output.
func WithRepair(enabled bool) Option {
	return func(p *Parser) {
		p.repair = enabled
	}
}

// WithLogger sets the logger used for skipped-line diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Parser is the incremental stream parser. It accepts raw text fragments as
// they arrive, never assuming fragment boundaries align with record
// boundaries, and splits its internal buffer into well-formed newline-
// delimited JSON records as soon as each one is complete. The trailing,
// possibly-incomplete line is retained for the next Feed call, so no input
// is ever lost.
//
// The parser is transport- and vendor-agnostic: it expects provider framing
// (SSE prefixes and the like) to have been stripped already.
//
// Parser is scoped to one streaming session and is not safe for concurrent
// use.
type Parser struct {
	buf     []byte
	max     int
	repair  bool
	logger  *slog.Logger
	skipped int
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		max:    DefaultMaxBuffer,
		repair: true,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Feed appends a fragment to the internal buffer and returns every complete
// record found. The final, possibly-incomplete line stays buffered for the
// next call.
//
// If appending the fragment would push the buffer past its maximum size, Feed
// returns an error wrapping ErrBufferOverflow and leaves the buffer
// untouched. The condition is fatal: the session cannot continue.
//
// Individual lines that are not valid JSON, or that decode to a record
// carrying neither nodes, edges, nor an error, are skipped without failing
// the call.
func (p *Parser) Feed(fragment string) ([]Record, error) {
	if len(p.buf)+len(fragment) > p.max {
		return nil, fmt.Errorf("buffered %d + fragment %d exceeds limit %d: %w",
			len(p.buf), len(fragment), p.max, ErrBufferOverflow)
	}
	p.buf = append(p.buf, fragment...)

	var records []Record
	data := p.buf
	for {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := data[:idx]
		data = data[idx+1:]

		if rec, ok := p.parseLine(line); ok {
			records = append(records, rec)
		}
	}

	// Retain the incomplete remainder in a fresh backing array so the
	// consumed prefix can be collected.
	p.buf = append(p.buf[:0:0], data...)

	return records, nil
}

// parseLine decodes one complete line into a Record. Lines that are blank,
// not JSON even after repair, or JSON with nothing to route are dropped.
func (p *Parser) parseLine(line []byte) (Record, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Record{}, false
	}

	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		if !p.repair {
			return p.skip(line, err)
		}
		repaired, rerr := jsonrepair.JSONRepair(string(line))
		if rerr != nil {
			return p.skip(line, rerr)
		}
		rec = Record{}
		if err := json.Unmarshal([]byte(repaired), &rec); err != nil {
			return p.skip(line, err)
		}
	}

	if !rec.HasContent() {
		return Record{}, false
	}
	return rec, true
}

// skip records a non-JSON line (model chatter, markdown fences, prose) and
// moves on. Not an error for the stream.
func (p *Parser) skip(line []byte, err error) (Record, bool) {
	p.skipped++
	p.logger.Debug("skipping unparseable stream line",
		"line_bytes", len(line),
		"error", err)
	return Record{}, false
}

// Buffered returns the number of bytes currently held back as an incomplete
// line.
func (p *Parser) Buffered() int {
	return len(p.buf)
}

// SkippedLines returns the number of lines dropped as unparseable so far.
func (p *Parser) SkippedLines() int {
	return p.skipped
}

// Reset clears the buffer and counters. Required when a parser instance is
// reused across sessions so a previous session's partial buffer cannot leak
// into a new one.
func (p *Parser) Reset() {
	p.buf = nil
	p.skipped = 0
}
