// Package stream turns an unbounded sequence of text fragments from a
// model's streaming response into a sequence of structured records.
//
// The wire format is line-delimited JSON, one record per line, each record
// carrying zero or more raw node descriptors and zero or more raw edge
// descriptors:
//
//	{"nodes":[{"id":"n1","type":"technique"}],"edges":[{"id":"e1","source":"n1","target":"n2"}]}
//
// Fragment boundaries carry no meaning: a record may be split across any
// number of Feed calls, and a single call may complete several records.
// Parsing is tolerant per line (prose and markdown chatter are skipped,
// almost-JSON is repaired) but strict about memory: the pending-text buffer
// is hard-capped, and exceeding the cap is a fatal stream error.
package stream
