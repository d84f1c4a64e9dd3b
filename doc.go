// Package flowgraph incrementally assembles attack-flow graphs from
// streaming model output.
//
// The assembler consumes a token-by-token (or chunk-by-chunk) text stream
// produced by a large-language-model call and reconstructs a directed graph
// of nodes (attack techniques, tools, assets, infrastructure) and edges
// (relationships between them), emitting each element to the caller as soon
// as it is safely known to be complete. It never waits for the full response
// and never exceeds fixed memory bounds, no matter how long or malformed the
// upstream stream is.
//
// # Core Concepts
//
// Two components do the work, owned together by a per-request Session:
//
//   - stream.Parser: splits arriving text fragments into complete
//     newline-delimited JSON records, tolerating prose, markdown fences, and
//     almost-JSON in between
//   - graph.State: resolves node identity between the model-assigned and
//     display identifier spaces, holds edges whose endpoints have not yet
//     arrived, suppresses duplicates, and evicts by recency when any bound
//     is crossed
//
// # Ordering Guarantees
//
// The caller's handlers observe a consistent graph at every instant:
//
//   - a node is emitted at most once per model-assigned identifier
//   - an edge is emitted exactly once, and only after both of its endpoint
//     nodes have been emitted
//   - edges that reference nodes the model has not produced yet are held in
//     a bounded pending queue and released as the nodes arrive
//
// # Failure Model
//
// The only fatal error is a stream buffer overflow, which closes the
// session. Every capacity overflow inside the graph state is handled by
// evicting the oldest entries and logging a warning: under adversarial or
// pathological input the assembler degrades by forgetting, never by growing
// or crashing. Unparseable lines are skipped silently.
//
// # Usage
//
// Create a session per analysis request, wire handlers, and feed fragments
// as they arrive from the transport layer:
//
//	session, err := flowgraph.NewSession(
//	    flowgraph.WithNodeHandler(func(n graph.Node) { render.AddNode(n) }),
//	    flowgraph.WithEdgeHandler(func(e graph.Edge) { render.AddEdge(e) }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	for fragment := range transport.Fragments() {
//	    if err := session.Feed(ctx, fragment); err != nil {
//	        // fatal: buffer overflow, session unusable
//	        return err
//	    }
//	}
//
// The wire format, provider transport, rendering, and persistence are all
// external collaborators; this module only assembles.
package flowgraph
