package flowgraph_test

import (
	"context"
	"fmt"
	"log"

	"github.com/threatflow/flowgraph"
	"github.com/threatflow/flowgraph/graph"
)

// ExampleNewSession demonstrates assembling a small attack flow from
// fragments whose boundaries do not align with record boundaries. The edge
// arrives before its target node and is held until both endpoints exist.
func ExampleNewSession() {
	session, err := flowgraph.NewSession(
		flowgraph.WithNodeHandler(func(n graph.Node) {
			fmt.Printf("node %s (%s)\n", n.OriginalID, n.Type)
		}),
		flowgraph.WithEdgeHandler(func(e graph.Edge) {
			fmt.Printf("edge %s (%s)\n", e.ID, e.Type)
		}),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	ctx := context.Background()
	fragments := []string{
		// One record, split mid-token across two fragments.
		`{"nodes":[{"id":"t1566","type":"technique"}],"edges":[{"id":"e1","sour`,
		`ce":"t1566","target":"mimikatz","type":"leads-to"}]}` + "\n",
		`{"nodes":[{"id":"mimikatz","type":"tool"}]}` + "\n",
	}
	for _, fragment := range fragments {
		if err := session.Feed(ctx, fragment); err != nil {
			log.Fatal(err)
		}
	}

	// Output:
	// node t1566 (technique)
	// node mimikatz (tool)
	// edge e1 (leads-to)
}
