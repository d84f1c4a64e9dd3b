package flowgraph

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/threatflow/flowgraph/graph"
)

func TestWithJSONRepair_Disabled(t *testing.T) {
	var nodes int
	s, err := NewSession(
		WithJSONRepair(false),
		WithNodeHandler(func(graph.Node) { nodes++ }),
	)
	require.NoError(t, err)

	// Trailing comma: repairable, but repair is off.
	require.NoError(t, s.Feed(context.Background(), `{"nodes":[{"id":"a",}]}`+"\n"))

	require.Zero(t, nodes)
	require.Equal(t, 1, s.Stats().SkippedLines)
}

func TestWithLogger_EvictionWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := NewSession(
		WithLogger(logger),
		WithLimits(Limits{MaxPendingEdges: 4}),
	)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		line := fmt.Sprintf(`{"edges":[{"id":"e%d","source":"a","target":"b"}]}`, i)
		require.NoError(t, s.Feed(ctx, line+"\n"))
	}

	require.Contains(t, buf.String(), "pending edge queue over capacity")
}

func TestWithLimits_ZeroFieldsKeepDefaults(t *testing.T) {
	s, err := NewSession(WithLimits(Limits{MaxNodeEntries: 7}))
	require.NoError(t, err)

	require.Equal(t, 7, s.cfg.limits.MaxNodeEntries)
	require.Equal(t, DefaultLimits().MaxPendingEdges, s.cfg.limits.MaxPendingEdges)
	require.Equal(t, DefaultLimits().MaxBufferBytes, s.cfg.limits.MaxBufferBytes)
}
