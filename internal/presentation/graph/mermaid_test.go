package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/internal/presentation/graph"
	"github.com/aretw0/interleave/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(testutils.PingPong(t), nil)

	contains := []string{
		"graph TD",
		"subgraph P0[\"A\"]",
		"subgraph P1[\"B\"]",
		"P0N0((\"idle\"))",
		"P0N1[\"sent\"]",
		"P0N0 -. \"send\" .-> P0N1",
		"P0N1 -- \"Ack / receive\" --> P0N0",
		"P1N0 -- \"M / reply\" --> P1N1",
	}
	for _, s := range contains {
		assert.Contains(t, out, s)
	}
	assert.NotContains(t, out, "Overlay Styles")
}

func TestGenerateMermaid_ProductAndDerivedShapes(t *testing.T) {
	model := testutils.NewDriverClient(t, 2)
	out := graph.GenerateMermaid(model.Set, nil)

	assert.Contains(t, out, "((\"tty_driver_unloaded\"))")
	assert.Contains(t, out, "[/\"")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	model := testutils.NewDriverClient(t, 2)
	report, err := interleave.Analyze(context.Background(), model.Set, interleave.WithStaticAnalysis(false))
	require.NoError(t, err)
	require.NotEmpty(t, report.Segments)

	out := graph.GenerateMermaid(model.Set, graph.OverlayFromReport(report))
	assert.Contains(t, out, "%% Overlay Styles")
	assert.Contains(t, out, "classDef segment0")
	assert.True(t, strings.Count(out, " segment0;") >= 2, "a segment spans at least two processes")
}

func TestGenerateMermaid_Unreachable(t *testing.T) {
	overlay := &graph.GraphOverlay{Active: map[string][]string{"A": {"idle"}}}
	out := graph.GenerateMermaid(testutils.PingPong(t), overlay)
	assert.Contains(t, out, "class P0N1 unreachable;")
	assert.NotContains(t, out, "class P1N0 unreachable;")
}
