package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/interleave/internal/testutils"
	"github.com/aretw0/interleave/pkg/adapters/memory"
	"github.com/aretw0/interleave/pkg/process"
	"github.com/aretw0/interleave/pkg/reports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	loader := memory.NewLoader()
	loader.Register("ping-pong", func() (*process.Set, error) { return testutils.PingPong(t), nil })
	return NewServer(reports.NewManager(loader, memory.NewStore()))
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestListModels(t *testing.T) {
	res, err := newServer(t).handleListModels(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &names))
	assert.Equal(t, []string{"ping-pong"}, names)
}

func TestAnalyze(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	resp, err := s.handleAnalyze(ctx, mcp.CallToolRequest{}, map[string]interface{}{"model": "ping-pong"})
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	require.NotNil(t, resp.Report)
	assert.Equal(t, 6, resp.Report.States)

	resp, err = s.handleAnalyze(ctx, mcp.CallToolRequest{}, map[string]interface{}{"model": "ping-pong", "format": "markdown"})
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Nil(t, resp.Report)
	assert.Contains(t, resp.Markdown, "# Analysis of ping-pong")

	_, err = s.handleAnalyze(ctx, mcp.CallToolRequest{}, map[string]interface{}{"model": "missing"})
	assert.Error(t, err)
}

func TestConcurrentSpace(t *testing.T) {
	s := newServer(t)
	space, err := s.handleConcurrentSpace(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"model":   "ping-pong",
		"process": "B",
		"node":    "wait",
	})
	require.NoError(t, err)
	assert.Equal(t, "B", space.Process)
	assert.NotEmpty(t, space.Concurrent["A"])
}

func TestGraph(t *testing.T) {
	req := mcp.CallToolRequest{}
	req.Params.Name = "model_graph"
	req.Params.Arguments = map[string]any{"model": "ping-pong"}

	res, err := newServer(t).handleGraph(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, textOf(t, res), "graph TD")

	req.Params.Arguments = map[string]any{"model": "missing"}
	res, err = newServer(t).handleGraph(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
