package main

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pingPong     = "../../pkg/adapters/modelfile/testdata/ping-pong.json"
	driverClient = "../../pkg/adapters/modelfile/testdata/driver-client.yaml"
	broken       = "../../pkg/adapters/modelfile/testdata/broken.yaml"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "interleave version 0.1.0")
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := run(t, "analyze", "--format", "json", pingPong)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "ping-pong", report["model"])
	assert.EqualValues(t, 6, report["states"])

	out, err = run(t, "analyze", "--format", "markdown", "--static=false", pingPong, driverClient)
	require.NoError(t, err)
	assert.Contains(t, out, "# Analysis of ping-pong")
	assert.Contains(t, out, "# Analysis of driver-client")

	_, err = run(t, "analyze", "--format", "json", "--max-states", "2", pingPong)
	assert.Error(t, err)
	_, err = run(t, "analyze", "--max-states", "0", "--format", "xml", pingPong)
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", pingPong, driverClient)
	require.NoError(t, err)
	assert.Contains(t, out, "ping-pong.json: model is valid!")

	_, err = run(t, "validate", broken)
	assert.Error(t, err)
}

func TestSpaceCommand(t *testing.T) {
	out, err := run(t, "space", "--json=false", "-p", "A", "-n", "idle", pingPong)
	require.NoError(t, err)
	assert.Contains(t, out, "While A is at idle:")
	assert.Contains(t, out, "B: wait, acked")
}

func TestGraphCommand(t *testing.T) {
	out, err := run(t, "graph", "--overlay", pingPong)
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "Overlay Styles")
}
