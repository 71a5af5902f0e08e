package modelfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/interleave/internal/testutils"
	"github.com/aretw0/interleave/pkg/adapters/modelfile"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoader(t *testing.T, dir string) *modelfile.Loader {
	t.Helper()

	loader, err := modelfile.NewLoader(dir)
	require.NoError(t, err, "Failed to open model repository")
	return loader
}

func writeModels(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

const stepYAML = `
nodes:
  - id: a
    edges:
      - {to: b, action: step}
  - id: b
processes:
  - {name: P, entry: a}
`

func TestLoader_ListModels(t *testing.T) {
	loader := newLoader(t, "testdata")
	names, err := loader.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"broken", "driver-client", "ping-pong"}, names)
}

func TestLoader_PingPongFromJSON(t *testing.T) {
	loader := newLoader(t, "testdata")
	model, err := loader.LoadModel(context.Background(), "ping-pong")
	require.NoError(t, err)

	assert.Equal(t, "ping-pong", model.Name)
	assert.Contains(t, model.Digest, "sha256:")
	require.Len(t, model.Set.Processes(), 2)

	space := testutils.Explore(t, model.Set)
	assert.Equal(t, testutils.Explore(t, testutils.PingPong(t)).Len(), space.Len())
	assert.Equal(t, 6, space.Len())
}

func TestLoader_DriverClientMatchesBuilder(t *testing.T) {
	loader := newLoader(t, "testdata")
	model, err := loader.LoadModel(context.Background(), "driver-client")
	require.NoError(t, err)

	fromFile := testutils.Explore(t, model.Set)
	fromCode := testutils.Explore(t, testutils.NewDriverClient(t, 2).Set)
	assert.Equal(t, fromCode.Len(), fromFile.Len())

	driver := testutils.MustProcess(t, model.Set, "tty_driver")
	assert.Equal(t, "tty_driver_unloaded", driver.Entry().Mnemonic())
}

func TestLoader_Errors(t *testing.T) {
	loader := newLoader(t, "testdata")
	ctx := context.Background()

	_, err := loader.LoadModel(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrModelNotFound)

	_, err = loader.LoadModel(ctx, "../testdata/ping-pong")
	assert.ErrorIs(t, err, domain.ErrModelNotFound)

	_, err = loader.LoadModel(ctx, "broken")
	assert.ErrorIs(t, err, domain.ErrModel)
}

func TestLoadFile_DigestTracksContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	doc := stepYAML
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	first, err := modelfile.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "model", first.Name)

	require.NoError(t, os.WriteFile(path, []byte(doc+"\ndescription: changed\n"), 0o644))
	second, err := modelfile.LoadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, first.Digest, second.Digest)
}

func TestDigest_IgnoresFormatting(t *testing.T) {
	dir := writeModels(t, map[string]string{
		"step.yaml": stepYAML,
		"step.json": `{"processes": [{"entry": "a", "name": "P"}],
			"nodes": [{"id": "a", "edges": [{"action": "step", "to": "b"}]}, {"id": "b"}]}`,
	})
	fromYAML, err := modelfile.LoadFile(filepath.Join(dir, "step.yaml"))
	require.NoError(t, err)
	fromJSON, err := modelfile.LoadFile(filepath.Join(dir, "step.json"))
	require.NoError(t, err)
	assert.Equal(t, fromYAML.Digest, fromJSON.Digest)
}

func TestLoader_RepositoryLayout(t *testing.T) {
	t.Run("Skips documents without processes", func(t *testing.T) {
		dir := writeModels(t, map[string]string{
			"step.yaml":  stepYAML,
			"notes.yaml": "title: not a model\n",
		})
		names, err := newLoader(t, dir).ListModels(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"step"}, names)
	})

	t.Run("Digest matches the standalone file", func(t *testing.T) {
		dir := writeModels(t, map[string]string{"step.yaml": stepYAML})
		model, err := newLoader(t, dir).LoadModel(context.Background(), "step")
		require.NoError(t, err)
		standalone, err := modelfile.LoadFile(filepath.Join(dir, "step.yaml"))
		require.NoError(t, err)
		assert.Equal(t, standalone.Digest, model.Digest)
		assert.Equal(t, "step", model.Name)
	})

	t.Run("Collision", func(t *testing.T) {
		dir := writeModels(t, map[string]string{
			"step.yaml": stepYAML,
			"step.json": `{"nodes": [{"id": "a"}], "processes": [{"name": "P", "entry": "a"}]}`,
		})
		_, err := newLoader(t, dir).ListModels(context.Background())
		assert.ErrorIs(t, err, domain.ErrModel)
	})
}

func TestLoader_WatchReportsChangedModel(t *testing.T) {
	dir := writeModels(t, map[string]string{"step.yaml": stepYAML})
	loader := newLoader(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := loader.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "step.yaml"), []byte(stepYAML+"\ndescription: changed\n"), 0o644))

	select {
	case name := <-changes:
		assert.Equal(t, "step", name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "channel should close with the context")
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no processes", "nodes: [{id: a}]"},
		{"unknown entry", "processes: [{name: P, entry: nowhere}]"},
		{"unnamed message", "actions: {a: {send: [{to: P}]}}\nprocesses: [{name: P, entry: x}]"},
		{"no recipient", "actions: {a: {send: [{message: M}]}}\nprocesses: [{name: P, entry: x}]"},
		{"product without empty", "nodes: [{id: p, product: {components: [a]}}]\nprocesses: [{name: P, entry: p}]"},
		{"undeclared target", "nodes: [{id: a, edges: [{to: b}]}]\nprocesses: [{name: P, entry: a}]"},
		{"unknown peer", "nodes: [{id: a}]\nprocesses: [{name: P, entry: a, product: {peers: [Q], empty: _}}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mf, err := modelfile.Parse([]byte(tt.doc), ".yaml")
			require.NoError(t, err)
			_, err = mf.Build()
			assert.ErrorIs(t, err, domain.ErrModel)
		})
	}
}
