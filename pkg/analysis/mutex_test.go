package analysis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/interleave/internal/testutils"
	"github.com/aretw0/interleave/pkg/analysis"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReachability_PingPong(t *testing.T) {
	set := testutils.PingPong(t)
	space := testutils.Explore(t, set)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")

	r := analysis.NewReachability(space)
	assert.True(t, r.Observed(a, a.Entry()))
	assert.True(t, r.CoOccur(a, a.Entry(), b, b.Entry()))
	assert.Len(t, r.Active(b), 2)
	for _, n := range a.Nodes() {
		assert.Empty(t, r.Excluded(a, n, b), "every state of A meets every state of B")
	}
}

func TestMutualExclusion_PingPongHasNoSegments(t *testing.T) {
	space := testutils.Explore(t, testutils.PingPong(t))

	segments, err := analysis.NewMutualExclusion(space).Segments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestMutualExclusion_DriverClientSegmentsAreSound(t *testing.T) {
	model := testutils.NewDriverClient(t, 2)
	space := testutils.Explore(t, model.Set)
	mutex := analysis.NewMutualExclusion(space)

	segments, err := mutex.Segments(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, segments)

	for _, seg := range segments {
		assert.False(t, seg.Empty())
		for _, st := range space.States() {
			var active []analysis.ProcessNode
			for _, pn := range seg.Members() {
				if domain.SameNode(st.Node(pn.Process), pn.Node) {
					active = append(active, pn)
				}
			}
			for _, x := range active {
				for _, y := range active {
					assert.Equal(t, x.Process, y.Process, "%s and %s co-occur in %s although both are in %s", x, y, st, seg)
				}
			}
		}
	}

	again, err := mutex.Segments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(segments), len(again))
}

func TestMutualExclusion_Excluded(t *testing.T) {
	model := testutils.NewDriverClient(t, 2)
	space := testutils.Explore(t, model.Set)
	mutex := analysis.NewMutualExclusion(space)

	connected := model.Graph.MustNode(testutils.ClientConnected)
	excluded := mutex.Excluded(model.Clients[0], connected)

	assert.True(t, excluded.Contains(analysis.ProcessNode{
		Process: model.Driver,
		Node:    model.Graph.MustNode(testutils.DriverUnloaded),
	}))
	for _, pn := range excluded.Members() {
		assert.NotEqual(t, model.Clients[0], pn.Process)
	}
}

func TestMutualExclusion_ProcessSegmentsCarryOwnStates(t *testing.T) {
	model := testutils.NewDriverClient(t, 1)
	space := testutils.Explore(t, model.Set)
	mutex := analysis.NewMutualExclusion(space)

	segments, err := mutex.ProcessSegments(context.Background(), model.Clients[0])
	require.NoError(t, err)
	require.NotEmpty(t, segments)
	for _, seg := range segments {
		assert.True(t, seg.HasProcess(model.Clients[0]), "%s", seg)
		assert.Len(t, seg.Processes(), 2, "%s", seg)
	}
}

func TestMutualExclusion_IterationCeiling(t *testing.T) {
	space := testutils.Explore(t, testutils.PingPong(t))

	_, err := analysis.NewMutualExclusion(space, analysis.WithMaxIterations(1)).Segments(context.Background())
	var nonTermination *domain.NonTerminationError
	require.True(t, errors.As(err, &nonTermination), "unexpected error %v", err)
	assert.Equal(t, 1, nonTermination.Iterations)
}

func TestMutualExclusion_Cancelled(t *testing.T) {
	space := testutils.Explore(t, testutils.PingPong(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analysis.NewMutualExclusion(space).Segments(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMutualExclusion_FixpointHook(t *testing.T) {
	space := testutils.Explore(t, testutils.PingPong(t))

	var loops []string
	hooks := domain.LifecycleHooks{
		OnFixpoint: func(_ context.Context, e *domain.FixpointEvent) {
			assert.Equal(t, domain.EventFixpoint, e.Type)
			assert.Positive(t, e.Iterations)
			loops = append(loops, e.Loop)
		},
	}
	_, err := analysis.NewMutualExclusion(space, analysis.WithLifecycleHooks(hooks)).Segments(context.Background())
	require.NoError(t, err)
	// one propagation per process plus the final pruning
	assert.Len(t, loops, 3)
}
