package analysis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/interleave/internal/testutils"
	"github.com/aretw0/interleave/pkg/analysis"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_SynchronizationEdges(t *testing.T) {
	set := testutils.PingPong(t)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")
	an := analysis.NewAnalyzer(set)

	consume := edgeOf(t, b, "wait", "acked")
	producers := an.SynchronizationEdges(b, consume.Edge)
	require.Len(t, producers, 1)
	assert.Equal(t, a, producers[0].Process)
	assert.Equal(t, "(idle -> sent)", producers[0].Edge.String())

	receive := edgeOf(t, a, "sent", "idle")
	producers = an.SynchronizationEdges(a, receive.Edge)
	require.Len(t, producers, 1)
	assert.Equal(t, consume.Key(), producers[0].Key())

	assert.Empty(t, an.SynchronizationEdges(a, edgeOf(t, a, "idle", "sent").Edge))

	consumers := an.OutboundSynchronizations(a, edgeOf(t, a, "idle", "sent").Edge)
	require.Len(t, consumers, 1)
	assert.Equal(t, consume.Key(), consumers[0].Key())
	assert.Empty(t, an.OutboundSynchronizations(b, edgeOf(t, b, "acked", "wait").Edge))
}

func TestAnalyzer_BoundariesAndPast(t *testing.T) {
	set := testutils.PingPong(t)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")
	an := analysis.NewAnalyzer(set)

	idle := a.Entry()
	sent := edgeOf(t, a, "idle", "sent").Edge.Target

	past := an.PastBoundary(a, sent)
	require.Len(t, past, 1)
	assert.Equal(t, "(sent -> idle on Ack)", past[0].Edge.String())
	assert.Equal(t, b, past[0].SyncWith)
	assert.Equal(t, "acked", past[0].SyncEdge.Target.Mnemonic())

	future := an.FutureLimit(a, idle)
	require.Len(t, future, 1)
	assert.Equal(t, "(sent -> idle on Ack)", future[0].Edge.String())

	assert.ElementsMatch(t, []string{"sent"}, mnemonics(an.BoundedPast(a, sent, b)))
	assert.ElementsMatch(t, []string{"idle", "sent"}, mnemonics(an.BoundedPast(a, idle, b)))

	outbounds := an.RelevantOutbounds(a, sent, b)
	require.Len(t, outbounds, 1)
	assert.Equal(t, "(idle -> sent)", outbounds[0].String())

	assert.Len(t, an.IncomingEdges(idle), 1)
}

func TestAnalyzer_ConcurrentSegment(t *testing.T) {
	set := testutils.PingPong(t)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")
	an := analysis.NewAnalyzer(set)

	sent := edgeOf(t, a, "idle", "sent").Edge.Target
	assert.ElementsMatch(t, []string{"wait", "acked"}, mnemonics(an.ConcurrentSegment(a, sent, b)))
	assert.ElementsMatch(t, []string{"idle", "sent"}, mnemonics(an.ConcurrentSegment(b, b.Entry(), a)))
}

func TestAnalyzer_ConcurrentSpace(t *testing.T) {
	set := testutils.PingPong(t)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")
	an := analysis.NewAnalyzer(set)

	space, err := an.ConcurrentSpace(context.Background(), a, a.Entry())
	require.NoError(t, err)
	assert.Equal(t, []string{"idle"}, mnemonics(space[a]))
	assert.ElementsMatch(t, []string{"wait", "acked"}, mnemonics(space[b]))
}

func TestAnalyzer_ConcurrentSpaceCoversReachableStates(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *process.Set
	}{
		{"ping-pong", testutils.PingPong},
		{"triggered loop at entry", entryLoop},
		{"sends before reception", relay},
		{"driver with two clients", func(t *testing.T) *process.Set { return testutils.NewDriverClient(t, 2).Set }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := tt.build(t)
			explored := testutils.Explore(t, set)
			an := analysis.NewAnalyzer(set)

			for _, p := range set.Processes() {
				for _, node := range p.Nodes() {
					states := explored.MatchStates(p, node)
					if len(states) == 0 {
						continue
					}
					space, err := an.ConcurrentSpace(context.Background(), p, node)
					require.NoError(t, err)
					for _, st := range states {
						for _, q := range set.Processes() {
							assert.Contains(t, mnemonics(space[q]), st.Node(q).Mnemonic(),
								"%s at %s misses %s of %s", p, node, st.Node(q), q)
						}
					}
				}
			}
		})
	}
}

func TestAnalyzer_TriggeredLoopAtEntry(t *testing.T) {
	set := entryLoop(t)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")
	an := analysis.NewAnalyzer(set)

	past := an.PastBoundary(b, b.Entry())
	require.Len(t, past, 1)
	assert.Equal(t, a, past[0].SyncWith)
	assert.True(t, an.ReachesEntry(b, b.Entry()))

	a1 := edgeOf(t, a, "a0", "a1").Edge.Target
	assert.True(t, an.ReachesEntry(a, a1))
	assert.Empty(t, an.PastBoundary(a, a1))

	assert.ElementsMatch(t, []string{"a0", "a1"}, mnemonics(an.ConcurrentSegment(b, b.Entry(), a)))

	space, err := an.ConcurrentSpace(context.Background(), a, a.Entry())
	require.NoError(t, err)
	assert.Equal(t, []string{"a0"}, mnemonics(space[a]))
	assert.Equal(t, []string{"b0"}, mnemonics(space[b]))
}

func TestAnalyzer_SendsBeforeReception(t *testing.T) {
	set := relay(t)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")
	an := analysis.NewAnalyzer(set)

	a3 := edgeOf(t, a, "a2", "a3").Edge.Target
	assert.False(t, an.ReachesEntry(a, a3))
	assert.ElementsMatch(t, []string{"a0", "a1", "a2", "a3"}, mnemonics(an.History(a, a3)))
	assert.ElementsMatch(t, []string{"a2", "a3"}, mnemonics(an.BoundedPast(a, a3, b)))

	// B consumed x before A could send y, so both receptions are behind it.
	assert.ElementsMatch(t, []string{"b1", "b2", "b3"}, mnemonics(an.ConcurrentSegment(a, a3, b)))
}

func TestAnalyzer_ResultsAreCopies(t *testing.T) {
	set := testutils.PingPong(t)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")
	an := analysis.NewAnalyzer(set)

	first := an.ConcurrentSegment(a, a.Entry(), b)
	require.NotEmpty(t, first)
	first[0] = nil
	assert.NotContains(t, an.ConcurrentSegment(a, a.Entry(), b), nil)

	limits := an.FutureLimit(a, a.Entry())
	require.NotEmpty(t, limits)
	limits[0] = analysis.SyncPoint{}
	assert.NotNil(t, an.FutureLimit(a, a.Entry())[0].Edge)

	sent := edgeOf(t, a, "idle", "sent").Edge.Target
	partial := an.PartialFutureLimit(b, b.Entry(), a, []domain.Node{sent})
	assert.Empty(t, partial)
	assert.Equal(t, partial, an.PartialFutureLimit(b, b.Entry(), a, []domain.Node{sent}))
	assert.Len(t, an.PartialFutureLimit(b, b.Entry(), a, nil), 1)
}

func TestAnalyzer_DriverClientProductResponses(t *testing.T) {
	model := testutils.NewDriverClient(t, 2)
	an := analysis.NewAnalyzer(model.Set)
	grant := edgeOf(t, model.Clients[1], testutils.ClientWaitConnection, testutils.ClientConnected)

	producers := an.SynchronizationEdges(model.Clients[1], grant.Edge)
	require.NotEmpty(t, producers)
	for _, producer := range producers {
		assert.Equal(t, model.Driver, producer.Process)
		assert.Equal(t, 1, producer.Edge.Slot, "%s", producer.Edge)
	}
}

func TestAnalyzer_Cancelled(t *testing.T) {
	set := testutils.PingPong(t)
	a := testutils.MustProcess(t, set, "A")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analysis.NewAnalyzer(set).ConcurrentSpace(ctx, a, a.Entry())
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, domain.ErrModel))
}
