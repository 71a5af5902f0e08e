package process_test

import (
	"context"
	"testing"

	"github.com/aretw0/interleave/internal/testutils"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeCombos(space *process.StateSpace) map[string]int {
	combos := make(map[string]int)
	for _, s := range space.States() {
		key := ""
		for _, p := range space.Processes() {
			key += p.Mnemonic() + "=" + s.Node(p).Mnemonic() + ";"
		}
		combos[key]++
	}
	return combos
}

func TestPingPong_StateSpace(t *testing.T) {
	set := testutils.PingPong(t)
	space := testutils.Explore(t, set)

	assert.Equal(t, 6, space.Len())
	assert.True(t, space.Contains(set.InitialState()))

	combos := nodeCombos(space)
	assert.Len(t, combos, 4)
	for _, want := range []string{
		"A=idle;B=wait;",
		"A=sent;B=wait;",
		"A=sent;B=acked;",
		"A=idle;B=acked;",
	} {
		assert.Contains(t, combos, want)
	}

	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")
	for _, s := range space.States() {
		assert.LessOrEqual(t, len(s.State(a).Mailbox()), 1)
		assert.LessOrEqual(t, len(s.State(b).Mailbox()), 1)
	}

	assert.Len(t, space.ActiveNodes(a), 2)
	assert.Len(t, space.MatchStates(a, a.Entry()), 3)
}

func TestReachable_ClosureIsIdempotent(t *testing.T) {
	set := testutils.PingPong(t)
	space := testutils.Explore(t, set)

	for _, s := range space.States() {
		reachable, err := s.Reachable(context.Background(), true)
		require.NoError(t, err)
		for _, r := range reachable {
			assert.True(t, space.Contains(r), "state %s escapes the space", r)
		}
	}

	withoutSelf, err := set.InitialState().Reachable(context.Background(), false)
	require.NoError(t, err)
	// The initial state lies on a cycle, so it is reached again.
	assert.Len(t, withoutSelf, space.Len())
}

func TestSetState_EqualityIgnoresConstructionOrder(t *testing.T) {
	set := testutils.PingPong(t)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")

	first, err := process.NewSetState(set, map[*process.Process]*process.State{
		a: a.InitialState(),
		b: b.InitialState(),
	})
	require.NoError(t, err)
	second, err := process.NewSetState(set, map[*process.Process]*process.State{
		b: b.InitialState(),
		a: a.InitialState(),
	})
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Hash(), second.Hash())
	assert.True(t, first.Equal(set.InitialState()))

	// Going round the cycle through B's rearm produces an equal but distinct value.
	state := set.InitialState()
	for i := 0; i < 4; i++ {
		next, err := state.NextStates()
		require.NoError(t, err)
		require.NotEmpty(t, next)
		state = next[len(next)-1]
	}
	assert.NotSame(t, first, state)
	assert.True(t, state.Equal(first))
	assert.Equal(t, first.Hash(), state.Hash())

	_, err = process.NewSetState(set, map[*process.Process]*process.State{a: a.InitialState()})
	assert.ErrorIs(t, err, domain.ErrModel)
}

func TestExplore_Limits(t *testing.T) {
	t.Run("State ceiling", func(t *testing.T) {
		set := testutils.PingPong(t)
		_, err := set.StateSpace(context.Background(), process.WithMaxStates(3))
		assert.ErrorIs(t, err, domain.ErrStateLimit)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		set := testutils.PingPong(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := set.StateSpace(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExplore_Hooks(t *testing.T) {
	set := testutils.PingPong(t)

	var states, transitions int
	hooks := domain.LifecycleHooks{
		OnState: func(_ context.Context, e *domain.StateEvent) {
			states++
			assert.Equal(t, domain.EventStateDiscovered, e.Type)
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			transitions++
		},
	}
	space := testutils.Explore(t, set, process.WithLifecycleHooks(hooks))

	assert.Equal(t, space.Len(), states)
	// S0 and S1 have one enabled move, S2 and S3 two, S4 and S5 one.
	assert.Equal(t, 8, transitions)
}

func TestExplore_DestinationResolution(t *testing.T) {
	b := domain.NewNode("start")
	require.NoError(t, b.AddEdge(nil, domain.NewNode("done"),
		domain.NewAction("lost", domain.Send(domain.To("nobody"), domain.NewMessage("m")))))

	set := process.NewSet()
	_, err := set.AddProcess("P", b)
	require.NoError(t, err)

	_, err = set.StateSpace(context.Background())
	var dre *domain.DestinationResolutionError
	require.ErrorAs(t, err, &dre)
	assert.Equal(t, "P", dre.Process)
	assert.Equal(t, "nobody", dre.Destination)
	assert.ErrorIs(t, err, domain.ErrModel)
}

func TestSet_AddProcess(t *testing.T) {
	set := process.NewSet()
	n := domain.NewNode("n")
	_, err := set.AddProcess("P", n)
	require.NoError(t, err)

	_, err = set.AddProcess("P", n)
	assert.ErrorIs(t, err, domain.ErrModel)

	_, err = set.Process("Q")
	assert.ErrorIs(t, err, domain.ErrProcessNotFound)
}

func TestNewSetStateFrom(t *testing.T) {
	set := testutils.PingPong(t)
	space := testutils.Explore(t, set)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")

	var sent domain.Node
	for _, n := range a.Nodes() {
		if n.Mnemonic() == "sent" {
			sent = n
		}
	}
	require.NotNil(t, sent)

	st, err := process.NewSetStateFrom(set, map[*process.Process]domain.Node{a: sent})
	require.NoError(t, err)
	assert.Equal(t, "sent", st.Node(a).Mnemonic())
	assert.Equal(t, "wait", st.Node(b).Mnemonic())
	assert.True(t, st.State(a).MailboxEmpty())
	// A waiting for an answer B was never asked for is not reachable.
	assert.False(t, space.Contains(st))

	other := process.NewSet()
	stray, err := other.AddProcess("A", a.Entry())
	require.NoError(t, err)
	_, err = process.NewSetStateFrom(set, map[*process.Process]domain.Node{stray: a.Entry()})
	assert.ErrorIs(t, err, domain.ErrModel)

	_, err = process.NewSetStateFrom(set, map[*process.Process]domain.Node{a: nil})
	assert.ErrorIs(t, err, domain.ErrModel)
}

func TestSetState_WithEmptyMailboxes(t *testing.T) {
	set := testutils.PingPong(t)
	space := testutils.Explore(t, set)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")

	var pending *process.SetState
	for _, st := range space.States() {
		if !st.State(b).MailboxEmpty() {
			pending = st
			break
		}
	}
	require.NotNil(t, pending, "no state with a message in flight")

	cleared := pending.WithEmptyMailboxes()
	assert.True(t, cleared.State(a).MailboxEmpty())
	assert.True(t, cleared.State(b).MailboxEmpty())
	assert.Equal(t, pending.Node(a).Mnemonic(), cleared.Node(a).Mnemonic())
	assert.Equal(t, pending.Node(b).Mnemonic(), cleared.Node(b).Mnemonic())
	assert.False(t, pending.Equal(cleared))
	assert.False(t, pending.State(b).MailboxEmpty(), "the original state is left untouched")

	initial := set.InitialState()
	assert.True(t, initial.Equal(initial.WithEmptyMailboxes()))
}
