package process_test

import (
	"testing"

	"github.com/aretw0/interleave/internal/testutils"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveInvariant_Soundness(t *testing.T) {
	model := testutils.NewDriverClient(t, 2)
	space := testutils.Explore(t, model.Set)

	for _, p := range space.Processes() {
		for _, node := range p.Nodes() {
			for _, q := range space.Processes() {
				if p == q {
					continue
				}
				inv, err := space.DeriveInvariant(p, node, q)
				require.NoError(t, err)
				for _, st := range space.MatchStates(p, node) {
					assert.True(t, inv.Contains(st.Node(q)), "%s", inv)
					assert.True(t, inv.Holds(st.Node(q)), "%s", inv)
				}
			}
		}
	}
}

func TestDeriveInvariant_ConnectedClient(t *testing.T) {
	model := testutils.NewDriverClient(t, 2)
	space := testutils.Explore(t, model.Set)
	connected := model.Graph.MustNode(testutils.ClientConnected)

	first, err := space.DeriveInvariant(model.Clients[0], connected, model.Driver)
	require.NoError(t, err)
	require.False(t, first.Empty())
	assert.Equal(t, "tty_driver_loaded (tty_driver_client_active, ?)", first.Pattern().Mnemonic())
	assert.ElementsMatch(t, []string{
		"tty_driver_loaded (tty_driver_client_active, tty_driver_client_inactive)",
		"tty_driver_loaded (tty_driver_client_active, tty_driver_client_active)",
	}, mnemonics(first.Set()))

	second, err := space.DeriveInvariant(model.Clients[1], connected, model.Driver)
	require.NoError(t, err)
	assert.Equal(t, "tty_driver_loaded (?, tty_driver_client_active)", second.Pattern().Mnemonic())
}

func TestDeriveInvariant_ConnectedImpliesActive(t *testing.T) {
	model := testutils.NewDriverClient(t, 2)
	space := testutils.Explore(t, model.Set)

	var checked int
	for _, st := range space.States() {
		for i, client := range model.Clients {
			if st.Node(client).Mnemonic() != testutils.ClientConnected {
				continue
			}
			checked++
			loaded, ok := st.Node(model.Driver).(*domain.DerivedNode)
			require.True(t, ok, "driver is not loaded in %s", st)
			base, ok := loaded.Base().(*domain.ProductNode)
			require.True(t, ok)
			assert.Equal(t, testutils.DriverActive, base.Components()[i].Mnemonic(), "%s", st)
		}
	}
	assert.Positive(t, checked)
}

func TestDeriveInvariant_UnloadOnlyWhenAllInactive(t *testing.T) {
	model := testutils.NewDriverClient(t, 2)
	space := testutils.Explore(t, model.Set)

	var unloads int
	for _, st := range space.States() {
		for _, tr := range space.Transitions(st) {
			if tr.Process != model.Driver || tr.Edge.Target.Mnemonic() != testutils.DriverUnloading {
				continue
			}
			if _, ok := tr.Edge.Source.(*domain.DerivedNode); !ok {
				continue
			}
			unloads++
			assert.Equal(t, "tty_driver_loaded (tty_driver_client_inactive, tty_driver_client_inactive)", tr.Edge.Source.Mnemonic())
			for _, client := range model.Clients {
				inv, err := space.DeriveInvariant(client, st.Node(client), model.Driver)
				require.NoError(t, err)
				assert.True(t, inv.Contains(tr.Edge.Source), "%s", inv)
				assert.NotEqual(t, testutils.ClientConnected, st.Node(client).Mnemonic())
			}
		}
	}
	assert.Positive(t, unloads)
}

func TestDeriveInvariant_Trivial(t *testing.T) {
	set := testutils.PingPong(t)
	space := testutils.Explore(t, set)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")

	inv, err := space.DeriveInvariant(a, a.Entry(), b)
	require.NoError(t, err)
	assert.True(t, inv.Trivial())
	assert.ElementsMatch(t, []string{"wait", "acked"}, mnemonics(inv.Set()))
	assert.Equal(t, "A: idle => B: {", inv.String()[:len("A: idle => B: {")])
}

func TestDeriveInvariant_ProcessOutsideSet(t *testing.T) {
	set := testutils.PingPong(t)
	space := testutils.Explore(t, set)
	a := testutils.MustProcess(t, set, "A")

	other := process.NewSet()
	stray, err := other.AddProcess("B", a.Entry())
	require.NoError(t, err)

	_, err = space.DeriveInvariant(a, a.Entry(), stray)
	assert.ErrorIs(t, err, domain.ErrModel)
	assert.ErrorIs(t, err, domain.ErrProcessNotFound)

	_, err = space.DeriveInvariant(stray, a.Entry(), a)
	assert.ErrorIs(t, err, domain.ErrProcessNotFound)

	_, err = space.DeriveInvariant(a, a.Entry(), nil)
	assert.ErrorIs(t, err, domain.ErrProcessNotFound)

	_, err = space.DeriveInvariant(a, nil, a)
	assert.ErrorIs(t, err, domain.ErrModel)
}

func mnemonics(nodes []domain.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Mnemonic()
	}
	return out
}
