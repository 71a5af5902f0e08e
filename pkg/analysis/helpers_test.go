package analysis_test

import (
	"testing"

	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/dsl"
	"github.com/aretw0/interleave/pkg/process"
	"github.com/stretchr/testify/require"
)

func mnemonics(nodes []domain.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Mnemonic()
	}
	return out
}

func buildSet(t *testing.T, b *dsl.Builder, entries ...string) *process.Set {
	t.Helper()

	g, err := b.Build()
	require.NoError(t, err)
	set := process.NewSet()
	for i := 0; i < len(entries); i += 2 {
		_, err := set.AddProcess(entries[i], g.MustNode(entries[i+1]))
		require.NoError(t, err)
	}
	return set
}

// entryLoop: A sends x once and stops; B sits at its entry and consumes x
// through a loop back to the entry.
func entryLoop(t *testing.T) *process.Set {
	t.Helper()

	b := dsl.New()
	x := b.Message("x")
	b.Add("a0").Go("a1", b.Action("emit", domain.Send(domain.To("B"), x)))
	b.Add("a1")
	b.Add("b0").On(x, "b0", b.Action("take"))
	return buildSet(t, b, "A", "a0", "B", "b0")
}

// relay: A sends x, waits for z from B, then sends y. B sends z first and
// then consumes x and y.
func relay(t *testing.T) *process.Set {
	t.Helper()

	b := dsl.New()
	x := b.Message("x")
	y := b.Message("y")
	z := b.Message("z")
	noop := b.Action("noop")
	b.Add("a0").Go("a1", b.Action("send_x", domain.Send(domain.To("B"), x)))
	b.Add("a1").Go("a2", b.Action("send_y", domain.Send(domain.To("B"), y)))
	b.Add("a2").On(z, "a3", noop)
	b.Add("a3")
	b.Add("b0").Go("b1", b.Action("send_z", domain.Send(domain.To("A"), z)))
	b.Add("b1").On(x, "b2", noop)
	b.Add("b2").On(y, "b3", noop)
	b.Add("b3")
	return buildSet(t, b, "A", "a0", "B", "b0")
}
