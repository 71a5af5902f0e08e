package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleNode_DuplicateEdge(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	m := NewMessage("m")

	require.NoError(t, a.AddEdge(m, b, NewAction("first")))
	require.NoError(t, a.AddEdge(nil, b, NewAction("spontaneous")))

	err := a.AddEdge(m, b, NewAction("second"))
	var dup *DuplicateEdgeError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Source)
	assert.Equal(t, "b", dup.Target)
	assert.Equal(t, "m", dup.Trigger)
	assert.True(t, errors.Is(err, ErrModel))
	assert.Len(t, a.Edges(), 2)
}

func TestSimpleNode_Frozen(t *testing.T) {
	a := NewNode("a")
	a.Freeze()
	err := a.AddEdge(nil, a, nil)
	assert.ErrorIs(t, err, ErrGraphFrozen)
	assert.ErrorIs(t, err, ErrModel)
}

func TestProductNode_Edges(t *testing.T) {
	empty := NewMessage("_")
	x := NewMessage("x")
	y := NewMessage("y")

	a, a2, a3 := NewNode("a"), NewNode("a2"), NewNode("a3")
	b, b2 := NewNode("b"), NewNode("b2")
	require.NoError(t, a.AddEdge(x, a2, NewAction("ax")))
	require.NoError(t, a.AddEdge(nil, a3, NewAction("a_internal")))
	require.NoError(t, b.AddEdge(y, b2, NewAction("by")))

	p := NewProductNode(empty, a, b)
	assert.Equal(t, "(a, b)", p.Mnemonic())

	edges := p.Edges()
	require.Len(t, edges, len(a.Edges())+len(b.Edges()))

	assert.Equal(t, "(a2, b)", edges[0].Target.Mnemonic())
	assert.Equal(t, "(x, _)", edges[0].Trigger.Mnemonic())
	assert.Equal(t, 0, edges[0].Slot)

	assert.Equal(t, "(a3, b)", edges[1].Target.Mnemonic())
	assert.Nil(t, edges[1].Trigger)

	assert.Equal(t, "(a, b2)", edges[2].Target.Mnemonic())
	assert.Equal(t, "(_, y)", edges[2].Trigger.Mnemonic())
	assert.Equal(t, 1, edges[2].Slot)

	for _, e := range edges {
		if pm, ok := e.Trigger.(*ProductMessage); ok {
			for i := 0; i < pm.Arity(); i++ {
				if i != e.Slot {
					assert.True(t, SameMessage(empty, pm.Part(i)))
				}
			}
		}
	}

	// Component edges can no longer change once the product has been expanded.
	assert.ErrorIs(t, a.AddEdge(nil, a, nil), ErrGraphFrozen)
}

func TestAllNodes_ProductCrossProduct(t *testing.T) {
	empty := NewMessage("_")
	a, a2, a3 := NewNode("a"), NewNode("a2"), NewNode("a3")
	b, b2 := NewNode("b"), NewNode("b2")
	require.NoError(t, a.AddEdge(NewMessage("x"), a2, nil))
	require.NoError(t, a.AddEdge(nil, a3, nil))
	require.NoError(t, b.AddEdge(NewMessage("y"), b2, nil))

	nodes := AllNodes(NewProductNode(empty, a, b))
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Mnemonic()
	}
	assert.ElementsMatch(t, []string{
		"(a, b)", "(a2, b)", "(a3, b)", "(a, b2)", "(a2, b2)", "(a3, b2)",
	}, names)
}

func TestDerivedNode_Edges(t *testing.T) {
	empty := NewMessage("_")
	on := NewMessage("on")
	off := NewMessage("off")

	idle, busy := NewNode("idle"), NewNode("busy")
	require.NoError(t, idle.AddEdge(on, busy, NewAction("start")))
	require.NoError(t, busy.AddEdge(off, idle, NewAction("stop")))

	base := NewProductNode(empty, idle, idle)
	exit := NewNode("exit")
	loaded := NewDerivedNode("loaded", base)
	require.NoError(t, loaded.AddEdge(base, nil, exit, NewAction("unload")))

	assert.Equal(t, "loaded (idle, idle)", loaded.Mnemonic())

	edges := loaded.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, "exit", edges[0].Target.Mnemonic())
	assert.Equal(t, "loaded (busy, idle)", edges[1].Target.Mnemonic())
	assert.Equal(t, "loaded (idle, busy)", edges[2].Target.Mnemonic())

	rebased, ok := edges[1].Target.(*DerivedNode)
	require.True(t, ok)
	assert.Same(t, rebased, loaded.Rebase(rebased.Base()))

	// The conditional edge only applies while the base is all idle.
	for _, e := range rebased.Edges() {
		assert.NotEqual(t, "exit", e.Target.Mnemonic())
	}

	nodes := AllNodes(loaded)
	assert.Len(t, nodes, 5) // four derived combinations plus exit

	assert.ErrorIs(t, loaded.AddEdge(nil, nil, exit, nil), ErrGraphFrozen)
}

func TestEdge_IdentityIgnoresAction(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	m := NewMessage("m")
	e1 := &Edge{Source: a, Target: b, Trigger: m, Action: NewAction("one")}
	e2 := &Edge{Source: a, Target: b, Trigger: m, Action: NewAction("two")}
	e3 := &Edge{Source: a, Target: b, Action: NewAction("one")}

	assert.True(t, SameEdge(e1, e2))
	assert.False(t, SameEdge(e1, e3))
	assert.Equal(t, "(a -> b on m)", e1.String())
	assert.Equal(t, "(a -> b)", e3.String())
}

func TestMessages(t *testing.T) {
	m := NewMessage("m")
	empty := NewMessage("_")
	pm := NewProductMessage(m, empty)

	assert.Equal(t, "(m, _)", pm.Mnemonic())
	assert.True(t, SameMessage(pm, NewProductMessage(NewMessage("m"), NewMessage("_"))))
	assert.False(t, SameMessage(pm, NewMessage("(m, _)")))
	assert.True(t, SameMessage(nil, nil))
	assert.False(t, SameMessage(m, nil))
}

func TestDestinations(t *testing.T) {
	a := To("a")
	b := To("b")

	assert.True(t, a.Matches(To("a"), nil))
	assert.False(t, a.Matches(To("b"), nil))

	g := Group(a, b)
	assert.Equal(t, "[a, b]", g.Mnemonic())
	assert.True(t, g.Matches(To("b"), nil))
	assert.False(t, g.Matches(To("c"), nil))

	assert.True(t, Response().Matches(To("a"), To("a")))
	assert.False(t, Response().Matches(To("a"), nil))
	assert.False(t, ProductResponse().Matches(To("a"), To("a")))
}
