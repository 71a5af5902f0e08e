package analysis_test

import (
	"testing"

	"github.com/aretw0/interleave/internal/testutils"
	"github.com/aretw0/interleave/pkg/analysis"
	"github.com/stretchr/testify/assert"
)

func TestSegment_SetOperations(t *testing.T) {
	set := testutils.PingPong(t)
	a := testutils.MustProcess(t, set, "A")
	b := testutils.MustProcess(t, set, "B")
	g := a.Nodes()

	idle := analysis.ProcessNode{Process: a, Node: a.Entry()}
	wait := analysis.ProcessNode{Process: b, Node: b.Entry()}
	var sent analysis.ProcessNode
	for _, n := range g {
		if n.Mnemonic() == "sent" {
			sent = analysis.ProcessNode{Process: a, Node: n}
		}
	}

	ab := analysis.NewSegment(idle, wait)
	ba := analysis.NewSegment(wait, idle, wait)
	assert.True(t, ab.Equal(ba))
	assert.Equal(t, ab.Key(), ba.Key())
	assert.Equal(t, 2, ba.Len())
	assert.Equal(t, "{A@idle, B@wait}", ab.String())

	withSent := ab.Extend(sent)
	assert.True(t, withSent.Includes(ab))
	assert.False(t, ab.Includes(withSent))
	assert.True(t, withSent.Contains(sent))
	assert.Len(t, withSent.Processes(), 2)

	assert.True(t, withSent.Intersect(ab).Equal(ab))
	assert.True(t, withSent.Difference(ab).Equal(analysis.NewSegment(sent)))
	assert.True(t, analysis.NewSegment(idle).Union(analysis.NewSegment(wait)).Equal(ab))
	assert.True(t, ab.Difference(withSent).Empty())

	assert.True(t, analysis.NewSegment(sent).HasProcess(a))
	assert.False(t, analysis.NewSegment(sent).HasProcess(b))
}
