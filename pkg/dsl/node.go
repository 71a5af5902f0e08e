package dsl

import (
	"fmt"

	"github.com/aretw0/interleave/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	id      string
	node    domain.Node
	builder *Builder
}

// ID returns the id the node was declared under.
func (n *NodeBuilder) ID() string { return n.id }

// Go adds a spontaneous edge to the target node.
// The target may be declared later; Build rejects it if it never is.
func (n *NodeBuilder) Go(target string, action *domain.Action) *NodeBuilder {
	return n.edge("", nil, target, action)
}

// Loop adds a spontaneous edge back to the node itself.
func (n *NodeBuilder) Loop(action *domain.Action) *NodeBuilder {
	return n.edge("", nil, n.id, action)
}

// On adds an edge fired by the trigger message.
func (n *NodeBuilder) On(trigger domain.Message, target string, action *domain.Action) *NodeBuilder {
	return n.edge("", trigger, target, action)
}

// When adds an edge to a derived node that only exists while its base is matchBase.
// A nil trigger makes the edge spontaneous.
func (n *NodeBuilder) When(matchBase string, trigger domain.Message, target string, action *domain.Action) *NodeBuilder {
	return n.edge(matchBase, trigger, target, action)
}

func (n *NodeBuilder) edge(matchBase string, trigger domain.Message, target string, action *domain.Action) *NodeBuilder {
	targetNode := n.builder.ref(target).node

	var err error
	switch node := n.node.(type) {
	case *domain.SimpleNode:
		if matchBase != "" {
			err = fmt.Errorf("%w: node %q is not derived", domain.ErrModel, n.id)
			break
		}
		err = node.AddEdge(trigger, targetNode, action)
	case *domain.DerivedNode:
		var base domain.Node
		if matchBase != "" {
			base = n.builder.ref(matchBase).node
		}
		err = node.AddEdge(base, trigger, targetNode, action)
	default:
		err = fmt.Errorf("%w: node %q computes its own edges", domain.ErrModel, n.id)
	}
	if err != nil {
		n.builder.errs = append(n.builder.errs, err)
	}
	return n
}

// Build returns the underlying domain.Node.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}
