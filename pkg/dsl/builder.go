package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/interleave/pkg/domain"
)

// Builder manages the graph construction.
// Nodes are referenced by id and may be referenced before they are declared,
// but every referenced id must be declared with Add, Product or Derived
// before Build.
type Builder struct {
	nodes    map[string]*NodeBuilder
	declared map[string]struct{}
	order    []string
	messages map[string]*domain.SimpleMessage
	actions  map[string]*domain.Action
	errs     []error
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes:    make(map[string]*NodeBuilder),
		declared: make(map[string]struct{}),
		messages: make(map[string]*domain.SimpleMessage),
		actions:  make(map[string]*domain.Action),
	}
}

// Message returns the message with the given name, creating it on first use.
func (b *Builder) Message(name string) *domain.SimpleMessage {
	if m, ok := b.messages[name]; ok {
		return m
	}
	m := domain.NewMessage(name)
	b.messages[name] = m
	return m
}

// Action registers a named action. Asking for an existing name without
// envelopes returns the registered action.
func (b *Builder) Action(name string, envelopes ...domain.Envelope) *domain.Action {
	if a, ok := b.actions[name]; ok {
		if len(envelopes) > 0 {
			b.errs = append(b.errs, fmt.Errorf("%w: action %q already defined", domain.ErrModel, name))
		}
		return a
	}
	a := domain.NewAction(name, envelopes...)
	b.actions[name] = a
	return a
}

// Add creates a new simple node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	b.declared[id] = struct{}{}
	return b.ref(id)
}

// ref returns the node under id, creating a simple node without declaring it.
func (b *Builder) ref(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	return b.register(id, domain.NewNode(id))
}

// Product declares a node composed of the given component nodes.
func (b *Builder) Product(id string, empty domain.Message, components ...string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		b.errs = append(b.errs, fmt.Errorf("%w: node %q already defined", domain.ErrModel, id))
		return nb
	}
	nodes := make([]domain.Node, len(components))
	for i, c := range components {
		nodes[i] = b.ref(c).node
	}
	b.declared[id] = struct{}{}
	return b.register(id, domain.NewProductNode(empty, nodes...))
}

// Derived declares a node wrapping base under a mnemonic prefix.
func (b *Builder) Derived(id, prefix, base string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		b.errs = append(b.errs, fmt.Errorf("%w: node %q already defined", domain.ErrModel, id))
		return nb
	}
	b.declared[id] = struct{}{}
	return b.register(id, domain.NewDerivedNode(prefix, b.ref(base).node))
}

func (b *Builder) register(id string, node domain.Node) *NodeBuilder {
	nb := &NodeBuilder{id: id, node: node, builder: b}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build validates the graph and freezes every node.
// Ids that were referenced but never declared fail with domain.UnknownNodeError.
func (b *Builder) Build() (*Graph, error) {
	errs := append([]error(nil), b.errs...)
	for _, id := range b.order {
		if _, ok := b.declared[id]; !ok {
			errs = append(errs, &domain.UnknownNodeError{ID: id})
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to build graph: %w", errors.Join(errs...))
	}

	g := &Graph{
		nodes: make(map[string]domain.Node, len(b.nodes)),
		order: append([]string(nil), b.order...),
	}
	for _, id := range b.order {
		node := b.nodes[id].node
		if f, ok := node.(interface{ Freeze() }); ok {
			f.Freeze()
		}
		g.nodes[id] = node
	}
	return g, nil
}

// Graph is a finished, immutable set of nodes addressable by id.
type Graph struct {
	nodes map[string]domain.Node
	order []string
}

// Node returns the node declared under id.
func (g *Graph) Node(id string) (domain.Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, &domain.UnknownNodeError{ID: id}
	}
	return n, nil
}

// MustNode is like Node but panics on unknown ids.
func (g *Graph) MustNode(id string) domain.Node {
	n, err := g.Node(id)
	if err != nil {
		panic(err)
	}
	return n
}

// IDs returns node ids in declaration order.
func (g *Graph) IDs() []string {
	return append([]string(nil), g.order...)
}
