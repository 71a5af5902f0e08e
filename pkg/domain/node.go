package domain

import (
	"fmt"
	"strings"
	"sync"
)

// Node is a local state in a process state machine.
// Nodes are compared by mnemonic; structurally distinct nodes have distinct mnemonics.
type Node interface {
	Mnemonic() string
	Edges() []*Edge
	String() string
	node()
}

func edgeKey(target Node, trigger Message) string {
	kind := "m"
	switch trigger.(type) {
	case nil:
		kind = "-"
	case *ProductMessage:
		kind = "p"
	}
	return target.Mnemonic() + "\x1f" + kind + MessageMnemonic(trigger)
}

// SimpleNode owns an explicit list of outgoing edges.
type SimpleNode struct {
	name   string
	edges  []*Edge
	keys   map[string]struct{}
	frozen bool
}

// NewNode creates a simple node without edges.
func NewNode(name string) *SimpleNode {
	return &SimpleNode{
		name: name,
		keys: make(map[string]struct{}),
	}
}

// AddEdge appends an edge to target fired by trigger (nil for spontaneous edges).
// Only one edge may exist per (target, trigger) pair.
func (n *SimpleNode) AddEdge(trigger Message, target Node, action *Action) error {
	if n.frozen {
		return fmt.Errorf("%w: cannot add edge to %s", ErrGraphFrozen, n.name)
	}
	if target == nil {
		return fmt.Errorf("%w: edge from %s has no target", ErrModel, n.name)
	}
	key := edgeKey(target, trigger)
	if _, ok := n.keys[key]; ok {
		return &DuplicateEdgeError{Source: n.name, Target: target.Mnemonic(), Trigger: MessageMnemonic(trigger)}
	}
	n.keys[key] = struct{}{}
	n.edges = append(n.edges, &Edge{Source: n, Target: target, Trigger: trigger, Action: action, Slot: -1})
	return nil
}

// Freeze rejects further edges.
func (n *SimpleNode) Freeze() { n.frozen = true }

func (n *SimpleNode) Edges() []*Edge {
	edges := make([]*Edge, len(n.edges))
	copy(edges, n.edges)
	return edges
}

func (n *SimpleNode) Mnemonic() string { return n.name }
func (n *SimpleNode) String() string   { return n.name }
func (n *SimpleNode) node()            {}

// ProductNode composes independent component nodes into one aggregate state.
// Each of its edges advances exactly one component by one of that component's edges.
type ProductNode struct {
	components []Node
	empty      Message
	mnemonic   string

	once  sync.Once
	edges []*Edge
}

// NewProductNode creates a product of the given components. The empty message
// fills the slots of components that are not advanced by an edge.
func NewProductNode(empty Message, components ...Node) *ProductNode {
	copied := make([]Node, len(components))
	copy(copied, components)
	names := make([]string, len(copied))
	for i, c := range copied {
		names[i] = c.Mnemonic()
	}
	return &ProductNode{
		components: copied,
		empty:      empty,
		mnemonic:   "(" + strings.Join(names, ", ") + ")",
	}
}

// Components returns a copy of the component nodes.
func (n *ProductNode) Components() []Node {
	components := make([]Node, len(n.components))
	copy(components, n.components)
	return components
}

// Arity is the number of components.
func (n *ProductNode) Arity() int { return len(n.components) }

// Empty is the identity message used for components that did not move.
func (n *ProductNode) Empty() Message { return n.empty }

func (n *ProductNode) Edges() []*Edge {
	n.once.Do(func() {
		for _, c := range n.components {
			if f, ok := c.(interface{ Freeze() }); ok {
				f.Freeze()
			}
		}
		for index, component := range n.components {
			for _, edge := range component.Edges() {
				targets := make([]Node, len(n.components))
				parts := make([]Message, len(n.components))
				for i, other := range n.components {
					if i == index {
						targets[i] = edge.Target
						parts[i] = edge.Trigger
					} else {
						targets[i] = other
						parts[i] = n.empty
					}
				}
				var trigger Message
				if edge.Trigger != nil {
					trigger = NewProductMessage(parts...)
				}
				n.edges = append(n.edges, &Edge{
					Source:  n,
					Target:  NewProductNode(n.empty, targets...),
					Trigger: trigger,
					Action:  edge.Action,
					Slot:    index,
				})
			}
		}
	})
	edges := make([]*Edge, len(n.edges))
	copy(edges, n.edges)
	return edges
}

func (n *ProductNode) Mnemonic() string { return n.mnemonic }
func (n *ProductNode) String() string   { return n.mnemonic }
func (n *ProductNode) node()            {}

type conditionalEdge struct {
	matchBase Node
	trigger   Message
	target    Node
	action    *Action
}

// derivation is shared by every node rebased from the same derived node.
type derivation struct {
	prefix string

	mu      sync.Mutex
	edges   []conditionalEdge
	keys    map[string]struct{}
	frozen  bool
	rebased map[string]*DerivedNode
}

// DerivedNode wraps a base node. It exposes its own edges, optionally
// conditioned on the base, plus every base edge rebased onto a derived node
// with the same prefix.
type DerivedNode struct {
	tmpl     *derivation
	base     Node
	mnemonic string

	once  sync.Once
	edges []*Edge
}

// NewDerivedNode creates a derived node around base.
func NewDerivedNode(prefix string, base Node) *DerivedNode {
	tmpl := &derivation{
		prefix:  prefix,
		keys:    make(map[string]struct{}),
		rebased: make(map[string]*DerivedNode),
	}
	return tmpl.rebase(base)
}

func (d *derivation) rebase(base Node) *DerivedNode {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n, ok := d.rebased[base.Mnemonic()]; ok {
		return n
	}
	n := &DerivedNode{
		tmpl:     d,
		base:     base,
		mnemonic: d.prefix + " " + base.Mnemonic(),
	}
	d.rebased[base.Mnemonic()] = n
	return n
}

// Prefix returns the mnemonic prefix shared by all rebased nodes.
func (n *DerivedNode) Prefix() string { return n.tmpl.prefix }

// Base returns the wrapped node.
func (n *DerivedNode) Base() Node { return n.base }

// Rebase returns the derived node with the same prefix and edges around another base.
func (n *DerivedNode) Rebase(base Node) *DerivedNode { return n.tmpl.rebase(base) }

// AddEdge adds an edge that exists only while the base equals matchBase.
// A nil matchBase makes the edge unconditional.
func (n *DerivedNode) AddEdge(matchBase Node, trigger Message, target Node, action *Action) error {
	d := n.tmpl
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.frozen {
		return fmt.Errorf("%w: cannot add edge to %s", ErrGraphFrozen, n.mnemonic)
	}
	if target == nil {
		return fmt.Errorf("%w: edge from %s has no target", ErrModel, n.mnemonic)
	}
	key := edgeKey(target, trigger)
	if matchBase != nil {
		key = matchBase.Mnemonic() + "\x1e" + key
	}
	if _, ok := d.keys[key]; ok {
		return &DuplicateEdgeError{Source: n.mnemonic, Target: target.Mnemonic(), Trigger: MessageMnemonic(trigger)}
	}
	d.keys[key] = struct{}{}
	d.edges = append(d.edges, conditionalEdge{matchBase: matchBase, trigger: trigger, target: target, action: action})
	return nil
}

// Freeze rejects further edges on every node sharing this derivation.
func (n *DerivedNode) Freeze() {
	n.tmpl.mu.Lock()
	n.tmpl.frozen = true
	n.tmpl.mu.Unlock()
}

func (n *DerivedNode) Edges() []*Edge {
	n.once.Do(func() {
		n.Freeze()
		n.tmpl.mu.Lock()
		own := make([]conditionalEdge, len(n.tmpl.edges))
		copy(own, n.tmpl.edges)
		n.tmpl.mu.Unlock()

		for _, ce := range own {
			if ce.matchBase == nil || SameNode(ce.matchBase, n.base) {
				n.edges = append(n.edges, &Edge{Source: n, Target: ce.target, Trigger: ce.trigger, Action: ce.action, Slot: -1})
			}
		}
		for _, edge := range n.base.Edges() {
			n.edges = append(n.edges, &Edge{
				Source:  n,
				Target:  n.Rebase(edge.Target),
				Trigger: edge.Trigger,
				Action:  edge.Action,
				Slot:    edge.Slot,
			})
		}
	})
	edges := make([]*Edge, len(n.edges))
	copy(edges, n.edges)
	return edges
}

func (n *DerivedNode) Mnemonic() string { return n.mnemonic }
func (n *DerivedNode) String() string   { return n.mnemonic }
func (n *DerivedNode) node()            {}

// PlaceholderNode stands for any state. It only appears in invariant patterns.
type PlaceholderNode struct{}

var placeholder = &PlaceholderNode{}

// Placeholder returns the wildcard node.
func Placeholder() *PlaceholderNode { return placeholder }

func (*PlaceholderNode) Mnemonic() string { return "?" }
func (*PlaceholderNode) String() string   { return "?" }
func (*PlaceholderNode) Edges() []*Edge   { return nil }
func (*PlaceholderNode) node()            {}

// IsPlaceholder reports whether n is the wildcard node.
func IsPlaceholder(n Node) bool {
	_, ok := n.(*PlaceholderNode)
	return ok
}

// SameNode reports whether a and b are the same state.
func SameNode(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if IsPlaceholder(a) || IsPlaceholder(b) {
		return IsPlaceholder(a) && IsPlaceholder(b)
	}
	return a.Mnemonic() == b.Mnemonic()
}
