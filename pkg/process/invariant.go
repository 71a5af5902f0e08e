package process

import (
	"fmt"
	"strings"

	"github.com/aretw0/interleave/pkg/domain"
)

// Invariant records what another process can be doing whenever a process is
// at a given state.
type Invariant struct {
	process *Process
	node    domain.Node
	other   *Process
	set     []domain.Node
	members map[string]struct{}
	pattern domain.Node
}

// DeriveInvariant collects the states of other over every global state in
// which p is at node, and generalizes them into a single pattern.
// Both processes must belong to the explored set.
func (sp *StateSpace) DeriveInvariant(p *Process, node domain.Node, other *Process) (*Invariant, error) {
	for _, q := range []*Process{p, other} {
		if q == nil || !sp.set.Contains(q) {
			return nil, fmt.Errorf("%w: %w: %v is not part of the explored set", domain.ErrModel, domain.ErrProcessNotFound, q)
		}
	}
	if node == nil {
		return nil, fmt.Errorf("%w: invariant of %s needs a node", domain.ErrModel, p.Mnemonic())
	}
	inv := &Invariant{
		process: p,
		node:    node,
		other:   other,
		members: make(map[string]struct{}),
	}
	for _, state := range sp.byLocal[localKey(p, node)] {
		observed := state.Node(other)
		if _, ok := inv.members[observed.Mnemonic()]; ok {
			continue
		}
		inv.members[observed.Mnemonic()] = struct{}{}
		inv.set = append(inv.set, observed)
		if inv.pattern == nil {
			inv.pattern = observed
		} else if !domain.IsPlaceholder(inv.pattern) {
			inv.pattern = domain.Generalize(observed, inv.pattern)
		}
	}
	return inv, nil
}

// Process is the process the invariant is about.
func (i *Invariant) Process() *Process { return i.process }

// Node is the local state of Process the invariant is conditioned on.
func (i *Invariant) Node() domain.Node { return i.node }

// InvariantProcess is the process whose states are constrained.
func (i *Invariant) InvariantProcess() *Process { return i.other }

// Set returns the exact observed states in discovery order.
func (i *Invariant) Set() []domain.Node { return append([]domain.Node(nil), i.set...) }

// Pattern is the generalization of Set, nil when Set is empty.
func (i *Invariant) Pattern() domain.Node { return i.pattern }

// Empty reports whether Process was never observed at Node.
func (i *Invariant) Empty() bool { return len(i.set) == 0 }

// Trivial reports whether no invariant could be inferred.
func (i *Invariant) Trivial() bool { return i.pattern != nil && domain.IsPlaceholder(i.pattern) }

// Contains reports whether node was observed exactly.
func (i *Invariant) Contains(node domain.Node) bool {
	_, ok := i.members[node.Mnemonic()]
	return ok
}

// Holds reports whether node satisfies the generalized pattern.
func (i *Invariant) Holds(node domain.Node) bool {
	if i.pattern == nil {
		return false
	}
	return domain.Matches(i.pattern, node)
}

func (i *Invariant) String() string {
	names := make([]string, len(i.set))
	for j, n := range i.set {
		names[j] = n.Mnemonic()
	}
	return fmt.Sprintf("%s: %s => %s: {%s}", i.process, i.node, i.other, strings.Join(names, "; "))
}
