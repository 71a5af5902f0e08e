package analysis

import (
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
)

// Reachability indexes which local states occur together in a state space.
type Reachability struct {
	space    *process.StateSpace
	observed map[string]map[string]struct{} // (p, s) key -> set of (q, t) keys
}

// NewReachability scans every global state of space once.
func NewReachability(space *process.StateSpace) *Reachability {
	r := &Reachability{
		space:    space,
		observed: make(map[string]map[string]struct{}),
	}
	processes := space.Processes()
	for _, st := range space.States() {
		for _, p := range processes {
			key := ProcessNode{Process: p, Node: st.Node(p)}.Key()
			seen, ok := r.observed[key]
			if !ok {
				seen = make(map[string]struct{})
				r.observed[key] = seen
			}
			for _, q := range processes {
				if q != p {
					seen[ProcessNode{Process: q, Node: st.Node(q)}.Key()] = struct{}{}
				}
			}
		}
	}
	return r
}

// Space returns the indexed state space.
func (r *Reachability) Space() *process.StateSpace { return r.space }

// Active returns the local states of p that occur in some reachable state.
func (r *Reachability) Active(p *process.Process) []domain.Node {
	return r.space.ActiveNodes(p)
}

// Observed reports whether p is ever at node.
func (r *Reachability) Observed(p *process.Process, node domain.Node) bool {
	_, ok := r.observed[ProcessNode{Process: p, Node: node}.Key()]
	return ok
}

// CoOccur reports whether some reachable state has p at s and q at t.
func (r *Reachability) CoOccur(p *process.Process, s domain.Node, q *process.Process, t domain.Node) bool {
	seen, ok := r.observed[ProcessNode{Process: p, Node: s}.Key()]
	if !ok {
		return false
	}
	_, ok = seen[ProcessNode{Process: q, Node: t}.Key()]
	return ok
}

// Excluded returns the active states of q never observed together with p at s.
// It is empty when p is never at s.
func (r *Reachability) Excluded(p *process.Process, s domain.Node, q *process.Process) []domain.Node {
	seen, ok := r.observed[ProcessNode{Process: p, Node: s}.Key()]
	if !ok {
		return nil
	}
	var out []domain.Node
	for _, t := range r.space.ActiveNodes(q) {
		if _, ok := seen[ProcessNode{Process: q, Node: t}.Key()]; !ok {
			out = append(out, t)
		}
	}
	return out
}
