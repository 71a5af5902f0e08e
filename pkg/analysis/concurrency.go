package analysis

import (
	"sort"
	"sync"

	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
)

// EdgeRef is a transition of one process.
type EdgeRef struct {
	Process *process.Process
	Edge    *domain.Edge
}

// Key identifies the reference.
func (r EdgeRef) Key() string {
	return r.Process.Mnemonic() + "\x1f" + r.Edge.Key()
}

func (r EdgeRef) String() string {
	return r.Process.Mnemonic() + ": " + r.Edge.String()
}

// ConcurrentPair says that First and Second can happen in either order.
type ConcurrentPair struct {
	First  EdgeRef
	Second EdgeRef
}

// ConcurrentPairs extracts every pair of transitions by distinct processes
// that are enabled around the same global states. Both orientations of a
// pair are reported.
func ConcurrentPairs(space *process.StateSpace) []ConcurrentPair {
	visited := make(map[string]struct{})
	var out []ConcurrentPair
	emit := func(a, b EdgeRef) {
		key := a.Key() + "\x1d" + b.Key()
		if _, ok := visited[key]; ok {
			return
		}
		visited[key] = struct{}{}
		out = append(out, ConcurrentPair{First: a, Second: b})
	}

	for _, p := range space.Processes() {
		for _, node := range p.Nodes() {
			var own []*domain.Edge
			targets := make(map[string][]*process.SetState)
			for _, st := range space.MatchStates(p, node) {
				for _, t := range space.Transitions(st) {
					if t.Process != p {
						continue
					}
					if _, ok := targets[t.Edge.Key()]; ok {
						continue
					}
					own = append(own, t.Edge)
					targets[t.Edge.Key()] = space.MatchStates(p, t.Edge.Target)
				}
			}
			for _, edge := range own {
				mine := EdgeRef{Process: p, Edge: edge}
				for _, st := range targets[edge.Key()] {
					for _, t := range space.Transitions(st) {
						if t.Process == p {
							continue
						}
						theirs := EdgeRef{Process: t.Process, Edge: t.Edge}
						emit(mine, theirs)
						emit(theirs, mine)
					}
				}
			}
		}
	}
	return out
}

type concurrencyEntry struct {
	ref    EdgeRef
	others []EdgeRef
	seen   map[string]struct{}
}

// Concurrency indexes concurrent transition pairs.
type Concurrency struct {
	entries map[string]*concurrencyEntry
	order   []string

	groupsOnce sync.Once
	groups     [][]EdgeRef
}

// NewConcurrency builds a symmetric index from pairs.
func NewConcurrency(pairs []ConcurrentPair) *Concurrency {
	c := &Concurrency{entries: make(map[string]*concurrencyEntry)}
	for _, pair := range pairs {
		c.add(pair.First, pair.Second)
		c.add(pair.Second, pair.First)
	}
	return c
}

// ConcurrencyFromStateSpace is NewConcurrency over ConcurrentPairs(space).
func ConcurrencyFromStateSpace(space *process.StateSpace) *Concurrency {
	return NewConcurrency(ConcurrentPairs(space))
}

func (c *Concurrency) add(a, b EdgeRef) {
	entry, ok := c.entries[a.Key()]
	if !ok {
		entry = &concurrencyEntry{ref: a, seen: make(map[string]struct{})}
		c.entries[a.Key()] = entry
		c.order = append(c.order, a.Key())
	}
	if _, ok := entry.seen[b.Key()]; ok {
		return
	}
	entry.seen[b.Key()] = struct{}{}
	entry.others = append(entry.others, b)
}

// ProcessEdges returns every transition with at least one concurrent partner.
func (c *Concurrency) ProcessEdges() []EdgeRef {
	out := make([]EdgeRef, len(c.order))
	for i, key := range c.order {
		out[i] = c.entries[key].ref
	}
	return out
}

// IsConcurrent reports whether a and b were observed as concurrent.
func (c *Concurrency) IsConcurrent(a, b EdgeRef) bool {
	if entry, ok := c.entries[a.Key()]; ok {
		if _, ok := entry.seen[b.Key()]; ok {
			return true
		}
	}
	if entry, ok := c.entries[b.Key()]; ok {
		if _, ok := entry.seen[a.Key()]; ok {
			return true
		}
	}
	return false
}

// ConcurrentProcessEdges returns the partners of ref.
func (c *Concurrency) ConcurrentProcessEdges(ref EdgeRef) []EdgeRef {
	entry, ok := c.entries[ref.Key()]
	if !ok {
		return nil
	}
	return append([]EdgeRef(nil), entry.others...)
}

// ConcurrentGroups returns groups of pairwise concurrent transitions, at most
// one per process. Groups are built greedily and are not necessarily maximum.
func (c *Concurrency) ConcurrentGroups() [][]EdgeRef {
	c.groupsOnce.Do(c.aggregateGroups)
	out := make([][]EdgeRef, len(c.groups))
	for i, g := range c.groups {
		out[i] = append([]EdgeRef(nil), g...)
	}
	return out
}

func (c *Concurrency) aggregateGroups() {
	seen := make(map[string]struct{})
	c.groups = [][]EdgeRef{}
	for _, key := range c.order {
		entry := c.entries[key]
		for _, other := range entry.others {
			group := c.clique(other, entry.others)
			if !containsRef(group, entry.ref) {
				group = append(group, entry.ref)
			}
			sort.Slice(group, func(i, j int) bool { return group[i].Key() < group[j].Key() })
			id := groupKey(group)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			c.groups = append(c.groups, group)
		}
	}
}

func (c *Concurrency) clique(start EdgeRef, candidates []EdgeRef) []EdgeRef {
	clique := []EdgeRef{start}
	processes := map[*process.Process]struct{}{start.Process: {}}
	for _, candidate := range candidates {
		if containsRef(clique, candidate) {
			continue
		}
		if _, ok := processes[candidate.Process]; ok {
			continue
		}
		all := true
		for _, member := range clique {
			if !c.IsConcurrent(candidate, member) {
				all = false
				break
			}
		}
		if all {
			clique = append(clique, candidate)
			processes[candidate.Process] = struct{}{}
		}
	}
	return clique
}

func containsRef(refs []EdgeRef, ref EdgeRef) bool {
	for _, r := range refs {
		if r.Key() == ref.Key() {
			return true
		}
	}
	return false
}

func groupKey(group []EdgeRef) string {
	var key string
	for _, r := range group {
		key += r.Key() + "\x1d"
	}
	return key
}
