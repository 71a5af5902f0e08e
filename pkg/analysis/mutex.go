package analysis

import (
	"context"
	"sync"

	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
)

// MutualExclusion derives lock scopes from a state space: segments of
// (process, state) pairs that never co-occur across processes.
type MutualExclusion struct {
	space   *process.StateSpace
	reach   *Reachability
	cfg     *config
	reverse map[string][]*domain.Edge

	mu         sync.Mutex
	perProcess map[*process.Process][]*Segment
	segments   []*Segment
}

// NewMutualExclusion indexes space for segment inference.
func NewMutualExclusion(space *process.StateSpace, opts ...Option) *MutualExclusion {
	m := &MutualExclusion{
		space:      space,
		reach:      NewReachability(space),
		cfg:        newConfig(opts),
		reverse:    make(map[string][]*domain.Edge),
		perProcess: make(map[*process.Process][]*Segment),
	}
	seen := make(map[string]struct{})
	for _, p := range space.Processes() {
		for _, node := range p.Nodes() {
			for _, edge := range node.Edges() {
				if _, ok := seen[edge.Key()]; ok {
					continue
				}
				seen[edge.Key()] = struct{}{}
				target := edge.Target.Mnemonic()
				m.reverse[target] = append(m.reverse[target], edge)
			}
		}
	}
	return m
}

// Reachability exposes the co-occurrence index the segments are built from.
func (m *MutualExclusion) Reachability() *Reachability { return m.reach }

// Excluded returns every (other process, state) pair never observed with p at node.
func (m *MutualExclusion) Excluded(p *process.Process, node domain.Node) *Segment {
	var members []ProcessNode
	for _, q := range m.space.Processes() {
		if q == p {
			continue
		}
		for _, t := range m.reach.Excluded(p, node, q) {
			members = append(members, ProcessNode{Process: q, Node: t})
		}
	}
	return NewSegment(members...)
}

// Segments returns the pruned segments of every process.
func (m *MutualExclusion) Segments(ctx context.Context) ([]*Segment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.segments != nil {
		return append([]*Segment(nil), m.segments...), nil
	}

	all := newSegmentSet()
	for _, p := range m.space.Processes() {
		segments, err := m.processSegments(ctx, p)
		if err != nil {
			return nil, err
		}
		for _, seg := range segments {
			all.add(seg)
		}
	}
	pruned, err := m.prune(ctx, all)
	if err != nil {
		return nil, err
	}
	m.segments = pruned.order
	if m.segments == nil {
		m.segments = []*Segment{}
	}
	m.cfg.logger.Info("mutual exclusion segments computed", "segments", len(m.segments))
	return append([]*Segment(nil), m.segments...), nil
}

// ProcessSegments returns the unpruned segments seen from p.
func (m *MutualExclusion) ProcessSegments(ctx context.Context, p *process.Process) ([]*Segment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	segments, err := m.processSegments(ctx, p)
	if err != nil {
		return nil, err
	}
	return append([]*Segment(nil), segments...), nil
}

func (m *MutualExclusion) processSegments(ctx context.Context, p *process.Process) ([]*Segment, error) {
	if segments, ok := m.perProcess[p]; ok {
		return segments, nil
	}
	nodes := p.Nodes()
	state := map[string]*segmentSet{
		p.Entry().Mnemonic(): newSegmentSet(m.Excluded(p, p.Entry())),
	}

	g := m.cfg.guard("mutual exclusion propagation " + p.Mnemonic())
	for {
		if err := g.next(ctx); err != nil {
			return nil, err
		}
		changed := false
		for _, node := range nodes {
			updated := m.propagate(p, node, state)
			if current, ok := state[node.Mnemonic()]; !ok || !current.equal(updated) {
				state[node.Mnemonic()] = updated
				changed = true
				break
			}
		}
		if !changed {
			break
		}
	}
	g.done(ctx)

	// Split per other process and merge identical content across states of p.
	merged := newSegmentSet()
	byContent := make(map[string]*Segment)
	var contentOrder []string
	for _, node := range nodes {
		segments, ok := state[node.Mnemonic()]
		if !ok {
			continue
		}
		own := ProcessNode{Process: p, Node: node}
		for _, seg := range segments.order {
			for _, q := range seg.Processes() {
				var members []ProcessNode
				for _, pn := range seg.Members() {
					if pn.Process == q || pn.Process == p {
						members = append(members, pn)
					}
				}
				content := NewSegment(members...)
				if existing, ok := byContent[content.key]; ok {
					byContent[content.key] = existing.Extend(own)
					continue
				}
				byContent[content.key] = content.Extend(own)
				contentOrder = append(contentOrder, content.key)
			}
		}
	}
	for _, key := range contentOrder {
		merged.add(byContent[key])
	}

	m.perProcess[p] = merged.order
	return merged.order, nil
}

// propagate recomputes the segments at node from the segments around it.
func (m *MutualExclusion) propagate(p *process.Process, node domain.Node, state map[string]*segmentSet) *segmentSet {
	surrounding := newSegmentSet()
	for _, edge := range node.Edges() {
		if s, ok := state[edge.Target.Mnemonic()]; ok {
			for _, seg := range s.order {
				surrounding.add(seg)
			}
		}
	}
	if !domain.SameNode(node, p.Entry()) {
		for _, edge := range m.reverse[node.Mnemonic()] {
			if s, ok := state[edge.Source.Mnemonic()]; ok {
				for _, seg := range s.order {
					surrounding.add(seg)
				}
			}
		}
	}

	excluded := m.Excluded(p, node)
	out := newSegmentSet()
	covered := NewSegment()
	for _, seg := range surrounding.order {
		common := seg.Intersect(excluded)
		if !common.Empty() {
			covered = covered.Union(common)
			out.add(common)
		}
	}
	if rest := excluded.Difference(covered); !rest.Empty() {
		out.add(rest)
	}
	return out
}

// prune reduces segments to a minimal generating set.
func (m *MutualExclusion) prune(ctx context.Context, segments *segmentSet) (*segmentSet, error) {
	g := m.cfg.guard("mutual exclusion pruning")
	for {
		if err := g.next(ctx); err != nil {
			return nil, err
		}
		if next, ok := m.pruneEmbedded(segments); ok {
			segments = next
			continue
		}
		if next, ok := m.pruneOverlapping(segments); ok {
			segments = next
			continue
		}
		break
	}
	g.done(ctx)
	return segments, nil
}

func (m *MutualExclusion) pruneEmbedded(segments *segmentSet) (*segmentSet, bool) {
	for i, seg := range segments.order {
		for j, other := range segments.order {
			if i != j && seg.Includes(other) {
				return segments.without(other), true
			}
		}
	}
	return nil, false
}

func (m *MutualExclusion) pruneOverlapping(segments *segmentSet) (*segmentSet, bool) {
	for _, p := range m.space.Processes() {
		for i, seg := range segments.order {
			if !seg.HasProcess(p) {
				continue
			}
			for j, other := range segments.order {
				if i == j || !other.HasProcess(p) {
					continue
				}
				diff := seg.Difference(other)
				if diff.hasOtherThan(p) {
					continue
				}
				for _, pn := range seg.Members() {
					if pn.Process != p {
						diff = diff.Extend(pn)
					}
				}
				if diff.Equal(seg) {
					continue
				}
				next := segments.without(seg)
				next.add(diff)
				return next, true
			}
		}
	}
	return nil, false
}

func (s *Segment) hasOtherThan(p *process.Process) bool {
	for _, pn := range s.members {
		if pn.Process.Mnemonic() != p.Mnemonic() {
			return true
		}
	}
	return false
}
