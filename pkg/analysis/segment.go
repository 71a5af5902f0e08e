package analysis

import (
	"sort"
	"strings"

	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
)

// ProcessNode is a process at one of its local states.
type ProcessNode struct {
	Process *process.Process
	Node    domain.Node
}

// Key identifies the pair.
func (pn ProcessNode) Key() string {
	return pn.Process.Mnemonic() + "\x1f" + pn.Node.Mnemonic()
}

func (pn ProcessNode) String() string {
	return pn.Process.Mnemonic() + "@" + pn.Node.Mnemonic()
}

// Segment is a set of (process, state) pairs. Segments produced by
// MutualExclusion never have two members of different processes active in
// the same reachable global state.
type Segment struct {
	members map[string]ProcessNode
	key     string
}

// NewSegment creates a segment from its members.
func NewSegment(members ...ProcessNode) *Segment {
	m := make(map[string]ProcessNode, len(members))
	for _, pn := range members {
		m[pn.Key()] = pn
	}
	return newSegment(m)
}

func newSegment(m map[string]ProcessNode) *Segment {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Segment{members: m, key: strings.Join(keys, "\x1e")}
}

// Key is an order independent identity of the segment content.
func (s *Segment) Key() string { return s.key }

// Len is the number of members.
func (s *Segment) Len() int { return len(s.members) }

// Empty reports whether the segment has no members.
func (s *Segment) Empty() bool { return len(s.members) == 0 }

// Members returns the members sorted by key.
func (s *Segment) Members() []ProcessNode {
	keys := make([]string, 0, len(s.members))
	for k := range s.members {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]ProcessNode, len(keys))
	for i, k := range keys {
		out[i] = s.members[k]
	}
	return out
}

// Processes returns the distinct processes having a member in the segment.
func (s *Segment) Processes() []*process.Process {
	seen := make(map[string]struct{})
	var out []*process.Process
	for _, pn := range s.Members() {
		if _, ok := seen[pn.Process.Mnemonic()]; ok {
			continue
		}
		seen[pn.Process.Mnemonic()] = struct{}{}
		out = append(out, pn.Process)
	}
	return out
}

// HasProcess reports whether p has a member in the segment.
func (s *Segment) HasProcess(p *process.Process) bool {
	for _, pn := range s.members {
		if pn.Process.Mnemonic() == p.Mnemonic() {
			return true
		}
	}
	return false
}

// Contains reports membership.
func (s *Segment) Contains(pn ProcessNode) bool {
	_, ok := s.members[pn.Key()]
	return ok
}

// Includes reports whether every member of o belongs to s.
func (s *Segment) Includes(o *Segment) bool {
	for k := range o.members {
		if _, ok := s.members[k]; !ok {
			return false
		}
	}
	return true
}

// Equal reports whether both segments have the same members.
func (s *Segment) Equal(o *Segment) bool { return s.key == o.key }

// Extend returns s with pn added.
func (s *Segment) Extend(pn ProcessNode) *Segment {
	return s.Union(NewSegment(pn))
}

// Union returns the members of either segment.
func (s *Segment) Union(o *Segment) *Segment {
	m := make(map[string]ProcessNode, len(s.members)+len(o.members))
	for k, v := range s.members {
		m[k] = v
	}
	for k, v := range o.members {
		m[k] = v
	}
	return newSegment(m)
}

// Intersect returns the members of both segments.
func (s *Segment) Intersect(o *Segment) *Segment {
	m := make(map[string]ProcessNode)
	for k, v := range s.members {
		if _, ok := o.members[k]; ok {
			m[k] = v
		}
	}
	return newSegment(m)
}

// Difference returns the members of s missing from o.
func (s *Segment) Difference(o *Segment) *Segment {
	m := make(map[string]ProcessNode)
	for k, v := range s.members {
		if _, ok := o.members[k]; !ok {
			m[k] = v
		}
	}
	return newSegment(m)
}

func (s *Segment) String() string {
	members := s.Members()
	parts := make([]string, len(members))
	for i, pn := range members {
		parts[i] = pn.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// segmentSet is an insertion ordered set of segments.
type segmentSet struct {
	order []*Segment
	index map[string]struct{}
}

func newSegmentSet(segments ...*Segment) *segmentSet {
	s := &segmentSet{index: make(map[string]struct{})}
	for _, seg := range segments {
		s.add(seg)
	}
	return s
}

func (s *segmentSet) add(seg *Segment) {
	if _, ok := s.index[seg.key]; ok {
		return
	}
	s.index[seg.key] = struct{}{}
	s.order = append(s.order, seg)
}

func (s *segmentSet) has(seg *Segment) bool {
	_, ok := s.index[seg.key]
	return ok
}

func (s *segmentSet) equal(o *segmentSet) bool {
	if len(s.order) != len(o.order) {
		return false
	}
	for k := range s.index {
		if _, ok := o.index[k]; !ok {
			return false
		}
	}
	return true
}

func (s *segmentSet) without(seg *Segment) *segmentSet {
	out := newSegmentSet()
	for _, other := range s.order {
		if other.key != seg.key {
			out.add(other)
		}
	}
	return out
}
