package analysis

import (
	"context"

	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
)

// SyncPoint pairs an edge of one process with the edge of another process it
// synchronizes with through a message.
type SyncPoint struct {
	Edge     *domain.Edge
	SyncWith *process.Process
	SyncEdge *domain.Edge
}

func (s SyncPoint) key() string {
	return s.Edge.Key() + "\x1d" + s.SyncWith.Mnemonic() + "\x1d" + s.SyncEdge.Key()
}

func (s SyncPoint) String() string {
	return s.Edge.String() + " <-> " + s.SyncWith.Mnemonic() + ": " + s.SyncEdge.String()
}

// Analyzer works on the process graphs alone, without exploring the state
// space, and over-approximates which local states can run concurrently.
type Analyzer struct {
	set      *process.Set
	cfg      *config
	incoming map[string][]*domain.Edge
	// consumer (process, edge) -> producers
	sync      map[string][]EdgeRef
	consumers []EdgeRef

	boundaries memo[boundary]
	futures    memo[[]SyncPoint]
	partials   memo[[]SyncPoint]
	pasts      memo[boundedPast]
	histories  memo[[]domain.Node]
	segments   memo[[]domain.Node]
}

// NewAnalyzer indexes the edges and message synchronizations of set.
func NewAnalyzer(set *process.Set, opts ...Option) *Analyzer {
	a := &Analyzer{
		set:      set,
		cfg:      newConfig(opts),
		incoming: make(map[string][]*domain.Edge),
		sync:     make(map[string][]EdgeRef),
	}
	a.scan()
	return a
}

// Set returns the analyzed process set.
func (a *Analyzer) Set() *process.Set { return a.set }

func (a *Analyzer) scan() {
	seen := make(map[string]struct{})
	var producers []EdgeRef
	for _, p := range a.set.Processes() {
		for _, node := range p.Nodes() {
			for _, edge := range node.Edges() {
				ref := EdgeRef{Process: p, Edge: edge}
				target := edge.Target.Mnemonic()
				if _, ok := seen[target+"\x1d"+edge.Key()]; !ok {
					seen[target+"\x1d"+edge.Key()] = struct{}{}
					a.incoming[target] = append(a.incoming[target], edge)
				}
				if !edge.Spontaneous() {
					a.consumers = append(a.consumers, ref)
				}
				if len(edge.Action.Envelopes()) > 0 {
					producers = append(producers, ref)
				}
			}
		}
	}

	// Response destinations resolve against the origins of the producer's
	// own trigger, which are only known once earlier rounds linked them.
	for changed := true; changed; {
		changed = false
		for _, producer := range producers {
			for _, env := range producer.Edge.Action.Envelopes() {
				env = producer.Process.MapOutbound(producer.Edge, env)
				for _, consumer := range a.consumers {
					if !a.reaches(producer, env, consumer.Process) {
						continue
					}
					msg := consumer.Process.MapInbound(producer.Process, env.Message)
					if !domain.SameMessage(msg, consumer.Edge.Trigger) {
						continue
					}
					if a.link(consumer, producer) {
						changed = true
					}
				}
			}
		}
	}
	a.cfg.logger.Debug("synchronization index built", "consumers", len(a.sync))
}

func (a *Analyzer) link(consumer, producer EdgeRef) bool {
	for _, existing := range a.sync[consumer.Key()] {
		if existing.Key() == producer.Key() {
			return false
		}
	}
	a.sync[consumer.Key()] = append(a.sync[consumer.Key()], producer)
	return true
}

// reaches reports whether env sent along producer can be delivered to q.
func (a *Analyzer) reaches(producer EdgeRef, env domain.Envelope, q *process.Process) bool {
	if env.Destination.Matches(q, nil) {
		return true
	}
	for _, origin := range a.sync[producer.Key()] {
		if env.Destination.Matches(q, origin.Process) {
			return true
		}
	}
	return false
}

// IncomingEdges returns the edges of any process ending at node.
func (a *Analyzer) IncomingEdges(node domain.Node) []*domain.Edge {
	return append([]*domain.Edge(nil), a.incoming[node.Mnemonic()]...)
}

// SynchronizationEdges returns the producer edges whose messages can trigger
// edge of p.
func (a *Analyzer) SynchronizationEdges(p *process.Process, edge *domain.Edge) []EdgeRef {
	return append([]EdgeRef(nil), a.sync[EdgeRef{Process: p, Edge: edge}.Key()]...)
}

// OutboundSynchronizations returns the consumer edges that a message sent
// along edge of p can trigger.
func (a *Analyzer) OutboundSynchronizations(p *process.Process, edge *domain.Edge) []EdgeRef {
	producer := EdgeRef{Process: p, Edge: edge}.Key()
	var out []EdgeRef
	for _, consumer := range a.consumers {
		for _, ref := range a.sync[consumer.Key()] {
			if ref.Key() == producer {
				out = append(out, consumer)
				break
			}
		}
	}
	return out
}

func (a *Analyzer) syncPoints(p *process.Process, edge *domain.Edge) []SyncPoint {
	producers := a.sync[EdgeRef{Process: p, Edge: edge}.Key()]
	out := make([]SyncPoint, len(producers))
	for i, producer := range producers {
		out[i] = SyncPoint{Edge: edge, SyncWith: producer.Process, SyncEdge: producer.Edge}
	}
	return out
}

// boundary is the result of the backward walk behind PastBoundary.
type boundary struct {
	points []SyncPoint
	entry  bool
}

func (a *Analyzer) boundary(p *process.Process, node domain.Node) boundary {
	return a.boundaries.get(memoKey(p.Mnemonic(), node.Mnemonic()), func() boundary {
		var b boundary
		entry := p.Entry().Mnemonic()
		found := make(map[string]struct{})
		visited := make(map[string]struct{})
		queue := []domain.Node{node}
		for len(queue) > 0 {
			current := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			if _, ok := visited[current.Mnemonic()]; ok {
				continue
			}
			visited[current.Mnemonic()] = struct{}{}
			if current.Mnemonic() == entry {
				b.entry = true
			}

			for _, edge := range a.incoming[current.Mnemonic()] {
				if edge.Spontaneous() {
					queue = append(queue, edge.Source)
					continue
				}
				for _, sp := range a.syncPoints(p, edge) {
					if _, ok := found[sp.key()]; !ok {
						found[sp.key()] = struct{}{}
						b.points = append(b.points, sp)
					}
				}
			}
		}
		return b
	})
}

// PastBoundary walks backwards from node over spontaneous edges and returns
// the message receptions that bound the walk.
func (a *Analyzer) PastBoundary(p *process.Process, node domain.Node) []SyncPoint {
	return append([]SyncPoint(nil), a.boundary(p, node).points...)
}

// ReachesEntry reports whether the walk behind PastBoundary reaches the entry
// of p, node included. When it does, p may be at node without having received
// any message since it started.
func (a *Analyzer) ReachesEntry(p *process.Process, node domain.Node) bool {
	return a.boundary(p, node).entry
}

// FutureLimit walks forward from node over spontaneous edges and returns the
// message receptions that limit the walk.
func (a *Analyzer) FutureLimit(p *process.Process, node domain.Node) []SyncPoint {
	out := a.futures.get(memoKey(p.Mnemonic(), node.Mnemonic()), func() []SyncPoint {
		var out []SyncPoint
		found := make(map[string]struct{})
		visited := make(map[string]struct{})
		queue := []domain.Node{node}
		for len(queue) > 0 {
			current := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			if _, ok := visited[current.Mnemonic()]; ok {
				continue
			}
			visited[current.Mnemonic()] = struct{}{}

			for _, edge := range current.Edges() {
				if edge.Spontaneous() {
					queue = append(queue, edge.Target)
					continue
				}
				for _, sp := range a.syncPoints(p, edge) {
					if _, ok := found[sp.key()]; !ok {
						found[sp.key()] = struct{}{}
						out = append(out, sp)
					}
				}
			}
		}
		return out
	})
	return append([]SyncPoint(nil), out...)
}

// PartialFutureLimit returns the future limits of p that wait for q while q
// is outside states. Limits satisfied from states are walked through.
func (a *Analyzer) PartialFutureLimit(p *process.Process, node domain.Node, q *process.Process, states []domain.Node) []SyncPoint {
	key := memoKey(p.Mnemonic(), node.Mnemonic(), q.Mnemonic(), nodesKey(states))
	out := a.partials.get(key, func() []SyncPoint {
		synchronized := nodeSet(states)
		var out []SyncPoint
		found := make(map[string]struct{})
		visited := make(map[string]struct{})
		queue := []domain.Node{node}
		for len(queue) > 0 {
			current := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			if _, ok := visited[current.Mnemonic()]; ok {
				continue
			}
			visited[current.Mnemonic()] = struct{}{}

			for _, limit := range a.FutureLimit(p, current) {
				_, inside := synchronized[limit.SyncEdge.Target.Mnemonic()]
				if limit.SyncWith == q && !inside {
					if _, ok := found[limit.key()]; !ok {
						found[limit.key()] = struct{}{}
						out = append(out, limit)
					}
					continue
				}
				queue = append(queue, limit.Edge.Target)
			}
		}
		return out
	})
	return append([]SyncPoint(nil), out...)
}

// boundedPast holds the nodes and stop edges behind BoundedPast.
type boundedPast struct {
	nodes []domain.Node
	stops []*domain.Edge
}

// BoundedPast returns the nodes p may have passed through on its way to node
// since it last sent a message to q, node included.
func (a *Analyzer) BoundedPast(p *process.Process, node domain.Node, q *process.Process) []domain.Node {
	return append([]domain.Node(nil), a.boundedPast(p, node, q).nodes...)
}

// RelevantOutbounds returns the edges where BoundedPast stops: the latest
// points at which p sent a message to q before reaching node.
func (a *Analyzer) RelevantOutbounds(p *process.Process, node domain.Node, q *process.Process) []*domain.Edge {
	return append([]*domain.Edge(nil), a.boundedPast(p, node, q).stops...)
}

func (a *Analyzer) boundedPast(p *process.Process, node domain.Node, q *process.Process) boundedPast {
	return a.pasts.get(memoKey(p.Mnemonic(), node.Mnemonic(), q.Mnemonic()), func() boundedPast {
		var bp boundedPast
		stopped := make(map[string]struct{})
		visited := make(map[string]struct{})
		queue := []domain.Node{node}
		for len(queue) > 0 {
			current := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			if _, ok := visited[current.Mnemonic()]; ok {
				continue
			}
			visited[current.Mnemonic()] = struct{}{}
			bp.nodes = append(bp.nodes, current)

			for _, edge := range a.incoming[current.Mnemonic()] {
				if a.sendsTo(p, edge, q) {
					if _, ok := stopped[edge.Key()]; !ok {
						stopped[edge.Key()] = struct{}{}
						bp.stops = append(bp.stops, edge)
					}
					continue
				}
				queue = append(queue, edge.Source)
			}
		}
		return bp
	})
}

func (a *Analyzer) sendsTo(p *process.Process, edge *domain.Edge, q *process.Process) bool {
	producer := EdgeRef{Process: p, Edge: edge}
	for _, env := range edge.Action.Envelopes() {
		if a.reaches(producer, p.MapOutbound(edge, env), q) {
			return true
		}
	}
	return false
}

// History returns every node p may have visited before reaching node,
// node included. Messages p has sent so far left along edges into these nodes.
func (a *Analyzer) History(p *process.Process, node domain.Node) []domain.Node {
	out := a.histories.get(memoKey(p.Mnemonic(), node.Mnemonic()), func() []domain.Node {
		var out []domain.Node
		visited := make(map[string]struct{})
		queue := []domain.Node{node}
		for len(queue) > 0 {
			current := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			if _, ok := visited[current.Mnemonic()]; ok {
				continue
			}
			visited[current.Mnemonic()] = struct{}{}
			out = append(out, current)
			for _, edge := range a.incoming[current.Mnemonic()] {
				queue = append(queue, edge.Source)
			}
		}
		return out
	})
	return append([]domain.Node(nil), out...)
}

// waitsFor reports whether edge of q can only fire on a message p sends from
// outside history.
func (a *Analyzer) waitsFor(q *process.Process, edge *domain.Edge, p *process.Process, history map[string]domain.Node) bool {
	if edge.Spontaneous() {
		return false
	}
	points := a.syncPoints(q, edge)
	if len(points) == 0 {
		return false
	}
	for _, sp := range points {
		if sp.SyncWith != p {
			return false
		}
		if _, ok := history[sp.SyncEdge.Target.Mnemonic()]; ok {
			return false
		}
	}
	return true
}

// ConcurrentSegment returns the nodes of q that may be active while p is at node.
//
// q starts where it sent the messages p last received. It is unconstrained
// when p may not have received anything since its entry, or when the last
// reception may have come from a third process. From there q moves forward
// except across receptions of messages p cannot have sent yet.
func (a *Analyzer) ConcurrentSegment(p *process.Process, node domain.Node, q *process.Process) []domain.Node {
	key := memoKey(p.Mnemonic(), node.Mnemonic(), q.Mnemonic())
	out := a.segments.get(key, func() []domain.Node {
		return a.concurrentSegment(p, node, q)
	})
	return append([]domain.Node(nil), out...)
}

func (a *Analyzer) concurrentSegment(p *process.Process, node domain.Node, q *process.Process) []domain.Node {
	b := a.boundary(p, node)
	if b.entry {
		return q.Nodes()
	}
	var past []domain.Node
	for _, point := range b.points {
		if point.SyncWith != q {
			return q.Nodes()
		}
		past = append(past, point.SyncEdge.Target)
	}
	if len(past) == 0 {
		return q.Nodes()
	}

	history := nodeSet(a.History(p, node))
	var out []domain.Node
	visited := make(map[string]struct{})
	queue := past
	for len(queue) > 0 {
		current := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if _, ok := visited[current.Mnemonic()]; ok {
			continue
		}
		visited[current.Mnemonic()] = struct{}{}
		out = append(out, current)
		for _, edge := range current.Edges() {
			if !a.waitsFor(q, edge, p, history) {
				queue = append(queue, edge.Target)
			}
		}
	}
	return out
}

// ConcurrentSpace returns, for every process, the nodes that may be active
// while p is at node. The entry for p is node itself unless node turns out
// not to be concurrent with some other process at all, in which case it is empty.
func (a *Analyzer) ConcurrentSpace(ctx context.Context, p *process.Process, node domain.Node) (map[*process.Process][]domain.Node, error) {
	processes := a.set.Processes()
	space := make(map[*process.Process]map[string]domain.Node, len(processes))
	for _, q := range processes {
		if q == p {
			space[q] = map[string]domain.Node{node.Mnemonic(): node}
			continue
		}
		space[q] = nodeSet(q.Nodes())
	}

	g := a.cfg.guard("concurrent space " + p.Mnemonic() + "@" + node.Mnemonic())
	for stable := false; !stable; {
		if err := g.next(ctx); err != nil {
			return nil, err
		}
		stable = true
		for _, p1 := range processes {
			for _, p2 := range processes {
				if p1 == p2 {
					continue
				}
				segment := make(map[string]domain.Node)
				for _, state := range space[p1] {
					for _, n := range a.ConcurrentSegment(p1, state, p2) {
						if _, ok := space[p2][n.Mnemonic()]; ok {
							segment[n.Mnemonic()] = n
						}
					}
				}
				if len(segment) != len(space[p2]) {
					space[p2] = segment
					stable = false
				}
			}
		}
	}
	g.done(ctx)

	out := make(map[*process.Process][]domain.Node, len(processes))
	for _, q := range processes {
		nodes := []domain.Node{}
		for _, n := range q.Nodes() {
			if _, ok := space[q][n.Mnemonic()]; ok {
				nodes = append(nodes, n)
			}
		}
		out[q] = nodes
	}
	return out, nil
}

func nodeSet(nodes []domain.Node) map[string]domain.Node {
	m := make(map[string]domain.Node, len(nodes))
	for _, n := range nodes {
		m[n.Mnemonic()] = n
	}
	return m
}
