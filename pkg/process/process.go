package process

import (
	"sync"

	"github.com/aretw0/interleave/pkg/domain"
)

// InboundMapper rewrites a message as seen by the receiver when it arrives
// from origin. It returns nil when it does not apply.
type InboundMapper func(origin domain.Participant, msg domain.Message) domain.Message

// OutboundMapper rewrites an envelope sent along edge. The boolean reports
// whether the mapper applied.
type OutboundMapper func(edge *domain.Edge, env domain.Envelope) (domain.Envelope, bool)

// Process is one independent actor: an entry node plus message mappings.
// A process is also a destination addressing itself.
type Process struct {
	name     string
	entry    domain.Node
	inbound  []InboundMapper
	outbound []OutboundMapper

	nodesOnce sync.Once
	nodes     []domain.Node
}

func newProcess(name string, entry domain.Node) *Process {
	return &Process{name: name, entry: entry}
}

func (p *Process) Mnemonic() string { return p.name }
func (p *Process) String() string   { return p.name }

// Entry returns the initial node of the process.
func (p *Process) Entry() domain.Node { return p.entry }

// Matches implements domain.Destination.
func (p *Process) Matches(participant domain.Participant, _ domain.Participant) bool {
	return participant != nil && participant.Mnemonic() == p.name
}

// AddInboundMapping appends an inbound mapper. The first mapper returning a
// message wins.
func (p *Process) AddInboundMapping(m InboundMapper) *Process {
	p.inbound = append(p.inbound, m)
	return p
}

// AddOutboundMapping appends an outbound mapper. The first applicable mapper wins.
func (p *Process) AddOutboundMapping(m OutboundMapper) *Process {
	p.outbound = append(p.outbound, m)
	return p
}

// MapInbound returns msg as seen by p when it arrives from origin.
func (p *Process) MapInbound(origin domain.Participant, msg domain.Message) domain.Message {
	for _, m := range p.inbound {
		if mapped := m(origin, msg); mapped != nil {
			return mapped
		}
	}
	return msg
}

// MapOutbound returns env as it leaves p along edge.
func (p *Process) MapOutbound(edge *domain.Edge, env domain.Envelope) domain.Envelope {
	for _, m := range p.outbound {
		if mapped, ok := m(edge, env); ok {
			return mapped
		}
	}
	return env
}

// InitialState is the process at its entry node with an empty mailbox.
func (p *Process) InitialState() *State {
	return newState(p, p.entry, nil)
}

// Nodes enumerates every local state of the process.
func (p *Process) Nodes() []domain.Node {
	p.nodesOnce.Do(func() {
		p.nodes = domain.AllNodes(p.entry)
	})
	return append([]domain.Node(nil), p.nodes...)
}
