package process

import (
	"strings"

	"github.com/aretw0/interleave/pkg/domain"
)

// MailboxEntry is a pending message and who sent it.
type MailboxEntry struct {
	Origin  *Process
	Message domain.Message
}

func (e MailboxEntry) key() string {
	return e.Origin.Mnemonic() + "\x1f" + domain.MessageMnemonic(e.Message)
}

// State is the runtime state of one process: its current node and mailbox.
// States are immutable; every transition produces a new value.
type State struct {
	process *Process
	node    domain.Node
	mailbox []MailboxEntry
	key     string
}

func newState(p *Process, node domain.Node, mailbox []MailboxEntry) *State {
	var sb strings.Builder
	sb.WriteString(node.Mnemonic())
	for _, e := range mailbox {
		sb.WriteString("\x1e")
		sb.WriteString(e.key())
	}
	return &State{process: p, node: node, mailbox: mailbox, key: sb.String()}
}

// Process returns the owning process.
func (s *State) Process() *Process { return s.process }

// Node returns the current local state.
func (s *State) Node() domain.Node { return s.node }

// Mailbox returns a copy of the pending messages in arrival order.
func (s *State) Mailbox() []MailboxEntry {
	return append([]MailboxEntry(nil), s.mailbox...)
}

// MailboxEmpty reports whether no message is pending.
func (s *State) MailboxEmpty() bool { return len(s.mailbox) == 0 }

// HasMessageFrom reports whether a message from origin is still pending.
func (s *State) HasMessageFrom(origin *Process) bool {
	for _, e := range s.mailbox {
		if e.Origin.Mnemonic() == origin.Mnemonic() {
			return true
		}
	}
	return false
}

// Key is the equality key: node plus ordered mailbox.
func (s *State) Key() string { return s.key }

// Equal reports structural equality.
func (s *State) Equal(o *State) bool { return o != nil && s.key == o.key }

// Push returns the state with msg appended to the mailbox after inbound mapping.
func (s *State) Push(origin *Process, msg domain.Message) *State {
	mailbox := make([]MailboxEntry, len(s.mailbox), len(s.mailbox)+1)
	copy(mailbox, s.mailbox)
	mailbox = append(mailbox, MailboxEntry{Origin: origin, Message: s.process.MapInbound(origin, msg)})
	return newState(s.process, s.node, mailbox)
}

// Step is one local transition: the resulting state, the edge taken and the
// consumed mailbox entry (nil for spontaneous edges).
type Step struct {
	State   *State
	Edge    *domain.Edge
	Trigger *MailboxEntry
}

// NextStates enumerates the local transitions of the process.
// Any pending entry may be consumed by an edge whose trigger equals it.
// Spontaneous edges are only offered when no pending entry can be consumed.
func (s *State) NextStates() []Step {
	edges := s.node.Edges()

	var steps []Step
	for i := range s.mailbox {
		entry := s.mailbox[i]
		rest := make([]MailboxEntry, 0, len(s.mailbox)-1)
		rest = append(rest, s.mailbox[:i]...)
		rest = append(rest, s.mailbox[i+1:]...)
		for _, edge := range edges {
			if edge.Trigger == nil || !domain.SameMessage(edge.Trigger, entry.Message) {
				continue
			}
			steps = append(steps, Step{
				State:   newState(s.process, edge.Target, rest),
				Edge:    edge,
				Trigger: &entry,
			})
		}
	}
	if len(steps) > 0 {
		return steps
	}

	for _, edge := range edges {
		if edge.Trigger != nil {
			continue
		}
		steps = append(steps, Step{
			State: newState(s.process, edge.Target, s.mailbox),
			Edge:  edge,
		})
	}
	return steps
}

func (s *State) String() string {
	var sb strings.Builder
	sb.WriteString(s.node.Mnemonic())
	if len(s.mailbox) > 0 {
		sb.WriteString(" [")
		for i, e := range s.mailbox {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(domain.MessageMnemonic(e.Message))
			sb.WriteString(" from ")
			sb.WriteString(e.Origin.Mnemonic())
		}
		sb.WriteString("]")
	}
	return sb.String()
}
