package process

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/aretw0/interleave/pkg/domain"
)

// Set is a group of communicating processes.
type Set struct {
	processes []*Process
	byName    map[string]*Process
}

// NewSet creates an empty process set.
func NewSet() *Set {
	return &Set{byName: make(map[string]*Process)}
}

// AddProcess registers a process starting at entry.
func (s *Set) AddProcess(name string, entry domain.Node) (*Process, error) {
	if _, ok := s.byName[name]; ok {
		return nil, fmt.Errorf("%w: process %q already defined", domain.ErrModel, name)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: process %q has no entry node", domain.ErrModel, name)
	}
	p := newProcess(name, entry)
	s.processes = append(s.processes, p)
	s.byName[name] = p
	return p, nil
}

// Processes returns the processes in registration order.
func (s *Set) Processes() []*Process {
	return append([]*Process(nil), s.processes...)
}

// Process looks a process up by name.
func (s *Set) Process(name string) (*Process, error) {
	p, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProcessNotFound, name)
	}
	return p, nil
}

// Contains reports whether p belongs to the set.
func (s *Set) Contains(p *Process) bool {
	q, ok := s.byName[p.Mnemonic()]
	return ok && q == p
}

// InitialState has every process at its entry node with an empty mailbox.
func (s *Set) InitialState() *SetState {
	states := make(map[*Process]*State, len(s.processes))
	for _, p := range s.processes {
		states[p] = p.InitialState()
	}
	return newSetState(s, states)
}

// SetState is a global state: one State per process.
// Equality does not depend on the order states were assembled in.
type SetState struct {
	set    *Set
	states map[*Process]*State
	key    string
}

// NewSetState assembles a global state from per-process states.
// Every process of the set must be present.
func NewSetState(set *Set, states map[*Process]*State) (*SetState, error) {
	for _, p := range set.processes {
		st, ok := states[p]
		if !ok {
			return nil, fmt.Errorf("%w: missing state for process %s", domain.ErrModel, p.Mnemonic())
		}
		if st.process != p {
			return nil, fmt.Errorf("%w: state for %s belongs to %s", domain.ErrModel, p.Mnemonic(), st.process.Mnemonic())
		}
	}
	if len(states) != len(set.processes) {
		return nil, fmt.Errorf("%w: state mentions processes outside the set", domain.ErrModel)
	}
	copied := make(map[*Process]*State, len(states))
	for p, st := range states {
		copied[p] = st
	}
	return newSetState(set, copied), nil
}

// NewSetStateFrom places every process at the given node with an empty
// mailbox. Processes missing from nodes stay at their entry node.
func NewSetStateFrom(set *Set, nodes map[*Process]domain.Node) (*SetState, error) {
	states := make(map[*Process]*State, len(set.processes))
	for _, p := range set.processes {
		states[p] = p.InitialState()
	}
	for p, node := range nodes {
		if _, ok := states[p]; !ok {
			return nil, fmt.Errorf("%w: process %v is not part of the set", domain.ErrModel, p)
		}
		if node == nil {
			return nil, fmt.Errorf("%w: process %s has no node", domain.ErrModel, p.Mnemonic())
		}
		states[p] = newState(p, node, nil)
	}
	return newSetState(set, states), nil
}

func newSetState(set *Set, states map[*Process]*State) *SetState {
	names := make([]string, 0, len(states))
	byName := make(map[string]*State, len(states))
	for p, st := range states {
		names = append(names, p.Mnemonic())
		byName[p.Mnemonic()] = st
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteString("=")
		sb.WriteString(byName[name].Key())
		sb.WriteString("\x1d")
	}
	return &SetState{set: set, states: states, key: sb.String()}
}

// Set returns the process set the state belongs to.
func (s *SetState) Set() *Set { return s.set }

// State returns the local state of p.
func (s *SetState) State(p *Process) *State { return s.states[p] }

// Node returns the current node of p.
func (s *SetState) Node(p *Process) domain.Node {
	if st, ok := s.states[p]; ok {
		return st.node
	}
	return nil
}

// Key is the structural equality key.
func (s *SetState) Key() string { return s.key }

// Hash is a hash of Key.
func (s *SetState) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s.key))
	return h.Sum64()
}

// Equal reports structural equality.
func (s *SetState) Equal(o *SetState) bool { return o != nil && s.key == o.key }

// WithEmptyMailboxes returns the state with every mailbox cleared.
func (s *SetState) WithEmptyMailboxes() *SetState {
	states := make(map[*Process]*State, len(s.states))
	for p, st := range s.states {
		states[p] = newState(p, st.node, nil)
	}
	return newSetState(s.set, states)
}

// Transition is one enabled global move: Process takes Edge and the system
// ends up in Target.
type Transition struct {
	Process *Process
	Edge    *domain.Edge
	Target  *SetState
}

// NextTransitions enumerates every transition any process can take.
// Delivery is blocking: a transition is not enabled while one of its
// receivers still holds an unconsumed message from the sender.
func (s *SetState) NextTransitions() ([]Transition, error) {
	var out []Transition
	for _, p := range s.set.processes {
		for _, step := range s.states[p].NextStates() {
			target, ok, err := s.apply(p, step)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, Transition{Process: p, Edge: step.Edge, Target: target})
			}
		}
	}
	return out, nil
}

// NextStates returns the targets of NextTransitions.
func (s *SetState) NextStates() ([]*SetState, error) {
	transitions, err := s.NextTransitions()
	if err != nil {
		return nil, err
	}
	out := make([]*SetState, len(transitions))
	for i, t := range transitions {
		out[i] = t.Target
	}
	return out, nil
}

func (s *SetState) apply(p *Process, step Step) (*SetState, bool, error) {
	next := make(map[*Process]*State, len(s.states))
	for q, st := range s.states {
		next[q] = st
	}
	next[p] = step.State

	var inResponseTo domain.Participant
	if step.Trigger != nil {
		inResponseTo = step.Trigger.Origin
	}

	for _, env := range step.Edge.Action.Envelopes() {
		env = p.MapOutbound(step.Edge, env)
		matched := false
		for _, q := range s.set.processes {
			if !env.Destination.Matches(q, inResponseTo) {
				continue
			}
			matched = true
			if next[q].HasMessageFrom(p) {
				return nil, false, nil
			}
			next[q] = next[q].Push(p, env.Message)
		}
		if !matched {
			return nil, false, &domain.DestinationResolutionError{
				Process:     p.Mnemonic(),
				Edge:        step.Edge.String(),
				Destination: env.Destination.Mnemonic(),
				Message:     domain.MessageMnemonic(env.Message),
			}
		}
	}
	return newSetState(s.set, next), true, nil
}

func (s *SetState) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, p := range s.set.processes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Mnemonic())
		sb.WriteString(": ")
		sb.WriteString(s.states[p].String())
	}
	sb.WriteString("}")
	return sb.String()
}
