package process

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/interleave/pkg/domain"
)

// StateSpace is the set of global states reachable from a starting state,
// closed under the transition relation.
type StateSpace struct {
	set         *Set
	start       *SetState
	states      []*SetState
	index       map[string]int
	transitions map[string][]Transition
	byLocal     map[string][]*SetState
	active      map[*Process][]domain.Node
}

func localKey(p *Process, node domain.Node) string {
	return p.Mnemonic() + "\x1f" + node.Mnemonic()
}

type explorer struct {
	maxStates int
	progress  int
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
}

// StateSpace explores everything reachable from the initial state.
func (s *Set) StateSpace(ctx context.Context, opts ...Option) (*StateSpace, error) {
	return Explore(ctx, s.InitialState(), opts...)
}

// Explore computes the state space reachable from start, start included.
func Explore(ctx context.Context, start *SetState, opts ...Option) (*StateSpace, error) {
	e := newExplorer(opts)
	sp := &StateSpace{
		set:         start.set,
		start:       start,
		index:       make(map[string]int),
		transitions: make(map[string][]Transition),
		byLocal:     make(map[string][]*SetState),
		active:      make(map[*Process][]domain.Node),
	}
	if err := e.walk(ctx, sp, start, true); err != nil {
		return nil, err
	}
	e.logger.Info("state space explored",
		"processes", len(sp.set.processes),
		"states", len(sp.states),
	)
	return sp, nil
}

// Reachable returns the global states reachable from s, optionally including s.
func (s *SetState) Reachable(ctx context.Context, includeSelf bool, opts ...Option) ([]*SetState, error) {
	e := newExplorer(opts)
	sp := &StateSpace{
		set:         s.set,
		start:       s,
		index:       make(map[string]int),
		transitions: make(map[string][]Transition),
		byLocal:     make(map[string][]*SetState),
		active:      make(map[*Process][]domain.Node),
	}
	if err := e.walk(ctx, sp, s, includeSelf); err != nil {
		return nil, err
	}
	return sp.States(), nil
}

// walk is a depth-first search deduplicating states by structural key.
func (e *explorer) walk(ctx context.Context, sp *StateSpace, start *SetState, includeSelf bool) error {
	var pending []*SetState
	if includeSelf {
		pending = append(pending, start)
	} else {
		transitions, err := e.expand(ctx, start)
		if err != nil {
			return err
		}
		for i := len(transitions) - 1; i >= 0; i-- {
			pending = append(pending, transitions[i].Target)
		}
	}

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("exploration interrupted after %d states: %w", len(sp.states), err)
		}

		state := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, ok := sp.index[state.key]; ok {
			continue
		}

		if e.maxStates > 0 && len(sp.states) >= e.maxStates {
			return fmt.Errorf("%w: more than %d states", domain.ErrStateLimit, e.maxStates)
		}
		sp.add(state)
		if e.hooks.OnState != nil {
			e.hooks.OnState(ctx, &domain.StateEvent{
				Type:  domain.EventStateDiscovered,
				Key:   state.key,
				Count: len(sp.states),
			})
		}
		if e.progress > 0 && len(sp.states)%e.progress == 0 {
			e.logger.Debug("exploring state space", "states", len(sp.states), "pending", len(pending))
		}

		transitions, err := e.expand(ctx, state)
		if err != nil {
			return err
		}
		sp.transitions[state.key] = transitions
		for i := len(transitions) - 1; i >= 0; i-- {
			pending = append(pending, transitions[i].Target)
		}
	}
	return nil
}

func (e *explorer) expand(ctx context.Context, state *SetState) ([]Transition, error) {
	transitions, err := state.NextTransitions()
	if err != nil {
		e.logger.Error("exploration aborted", "state", state.String(), "error", err)
		return nil, err
	}
	if e.hooks.OnTransition != nil {
		for _, t := range transitions {
			e.hooks.OnTransition(ctx, &domain.TransitionEvent{
				Type:    domain.EventTransition,
				Process: t.Process.Mnemonic(),
				Edge:    t.Edge.String(),
			})
		}
	}
	return transitions, nil
}

func (sp *StateSpace) add(state *SetState) {
	sp.index[state.key] = len(sp.states)
	sp.states = append(sp.states, state)
	for _, p := range sp.set.processes {
		node := state.Node(p)
		key := localKey(p, node)
		if _, seen := sp.byLocal[key]; !seen {
			sp.active[p] = append(sp.active[p], node)
		}
		sp.byLocal[key] = append(sp.byLocal[key], state)
	}
}

// Set returns the explored process set.
func (sp *StateSpace) Set() *Set { return sp.set }

// Processes returns the processes of the explored set.
func (sp *StateSpace) Processes() []*Process { return sp.set.Processes() }

// Start returns the state exploration began from.
func (sp *StateSpace) Start() *SetState { return sp.start }

// States returns every reachable state in discovery order.
func (sp *StateSpace) States() []*SetState {
	return append([]*SetState(nil), sp.states...)
}

// Len is the number of reachable states.
func (sp *StateSpace) Len() int { return len(sp.states) }

// Contains reports whether state is part of the space.
func (sp *StateSpace) Contains(state *SetState) bool {
	_, ok := sp.index[state.key]
	return ok
}

// Transitions returns the enabled transitions of a state in the space.
func (sp *StateSpace) Transitions(state *SetState) []Transition {
	return append([]Transition(nil), sp.transitions[state.key]...)
}

// MatchStates returns every global state in which p is at node.
func (sp *StateSpace) MatchStates(p *Process, node domain.Node) []*SetState {
	return append([]*SetState(nil), sp.byLocal[localKey(p, node)]...)
}

// ActiveNodes returns the local states of p observed in the space, in
// discovery order.
func (sp *StateSpace) ActiveNodes(p *Process) []domain.Node {
	return append([]domain.Node(nil), sp.active[p]...)
}
