package domain

import "context"

// EventType defines the category of an analysis event.
type EventType string

const (
	EventStateDiscovered EventType = "state_discovered"
	EventTransition      EventType = "transition"
	EventFixpoint        EventType = "fixpoint"
)

// StateEvent is emitted for every global state added to a state space.
type StateEvent struct {
	Type  EventType `json:"type"`
	Key   string    `json:"key"`
	Count int       `json:"count"`
}

// TransitionEvent is emitted for every enabled global transition.
type TransitionEvent struct {
	Type    EventType `json:"type"`
	Process string    `json:"process"`
	Edge    string    `json:"edge"`
}

// FixpointEvent is emitted when an iterate-to-convergence loop finishes.
type FixpointEvent struct {
	Type       EventType `json:"type"`
	Loop       string    `json:"loop"`
	Iterations int       `json:"iterations"`
}

// LifecycleHooks defines callbacks for analysis observability.
type LifecycleHooks struct {
	OnState      func(context.Context, *StateEvent)
	OnTransition func(context.Context, *TransitionEvent)
	OnFixpoint   func(context.Context, *FixpointEvent)
}
