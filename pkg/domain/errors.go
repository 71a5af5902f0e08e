package domain

import (
	"errors"
	"fmt"
)

// ErrModel is wrapped by every error caused by a malformed model.
var ErrModel = errors.New("model error")

// ErrGraphFrozen is returned when edges are added after a graph has been built or traversed.
var ErrGraphFrozen = fmt.Errorf("%w: graph is frozen", ErrModel)

// ErrProcessNotFound is returned when a process is looked up by an unknown name.
var ErrProcessNotFound = errors.New("process not found")

// ErrStateLimit is returned when exploration exceeds its configured state ceiling.
var ErrStateLimit = errors.New("state space limit exceeded")

// ErrReportNotFound is returned when a report cannot be found in the store.
var ErrReportNotFound = errors.New("report not found")

// ErrModelNotFound is returned when a loader has no model under the requested name.
var ErrModelNotFound = errors.New("model not found")

// ErrNotWatchable is returned when watching a loader that cannot report changes.
var ErrNotWatchable = errors.New("loader does not support watching")

// DuplicateEdgeError reports a second edge for the same (target, trigger) pair.
type DuplicateEdgeError struct {
	Source  string
	Target  string
	Trigger string
}

func (e *DuplicateEdgeError) Error() string {
	trigger := e.Trigger
	if trigger == "" {
		trigger = "<spontaneous>"
	}
	return fmt.Sprintf("duplicate edge %s -> %s on %s", e.Source, e.Target, trigger)
}

func (e *DuplicateEdgeError) Unwrap() error { return ErrModel }

// DestinationResolutionError reports an envelope that matched no process.
type DestinationResolutionError struct {
	Process     string
	Edge        string
	Destination string
	Message     string
}

func (e *DestinationResolutionError) Error() string {
	return fmt.Sprintf("message %s for %s from %s on %s has no matching destinations",
		e.Message, e.Destination, e.Process, e.Edge)
}

func (e *DestinationResolutionError) Unwrap() error { return ErrModel }

// NonTerminationError reports a fixpoint loop that exceeded its iteration ceiling.
type NonTerminationError struct {
	Loop       string
	Iterations int
}

func (e *NonTerminationError) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations", e.Loop, e.Iterations)
}

// UnknownNodeError reports a reference to a node id that was never declared.
type UnknownNodeError struct {
	ID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %q", e.ID)
}

func (e *UnknownNodeError) Unwrap() error { return ErrModel }
