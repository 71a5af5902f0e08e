package domain

// Edge is a transition between two nodes of the same state machine.
// Identity is (source, target, trigger); the action is not part of it.
type Edge struct {
	Source  Node
	Target  Node
	Trigger Message // nil for spontaneous edges
	Action  *Action
	// Slot is the product component advanced by this edge, or -1.
	Slot int
}

// Spontaneous reports whether the edge fires without consuming a message.
func (e *Edge) Spontaneous() bool { return e.Trigger == nil }

// Key identifies the edge among all edges of a model.
func (e *Edge) Key() string {
	return e.Source.Mnemonic() + "\x1f" + edgeKey(e.Target, e.Trigger)
}

func (e *Edge) String() string {
	if e.Trigger != nil {
		return "(" + e.Source.Mnemonic() + " -> " + e.Target.Mnemonic() + " on " + e.Trigger.Mnemonic() + ")"
	}
	return "(" + e.Source.Mnemonic() + " -> " + e.Target.Mnemonic() + ")"
}

// SameEdge reports whether a and b denote the same transition.
func SameEdge(a, b *Edge) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}
