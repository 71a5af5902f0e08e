package domain

import "strings"

// Envelope is a message paired with where it should go.
type Envelope struct {
	Destination Destination
	Message     Message
}

// Send builds an envelope.
func Send(destination Destination, message Message) Envelope {
	return Envelope{Destination: destination, Message: message}
}

func (e Envelope) String() string {
	return "[" + e.Destination.Mnemonic() + ": " + MessageMnemonic(e.Message) + "]"
}

// Action is the payload attached to a transition.
// Its mnemonic is its identity; the envelopes are what it sends when fired.
type Action struct {
	name      string
	envelopes []Envelope
}

// NewAction creates an immutable action.
func NewAction(name string, envelopes ...Envelope) *Action {
	copied := make([]Envelope, len(envelopes))
	copy(copied, envelopes)
	return &Action{name: name, envelopes: copied}
}

// Mnemonic returns the action name. A nil action has an empty mnemonic.
func (a *Action) Mnemonic() string {
	if a == nil {
		return ""
	}
	return a.name
}

// Envelopes returns a copy of the outbound envelopes.
func (a *Action) Envelopes() []Envelope {
	if a == nil {
		return nil
	}
	envelopes := make([]Envelope, len(a.envelopes))
	copy(envelopes, a.envelopes)
	return envelopes
}

func (a *Action) String() string {
	if a == nil {
		return ""
	}
	if len(a.envelopes) == 0 {
		return a.name
	}
	parts := make([]string, len(a.envelopes))
	for i, env := range a.envelopes {
		parts[i] = env.String()
	}
	return a.name + " " + strings.Join(parts, " ")
}
