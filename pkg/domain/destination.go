package domain

import "strings"

// Participant is anything that can send or receive messages.
type Participant interface {
	Mnemonic() string
}

// Destination selects the participants an envelope is delivered to.
// inResponseTo is the origin of the message that triggered the sending
// transition, or nil for spontaneous transitions.
type Destination interface {
	Mnemonic() string
	Matches(p Participant, inResponseTo Participant) bool
}

// ProcessDestination addresses a single participant by mnemonic.
type ProcessDestination struct {
	name string
}

// To addresses the participant with the given mnemonic.
func To(name string) ProcessDestination {
	return ProcessDestination{name: name}
}

func (d ProcessDestination) Mnemonic() string { return d.name }
func (d ProcessDestination) String() string   { return d.name }

func (d ProcessDestination) Matches(p Participant, _ Participant) bool {
	return p != nil && p.Mnemonic() == d.name
}

// GroupDestination matches every participant matched by any of its members.
type GroupDestination struct {
	members []Destination
}

// Group creates a destination matching any of the given members.
func Group(members ...Destination) GroupDestination {
	copied := make([]Destination, len(members))
	copy(copied, members)
	return GroupDestination{members: copied}
}

// Members returns the group members.
func (d GroupDestination) Members() []Destination {
	members := make([]Destination, len(d.members))
	copy(members, d.members)
	return members
}

func (d GroupDestination) Mnemonic() string {
	names := make([]string, len(d.members))
	for i, member := range d.members {
		names[i] = member.Mnemonic()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func (d GroupDestination) String() string { return d.Mnemonic() }

func (d GroupDestination) Matches(p Participant, inResponseTo Participant) bool {
	for _, member := range d.members {
		if member.Matches(p, inResponseTo) {
			return true
		}
	}
	return false
}

// ResponseDestination addresses the origin of the triggering message.
type ResponseDestination struct{}

// Response replies to whoever sent the message consumed by the transition.
func Response() ResponseDestination { return ResponseDestination{} }

func (ResponseDestination) Mnemonic() string { return "%RESPONSE%" }
func (ResponseDestination) String() string   { return "%RESPONSE%" }

func (ResponseDestination) Matches(p Participant, inResponseTo Participant) bool {
	return p != nil && inResponseTo != nil && p.Mnemonic() == inResponseTo.Mnemonic()
}

// ProductResponseDestination addresses the participant behind the advanced
// slot of a product trigger. It matches nothing until an outbound mapping
// rewrites it into a concrete destination.
type ProductResponseDestination struct{}

// ProductResponse replies through the sender's product outbound mapping.
func ProductResponse() ProductResponseDestination { return ProductResponseDestination{} }

func (ProductResponseDestination) Mnemonic() string { return "%PRODUCT_RESPONSE%" }
func (ProductResponseDestination) String() string   { return "%PRODUCT_RESPONSE%" }

func (ProductResponseDestination) Matches(Participant, Participant) bool { return false }
