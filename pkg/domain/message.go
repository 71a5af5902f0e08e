package domain

import "strings"

// Message is a value carried between processes.
// Two messages are the same when they are of the same kind and share a mnemonic.
type Message interface {
	Mnemonic() string
	String() string
	message()
}

// SimpleMessage is a message identified only by its name.
type SimpleMessage struct {
	name string
}

// NewMessage creates a simple message.
func NewMessage(name string) *SimpleMessage {
	return &SimpleMessage{name: name}
}

func (m *SimpleMessage) Mnemonic() string { return m.name }
func (m *SimpleMessage) String() string   { return m.name }
func (m *SimpleMessage) message()         {}

// ProductMessage aggregates one sub-message per component of a product node.
// Components that did not contribute carry the empty message of the product.
type ProductMessage struct {
	parts    []Message
	mnemonic string
}

// NewProductMessage creates a product message from its parts.
func NewProductMessage(parts ...Message) *ProductMessage {
	copied := make([]Message, len(parts))
	copy(copied, parts)
	names := make([]string, len(copied))
	for i, part := range copied {
		names[i] = MessageMnemonic(part)
	}
	return &ProductMessage{
		parts:    copied,
		mnemonic: "(" + strings.Join(names, ", ") + ")",
	}
}

// Parts returns a copy of the sub-messages.
func (m *ProductMessage) Parts() []Message {
	parts := make([]Message, len(m.parts))
	copy(parts, m.parts)
	return parts
}

// Part returns the sub-message at index i.
func (m *ProductMessage) Part(i int) Message { return m.parts[i] }

// Arity is the number of components.
func (m *ProductMessage) Arity() int { return len(m.parts) }

func (m *ProductMessage) Mnemonic() string { return m.mnemonic }
func (m *ProductMessage) String() string   { return m.mnemonic }
func (m *ProductMessage) message()         {}

// MessageMnemonic returns the mnemonic of m, or the empty string for nil.
func MessageMnemonic(m Message) string {
	if m == nil {
		return ""
	}
	return m.Mnemonic()
}

// SameMessage reports whether a and b denote the same message.
// A nil message only equals another nil message.
func SameMessage(a, b Message) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a.(type) {
	case *ProductMessage:
		if _, ok := b.(*ProductMessage); !ok {
			return false
		}
	default:
		if _, ok := b.(*ProductMessage); ok {
			return false
		}
	}
	return a.Mnemonic() == b.Mnemonic()
}
