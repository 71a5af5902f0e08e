package modelfile

// ModelFile is the on-disk description of a process set.
// It uses "mapstructure" tags so YAML and JSON documents decode the same way.
type ModelFile struct {
	// ID is the document id some stores attach; it is informational.
	ID          string                `json:"id,omitempty" mapstructure:"id"`
	Name        string                `json:"name" mapstructure:"name"`
	Description string                `json:"description" mapstructure:"description"`
	Actions     map[string]ActionSpec `json:"actions" mapstructure:"actions"`
	Nodes       []NodeSpec            `json:"nodes" mapstructure:"nodes"`
	Processes   []ProcessSpec         `json:"processes" mapstructure:"processes"`
}

// ActionSpec lists the envelopes an action emits.
type ActionSpec struct {
	Send []EnvelopeSpec `json:"send" mapstructure:"send"`
}

// EnvelopeSpec addresses a message. A single recipient may be a process name,
// %RESPONSE% or %PRODUCT_RESPONSE%; several recipients form a group.
type EnvelopeSpec struct {
	To      []string `json:"to" mapstructure:"to"`
	Message string   `json:"message" mapstructure:"message"`
}

// NodeSpec declares a node and its outgoing edges.
type NodeSpec struct {
	ID      string       `json:"id" mapstructure:"id"`
	Product *ProductSpec `json:"product,omitempty" mapstructure:"product"`
	Derived *DerivedSpec `json:"derived,omitempty" mapstructure:"derived"`
	Edges   []EdgeSpec   `json:"edges" mapstructure:"edges"`
}

// ProductSpec composes a node from component nodes.
type ProductSpec struct {
	Empty      string   `json:"empty" mapstructure:"empty"`
	Components []string `json:"components" mapstructure:"components"`
}

// DerivedSpec wraps a base node under a mnemonic prefix.
type DerivedSpec struct {
	Prefix string `json:"prefix" mapstructure:"prefix"`
	Base   string `json:"base" mapstructure:"base"`
}

// EdgeSpec is one outgoing edge. An empty To loops back to the node; an empty
// Trigger makes the edge spontaneous. When restricts edges of derived nodes
// to one base.
type EdgeSpec struct {
	Trigger string `json:"trigger" mapstructure:"trigger"`
	To      string `json:"to" mapstructure:"to"`
	Action  string `json:"action" mapstructure:"action"`
	When    string `json:"when" mapstructure:"when"`
}

// ProcessSpec places a process at its entry node.
type ProcessSpec struct {
	Name    string       `json:"name" mapstructure:"name"`
	Entry   string       `json:"entry" mapstructure:"entry"`
	Product *ProductPeer `json:"product,omitempty" mapstructure:"product"`
}

// ProductPeer installs product mappings: messages from the i-th peer arrive
// in slot i, and product responses go back to the peer owning the set slot.
type ProductPeer struct {
	Peers []string `json:"peers" mapstructure:"peers"`
	Empty string   `json:"empty" mapstructure:"empty"`
}

// modelHeader is the part of a document the loader lists models by.
// Documents that place no process are not models.
type modelHeader struct {
	Name      string `json:"name" mapstructure:"name"`
	Processes []any  `json:"processes" mapstructure:"processes"`
}
