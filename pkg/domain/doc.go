/*
Package domain contains the state graph primitives shared by every other package.

A model is a set of processes, each running a local state machine built from
nodes and edges. Edges may consume a message (their trigger) and fire an
action that sends envelopes to other processes.

# Key Entities

  - Message: a simple named message or a product message with one slot per component.
  - Destination: a predicate choosing the receivers of an envelope.
  - Action: the named payload of a transition and the envelopes it sends.
  - Node: a simple node, a product of component nodes, a derived node wrapping a base, or the placeholder.
  - Edge: a (source, target, trigger, action) transition; identity ignores the action.

Nodes compare by mnemonic. Product and derived nodes compute their edges on
demand, which is why AllNodes is the only supported way to enumerate the
states of a process.
*/
package domain
