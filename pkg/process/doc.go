/*
Package process implements communicating processes and the exploration of
their global state space.

A Process runs a state graph from its entry node. Its runtime State is the
current node plus an ordered mailbox. A Set of processes defines the global
SetState, whose transition relation interleaves every enabled local step:

  - a process with a pending message that one of its edges consumes must
    take such an edge; any pending entry may be consumed
  - otherwise it may take any spontaneous edge
  - sending is blocking: while a receiver still holds an unconsumed message
    from the sender, the sending transition is disabled
  - an envelope addressed to no process aborts exploration with a
    domain.DestinationResolutionError

Explore walks this relation depth-first and returns a StateSpace indexed by
local state, from which invariants can be derived.
*/
package process
