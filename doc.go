/*
Package interleave analyzes systems of communicating state machines.

A model is a set of processes. Each process runs a state graph and exchanges
messages with the others through per-process mailboxes. Interleave explores
every reachable global state and derives, from that state space and from the
graphs themselves:

  - mutual exclusion segments: local states of different processes that are
    never active together and can therefore share a lock scope
  - invariants: what one process is known to be doing while another sits in a
    given state, generalized into a pattern
  - concurrent transition groups: transitions of different processes that may
    fire in either order
  - static concurrent spaces: a graph based over-approximation of the above
    that does not need the full state space

# Usage

Build the graphs with pkg/dsl, assemble processes with pkg/process and run
Analyze:

	b := dsl.New()
	m := b.Message("M")
	ack := b.Message("Ack")
	b.Add("idle").Go("sent", b.Action("send", domain.Send(domain.To("B"), m)))
	b.Add("sent").On(ack, "idle", b.Action("receive"))
	b.Add("wait").On(m, "acked", b.Action("reply", domain.Send(domain.To("A"), ack)))
	b.Add("acked").Go("wait", b.Action("rearm"))
	g, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	set := process.NewSet()
	set.AddProcess("A", g.MustNode("idle"))
	set.AddProcess("B", g.MustNode("wait"))

	report, err := interleave.Analyze(ctx, set, interleave.WithName("ping-pong"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.Markdown())

Models can also be loaded from YAML with pkg/adapters/modelfile, and the
cmd/interleave CLI wraps all of the above.
*/
package interleave
