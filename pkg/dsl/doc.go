/*
Package dsl provides a fluent builder for process state graphs.

Nodes are declared by id. Simple nodes receive edges directly; product and
derived nodes are declared from previously named nodes:

	b := dsl.New()
	ack := b.Message("ack")
	send := b.Action("send", domain.Send(domain.To("B"), b.Message("m")))

	b.Add("idle").Go("sent", send)
	b.Add("sent").On(ack, "idle", b.Action("noop"))

	g, err := b.Build()

Ids may be used as edge targets before they are declared, but Build fails
with a domain.UnknownNodeError for any id that is never declared. Errors such
as duplicate edges are collected and reported together by Build, which also
freezes the graph.
*/
package dsl
