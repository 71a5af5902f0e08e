package validator

import (
	"fmt"
	"sort"

	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
)

// Severity ranks an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a problem found in a model before exploring it.
type Issue struct {
	Severity Severity
	Process  string
	Node     string
	Detail   string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s@%s: %s", i.Severity, i.Process, i.Node, i.Detail)
}

// ValidateSet crawls every process graph and reports:
// - envelopes addressed to processes missing from the set (error)
// - nodes without outgoing edges (warning)
// - triggers no action ever sends (warning)
// - messages sent but never consumed (warning)
func ValidateSet(set *process.Set) []Issue {
	var issues []Issue

	names := make(map[string]bool)
	for _, p := range set.Processes() {
		names[p.Mnemonic()] = true
	}

	sent := make(map[string]bool)
	consumed := make(map[string]bool)
	senders := make(map[string]Issue)

	// 1. Crawl
	for _, p := range set.Processes() {
		for _, node := range p.Nodes() {
			at := Issue{Process: p.Mnemonic(), Node: node.Mnemonic()}
			edges := node.Edges()
			if len(edges) == 0 {
				issues = append(issues, with(at, SeverityWarning, "node has no outgoing edges"))
			}
			for _, e := range edges {
				switch m := e.Trigger.(type) {
				case *domain.SimpleMessage:
					consumed[m.Mnemonic()] = true
				case *domain.ProductMessage:
					for _, part := range m.Parts() {
						consumed[domain.MessageMnemonic(part)] = true
					}
				}
				if e.Action == nil {
					continue
				}
				for _, env := range e.Action.Envelopes() {
					name := domain.MessageMnemonic(env.Message)
					sent[name] = true
					if _, ok := senders[name]; !ok {
						senders[name] = at
					}
					for _, target := range unresolved(env.Destination, names) {
						issues = append(issues, with(at, SeverityError,
							fmt.Sprintf("action %s sends %s to unknown process %s", e.Action.Mnemonic(), name, target)))
					}
				}
			}
		}
	}

	// 2. Dead triggers
	for _, p := range set.Processes() {
		for _, node := range p.Nodes() {
			for _, e := range node.Edges() {
				m, ok := e.Trigger.(*domain.SimpleMessage)
				if ok && !sent[m.Mnemonic()] {
					at := Issue{Process: p.Mnemonic(), Node: node.Mnemonic()}
					issues = append(issues, with(at, SeverityWarning,
						fmt.Sprintf("trigger %s is never sent", m.Mnemonic())))
				}
			}
		}
	}

	// 3. Unconsumed messages
	unconsumed := make([]string, 0)
	for name := range sent {
		if !consumed[name] {
			unconsumed = append(unconsumed, name)
		}
	}
	sort.Strings(unconsumed)
	for _, name := range unconsumed {
		issues = append(issues, with(senders[name], SeverityWarning,
			fmt.Sprintf("message %s is never consumed", name)))
	}

	return dedupe(issues)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func with(at Issue, severity Severity, detail string) Issue {
	at.Severity = severity
	at.Detail = detail
	return at
}

func unresolved(dest domain.Destination, names map[string]bool) []string {
	switch d := dest.(type) {
	case domain.ProcessDestination:
		if !names[d.Mnemonic()] {
			return []string{d.Mnemonic()}
		}
	case domain.GroupDestination:
		var out []string
		for _, m := range d.Members() {
			out = append(out, unresolved(m, names)...)
		}
		return out
	}
	return nil
}

func dedupe(issues []Issue) []Issue {
	seen := make(map[Issue]bool, len(issues))
	out := issues[:0]
	for _, i := range issues {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out
}
