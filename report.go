package interleave

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/interleave/pkg/analysis"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
)

// LocalState is a process at one of its nodes.
type LocalState struct {
	Process string `json:"process"`
	Node    string `json:"node"`
}

// TransitionRef is an edge taken by a process.
type TransitionRef struct {
	Process string `json:"process"`
	Edge    string `json:"edge"`
}

// ProcessSummary describes one process of the analyzed set.
type ProcessSummary struct {
	Name   string   `json:"name"`
	Entry  string   `json:"entry"`
	Nodes  []string `json:"nodes"`
	Active []string `json:"active"`
}

// InvariantSummary is a non trivial invariant: whenever Process is at Node,
// Other is at a node matching Pattern.
type InvariantSummary struct {
	Process  string   `json:"process"`
	Node     string   `json:"node"`
	Other    string   `json:"other"`
	Pattern  string   `json:"pattern"`
	Observed []string `json:"observed"`
}

// ConcurrentSpace lists, for a local state, the nodes of every process that
// may be active alongside it.
type ConcurrentSpace struct {
	Process    string              `json:"process"`
	Node       string              `json:"node"`
	Concurrent map[string][]string `json:"concurrent"`
}

// Report aggregates the results of Analyze.
type Report struct {
	Model       string             `json:"model,omitempty"`
	Digest      string             `json:"digest,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
	Duration    time.Duration      `json:"duration"`
	States      int                `json:"states"`
	Transitions int                `json:"transitions"`
	Processes   []ProcessSummary   `json:"processes"`
	Segments    [][]LocalState     `json:"segments"`
	Invariants  []InvariantSummary `json:"invariants"`
	Groups      [][]TransitionRef  `json:"concurrent_groups"`
	Spaces      []ConcurrentSpace  `json:"concurrent_spaces,omitempty"`
}

func newReport(name string, space *process.StateSpace) *Report {
	r := &Report{
		Model:       name,
		GeneratedAt: time.Now().UTC(),
		States:      space.Len(),
		Processes:   []ProcessSummary{},
		Segments:    [][]LocalState{},
		Invariants:  []InvariantSummary{},
		Groups:      [][]TransitionRef{},
	}
	for _, st := range space.States() {
		r.Transitions += len(space.Transitions(st))
	}
	for _, p := range space.Processes() {
		r.Processes = append(r.Processes, ProcessSummary{
			Name:   p.Mnemonic(),
			Entry:  p.Entry().Mnemonic(),
			Nodes:  nodeNames(p.Nodes()),
			Active: nodeNames(space.ActiveNodes(p)),
		})
	}
	return r
}

func (r *Report) addSegments(segments []*analysis.Segment) {
	for _, seg := range segments {
		members := seg.Members()
		out := make([]LocalState, len(members))
		for i, pn := range members {
			out[i] = LocalState{Process: pn.Process.Mnemonic(), Node: pn.Node.Mnemonic()}
		}
		r.Segments = append(r.Segments, out)
	}
}

func (r *Report) addInvariants(space *process.StateSpace) error {
	for _, p := range space.Processes() {
		for _, node := range space.ActiveNodes(p) {
			for _, q := range space.Processes() {
				if p == q {
					continue
				}
				inv, err := space.DeriveInvariant(p, node, q)
				if err != nil {
					return err
				}
				if inv.Empty() || inv.Trivial() {
					continue
				}
				r.Invariants = append(r.Invariants, InvariantSummary{
					Process:  p.Mnemonic(),
					Node:     node.Mnemonic(),
					Other:    q.Mnemonic(),
					Pattern:  inv.Pattern().Mnemonic(),
					Observed: nodeNames(inv.Set()),
				})
			}
		}
	}
	return nil
}

func (r *Report) addGroups(groups [][]analysis.EdgeRef) {
	for _, group := range groups {
		out := make([]TransitionRef, len(group))
		for i, ref := range group {
			out[i] = TransitionRef{Process: ref.Process.Mnemonic(), Edge: ref.Edge.String()}
		}
		r.Groups = append(r.Groups, out)
	}
}

func (r *Report) addConcurrentSpace(set *process.Set, p *process.Process, node domain.Node, space map[*process.Process][]domain.Node) {
	cs := ConcurrentSpace{
		Process:    p.Mnemonic(),
		Node:       node.Mnemonic(),
		Concurrent: make(map[string][]string, len(space)),
	}
	for _, q := range set.Processes() {
		if q != p {
			cs.Concurrent[q.Mnemonic()] = nodeNames(space[q])
		}
	}
	r.Spaces = append(r.Spaces, cs)
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Markdown renders the report for humans.
func (r *Report) Markdown() string {
	var sb strings.Builder
	title := r.Model
	if title == "" {
		title = "model"
	}
	fmt.Fprintf(&sb, "# Analysis of %s\n\n", title)
	fmt.Fprintf(&sb, "- Reachable states: **%d**\n", r.States)
	fmt.Fprintf(&sb, "- Transitions: **%d**\n", r.Transitions)
	fmt.Fprintf(&sb, "- Processes: **%d**\n\n", len(r.Processes))

	sb.WriteString("## Processes\n\n")
	sb.WriteString("| Process | Entry | Nodes | Active |\n|---|---|---|---|\n")
	for _, p := range r.Processes {
		fmt.Fprintf(&sb, "| %s | `%s` | %d | %d |\n", p.Name, p.Entry, len(p.Nodes), len(p.Active))
	}

	sb.WriteString("\n## Mutual exclusion segments\n\n")
	if len(r.Segments) == 0 {
		sb.WriteString("No segments: every pair of active local states co-occurs.\n")
	}
	for i, seg := range r.Segments {
		parts := make([]string, len(seg))
		for j, ls := range seg {
			parts[j] = fmt.Sprintf("`%s@%s`", ls.Process, ls.Node)
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, strings.Join(parts, ", "))
	}

	sb.WriteString("\n## Invariants\n\n")
	if len(r.Invariants) == 0 {
		sb.WriteString("No non-trivial invariants.\n")
	}
	for _, inv := range r.Invariants {
		fmt.Fprintf(&sb, "- %s at `%s` ⇒ %s matches `%s`\n", inv.Process, inv.Node, inv.Other, inv.Pattern)
	}

	sb.WriteString("\n## Concurrent transition groups\n\n")
	if len(r.Groups) == 0 {
		sb.WriteString("No concurrent transitions.\n")
	}
	for i, group := range r.Groups {
		parts := make([]string, len(group))
		for j, ref := range group {
			parts[j] = fmt.Sprintf("%s `%s`", ref.Process, ref.Edge)
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, strings.Join(parts, " ∥ "))
	}

	if len(r.Spaces) > 0 {
		sb.WriteString("\n## Static concurrent spaces\n\n")
		for _, cs := range r.Spaces {
			fmt.Fprintf(&sb, "- %s at `%s`:", cs.Process, cs.Node)
			for _, p := range r.Processes {
				nodes, ok := cs.Concurrent[p.Name]
				if !ok {
					continue
				}
				fmt.Fprintf(&sb, " %s {%s};", p.Name, strings.Join(nodes, "; "))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func nodeNames(nodes []domain.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Mnemonic()
	}
	return out
}
