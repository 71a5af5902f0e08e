package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/pkg/domain"
	"github.com/aretw0/interleave/pkg/process"
)

// GraphOverlay contains analysis results to visualize on the graph.
type GraphOverlay struct {
	// Segments are highlighted one color per segment.
	Segments [][]interleave.LocalState
	// Active lists, per process, the nodes reached during exploration.
	// Nodes missing from a listed process are drawn as unreachable.
	Active map[string][]string
}

// OverlayFromReport builds an overlay out of an analysis report.
func OverlayFromReport(r *interleave.Report) *GraphOverlay {
	o := &GraphOverlay{
		Segments: r.Segments,
		Active:   make(map[string][]string, len(r.Processes)),
	}
	for _, p := range r.Processes {
		o.Active[p.Name] = p.Active
	}
	return o
}

var segmentColors = []string{"#ffe0b2", "#c8e6c9", "#bbdefb", "#f8bbd0", "#d1c4e9", "#fff9c4"}

// GenerateMermaid produces a Mermaid flowchart with one subgraph per process.
// It applies semantic styling:
// - Entry: ((Circle))
// - Product: [[Subroutine]]
// - Derived: [/Parallelogram/]
// - Default: [Rectangle]
// Triggered edges are solid and labelled "trigger / action"; spontaneous edges are dotted.
func GenerateMermaid(set *process.Set, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make(map[string]string)
	for i, p := range set.Processes() {
		fmt.Fprintf(&sb, "    subgraph P%d[\"%s\"]\n", i, escape(p.Mnemonic()))
		nodes := p.Nodes()
		for j, node := range nodes {
			ids[localKey(p.Mnemonic(), node.Mnemonic())] = fmt.Sprintf("P%dN%d", i, j)
		}
		for _, node := range nodes {
			safeID := ids[localKey(p.Mnemonic(), node.Mnemonic())]
			opener, closer := "[", "]"
			switch node.(type) {
			case *domain.ProductNode:
				opener, closer = "[[", "]]" // Subroutine
			case *domain.DerivedNode:
				opener, closer = "[/", "/]" // Parallelogram
			}
			if domain.SameNode(node, p.Entry()) {
				opener, closer = "((", "))" // Circle
			}
			fmt.Fprintf(&sb, "        %s%s\"%s\"%s\n", safeID, opener, escape(node.Mnemonic()), closer)
		}
		for _, node := range nodes {
			safeID := ids[localKey(p.Mnemonic(), node.Mnemonic())]
			for _, e := range node.Edges() {
				safeTo, ok := ids[localKey(p.Mnemonic(), e.Target.Mnemonic())]
				if !ok {
					continue
				}
				label := ""
				if e.Action != nil {
					label = e.Action.Mnemonic()
				}
				if e.Spontaneous() {
					arrow := "-.->"
					if label != "" {
						arrow = fmt.Sprintf("-. \"%s\" .->", escape(label))
					}
					fmt.Fprintf(&sb, "        %s %s %s\n", safeID, arrow, safeTo)
					continue
				}
				label = e.Trigger.Mnemonic() + " / " + label
				fmt.Fprintf(&sb, "        %s -- \"%s\" --> %s\n", safeID, escape(label), safeTo)
			}
		}
		sb.WriteString("    end\n")
	}

	if overlay == nil {
		return sb.String()
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef unreachable fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4,color:#757575;\n")
	for _, p := range set.Processes() {
		active, listed := overlay.Active[p.Mnemonic()]
		if !listed {
			continue
		}
		reached := make(map[string]bool, len(active))
		for _, n := range active {
			reached[n] = true
		}
		for _, node := range p.Nodes() {
			if !reached[node.Mnemonic()] {
				fmt.Fprintf(&sb, "    class %s unreachable;\n", ids[localKey(p.Mnemonic(), node.Mnemonic())])
			}
		}
	}
	for i, segment := range overlay.Segments {
		color := segmentColors[i%len(segmentColors)]
		fmt.Fprintf(&sb, "    classDef segment%d fill:%s,stroke:#424242,stroke-width:2px,color:#000;\n", i, color)
		seen := make(map[string]bool)
		for _, ls := range segment {
			safeID, ok := ids[localKey(ls.Process, ls.Node)]
			if !ok || seen[safeID] {
				continue
			}
			seen[safeID] = true
			fmt.Fprintf(&sb, "    class %s segment%d;\n", safeID, i)
		}
	}
	return sb.String()
}

func localKey(process, node string) string {
	return process + "\x1f" + node
}

// escape replaces double quotes, which end Mermaid labels.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
