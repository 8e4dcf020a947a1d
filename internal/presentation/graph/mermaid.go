// Package graph renders a flow graph as a Mermaid flowchart, one subgraph
// per flow container. The chart is a review aid: it shows the wiring the
// compiler will turn into jumps, before any script is written.
package graph

import (
	"fmt"
	"strings"

	"github.com/espalier-dev/espalier/pkg/domain"
)

// Mermaid produces Mermaid flowchart syntax for the whole graph.
// Node shapes follow the node kind:
//   - Hub: ((circle))
//   - Condition: {rhombus}
//   - Instruction and raw code: [[subroutine]]
//   - Jump: [/parallelogram/]
//   - Dialogue and anything else: [rectangle]
//
// Edges that cross container boundaries are drawn dotted, mirroring the
// jump the compiler will emit instead of inlining the target.
func Mermaid(g *domain.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, rootID := range g.Roots {
		if root, ok := g.Node(rootID); ok {
			writeContainer(&sb, g, root, 1)
		}
	}

	for _, n := range g.Nodes {
		writeEdges(&sb, g, n)
	}

	sb.WriteString("\n    classDef condition fill:#fff3e0,stroke:#e65100,color:#000;\n")
	sb.WriteString("    classDef code fill:#eceff1,stroke:#455a64,color:#000;\n")
	for _, n := range g.Nodes {
		switch n.Kind {
		case domain.KindCondition:
			fmt.Fprintf(&sb, "    class %s condition;\n", sanitizeID(n.ID))
		case domain.KindRaw, domain.KindInstruction:
			fmt.Fprintf(&sb, "    class %s code;\n", sanitizeID(n.ID))
		}
	}
	return sb.String()
}

func writeContainer(sb *strings.Builder, g *domain.Graph, c *domain.Node, depth int) {
	pad := strings.Repeat("    ", depth)
	fmt.Fprintf(sb, "%ssubgraph %s[\"%s\"]\n", pad, sanitizeID(c.ID), nodeText(c))
	for _, child := range g.ChildrenOf(c.ID) {
		if child.Kind == domain.KindContainer {
			writeContainer(sb, g, child, depth+1)
			continue
		}
		opener, closer := shape(child.Kind)
		fmt.Fprintf(sb, "%s    %s%s\"%s\"%s\n", pad, sanitizeID(child.ID), opener, nodeText(child), closer)
	}
	fmt.Fprintf(sb, "%send\n", pad)
}

func shape(kind domain.Kind) (string, string) {
	switch kind {
	case domain.KindHub:
		return "((", "))"
	case domain.KindCondition:
		return "{", "}"
	case domain.KindInstruction, domain.KindRaw:
		return "[[", "]]"
	case domain.KindJump:
		return "[/", "/]"
	}
	return "[", "]"
}

func writeEdges(sb *strings.Builder, g *domain.Graph, n *domain.Node) {
	switch {
	case n.Kind == domain.KindCondition && len(n.OutputPins) >= 2:
		// True and false branches come out of dedicated pins.
		writeBranch(sb, g, n, &n.OutputPins[0], "true")
		writeBranch(sb, g, n, &n.OutputPins[1], "false")
	case n.Kind == domain.KindJump:
		// Jumps point at their target node directly, not through a pin.
		if n.Target != "" {
			writeArrow(sb, g, n, domain.Edge{Target: n.Target}, "")
		}
	default:
		for _, e := range g.Outgoing(n) {
			writeArrow(sb, g, n, e, e.Label)
		}
	}
}

func writeBranch(sb *strings.Builder, g *domain.Graph, n *domain.Node, pin *domain.Pin, label string) {
	for _, e := range g.PinEdges(pin) {
		writeArrow(sb, g, n, e, label)
	}
}

func writeArrow(sb *strings.Builder, g *domain.Graph, n *domain.Node, e domain.Edge, label string) {
	target, ok := g.Node(e.Target)
	if !ok {
		return
	}
	// A hop into another container, or out of one, renders dotted. The
	// container's own descent into its first child stays solid.
	dotted := target.Parent != n.Parent && target.Parent != n.ID

	arrow := "-->"
	if dotted {
		arrow = "-.->"
	}
	if label != "" {
		safe := strings.ReplaceAll(label, "\"", "'")
		if dotted {
			arrow = fmt.Sprintf("-. \"%s\" .->", safe)
		} else {
			arrow = fmt.Sprintf("-- \"%s\" -->", safe)
		}
	}
	fmt.Fprintf(sb, "    %s %s %s\n", sanitizeID(n.ID), arrow, sanitizeID(e.Target))
}

// nodeText picks a short human label for a node: display name first, then
// the node's own text, then the raw ID.
func nodeText(n *domain.Node) string {
	text := n.DisplayName
	if text == "" {
		switch n.Kind {
		case domain.KindCondition, domain.KindInstruction:
			text = n.Expression
		default:
			text = n.Text
		}
	}
	if text == "" {
		return n.ID
	}
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ReplaceAll(text, "\"", "'")
	if runes := []rune(text); len(runes) > 40 {
		text = string(runes[:40]) + "..."
	}
	return text
}

func sanitizeID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
