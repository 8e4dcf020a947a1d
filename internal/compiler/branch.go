package compiler

import (
	"fmt"
	"sort"

	"github.com/espalier-dev/espalier/pkg/domain"
)

// jumpLogic renders the control-flow tail of a block: a plain jump for a
// single outgoing connection, a menu for several, or the end-label fallback
// when the node leads nowhere.
func (c *compilation) jumpLogic(n *domain.Node, d Directives, unit *FileUnit, label string) ([]string, error) {
	if len(n.InputPins) == 0 && len(n.OutputPins) == 0 {
		c.diag(unit, n.ID, label, "has no pins in Articy, no jump will be generated")
		return nil, nil
	}

	edges := dedupeEdges(c.graph.Outgoing(n))
	if len(edges) == 0 {
		c.diag(unit, n.ID, label, c.danglingMessage())
		return []string{indent + "jump " + c.set.EndLabel}, nil
	}
	if len(edges) == 1 {
		return c.singleJump(edges[0], unit, n, label)
	}
	return c.menu(edges, d, unit, n, label)
}

func (c *compilation) singleJump(e domain.Edge, unit *FileUnit, n *domain.Node, label string) ([]string, error) {
	var lines []string
	for _, stmt := range Instructions(e.Instruction) {
		lines = append(lines, indent+"$ "+stmt)
	}
	target, ok := c.graph.Node(e.Target)
	if !ok {
		c.diag(unit, n.ID, label, c.danglingMessage())
		return append(lines, indent+"jump "+c.set.EndLabel), nil
	}
	t, err := c.labelFor(target)
	if err != nil {
		return nil, err
	}
	return append(lines, indent+"jump "+t), nil
}

type menuEntry struct {
	text      string
	condition string
	label     string
	index     int
	hasIndex  bool
}

func (c *compilation) menu(edges []domain.Edge, d Directives, unit *FileUnit, n *domain.Node, label string) ([]string, error) {
	var entries []menuEntry
	for _, e := range edges {
		target, ok := c.graph.Node(e.Target)
		if !ok {
			c.diag(unit, n.ID, label, fmt.Sprintf("menu branch targets unknown model %s", e.Target))
			continue
		}
		text, err := c.choiceText(e, target, d)
		if err != nil {
			return nil, err
		}
		t, err := c.labelFor(target)
		if err != nil {
			return nil, err
		}
		td, _ := c.directives.Parse(target.Directives)
		entries = append(entries, menuEntry{
			text:      text,
			condition: ConvertExpression(singleLine(e.Condition)),
			label:     t,
			index:     td.ChoiceIndex,
			hasIndex:  td.HasChoiceIndex,
		})
	}
	if len(entries) == 0 {
		c.diag(unit, n.ID, label, c.danglingMessage())
		return []string{indent + "jump " + c.set.EndLabel}, nil
	}

	// Explicitly indexed choices come first in index order; the rest keep
	// their discovery order behind them.
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.hasIndex != b.hasIndex {
			return a.hasIndex
		}
		if a.hasIndex {
			return a.index < b.index
		}
		return false
	})

	lines := []string{indent + "menu:"}
	if d.DisplayTextBox {
		// Keeps the dialogue window visible behind the choices.
		lines = append(lines, indent+indent+`extend ""`, "")
	}
	for _, en := range entries {
		choice := indent + indent + `"` + en.text + `"`
		if en.condition != "" {
			choice += " if " + en.condition
		}
		lines = append(lines, choice+":", indent+indent+indent+"jump "+en.label)
	}
	return lines, nil
}

// choiceText resolves the text shown for one menu entry: the target's menu
// text, else the connection's own label, else the target's full text. A
// choice without any of the three is a hard authoring error.
func (c *compilation) choiceText(e domain.Edge, target *domain.Node, d Directives) (string, error) {
	text := target.MenuText
	if text == "" {
		text = e.Label
	}
	if text == "" {
		text = target.Text
	}
	if text == "" {
		return "", &domain.CompileError{NodeID: target.ID, Reason: "no text usable as a menu choice"}
	}
	text = Escape(singleLine(text))
	if d.Markdown {
		text = Emphasis(text)
	}
	return text, nil
}

func (c *compilation) danglingMessage() string {
	return fmt.Sprintf("was not assigned any jump target in Articy, will jump to %q", c.set.EndLabel)
}

// dedupeEdges drops repeated edges to the same target, keeping first
// occurrences in order.
func dedupeEdges(edges []domain.Edge) []domain.Edge {
	seen := make(map[string]bool, len(edges))
	out := make([]domain.Edge, 0, len(edges))
	for _, e := range edges {
		if seen[e.Target] {
			continue
		}
		seen[e.Target] = true
		out = append(out, e)
	}
	return out
}
