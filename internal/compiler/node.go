package compiler

import (
	"fmt"
	"strings"

	"github.com/espalier-dev/espalier/pkg/domain"
)

// compileNode emits the block of one flow node into the given file unit.
// Nodes already compiled elsewhere are skipped; later references reach them
// by label.
func (c *compilation) compileNode(n *domain.Node, unit *FileUnit) error {
	if c.compiled[n.ID] {
		return nil
	}
	c.compiled[n.ID] = true

	if n.Kind == domain.KindOther {
		c.diag(unit, n.ID, "", fmt.Sprintf("Type %q of model %s is not supported", n.Type, n.ID))
		return nil
	}

	label, err := c.labelFor(n)
	if err != nil {
		return err
	}
	d, msgs := c.directives.Parse(n.Directives)
	for _, m := range msgs {
		c.diag(unit, n.ID, label, m)
	}

	lines := []string{fmt.Sprintf("label %s:", label)}
	lines = append(lines, c.commentLines(n)...)

	var content, tail []string
	switch n.Kind {
	case domain.KindDialogue:
		content = c.dialogueContent(n, d, unit, label)
	case domain.KindRaw:
		content = c.rawContent(n, d, unit, label)
	case domain.KindInstruction:
		for _, stmt := range Instructions(n.Expression) {
			content = append(content, indent+"$ "+stmt)
		}
	case domain.KindCondition:
		tail, err = c.conditionTail(n, unit, label)
	case domain.KindJump:
		tail, err = c.jumpTail(n, unit, label)
	case domain.KindContainer, domain.KindHub:
		// no content of their own, only the control-flow tail
	}
	if err != nil {
		return err
	}

	// An entry condition on the input pin guards the node's content; the
	// control flow below stays unconditional.
	if cond := entryCondition(n); cond != "" && len(content) > 0 {
		content = wrapIf(cond, content)
	}
	lines = append(lines, content...)

	if tail == nil {
		tail, err = c.jumpLogic(n, d, unit, label)
		if err != nil {
			return err
		}
	}
	lines = append(lines, tail...)

	unit.Blocks = append(unit.Blocks, &Block{Label: label, NodeID: n.ID, Lines: lines})
	return nil
}

func (c *compilation) dialogueContent(n *domain.Node, d Directives, unit *FileUnit, label string) []string {
	speaker := c.speakerToken(n, d, unit, label)
	var content []string
	for _, line := range c.renderer.DialogueLines(n.Text, d.Markdown) {
		content = append(content, sayLine(speaker, d, line))
	}
	return content
}

func (c *compilation) rawContent(n *domain.Node, d Directives, unit *FileUnit, label string) []string {
	var content []string
	// A box reached through a menu first repeats its choice text as a say
	// line, so the player sees what they picked.
	if n.MenuText != "" && d.RepeatMenuText {
		speaker := c.speakerToken(n, d, unit, label)
		for _, line := range c.renderer.DialogueLines(n.MenuText, d.Markdown) {
			content = append(content, sayLine(speaker, d, line))
		}
	}
	raw, notes := c.renderer.RawLines(n.Text, unit.Dir, d.BracesImg)
	for _, note := range notes {
		c.diag(unit, n.ID, label, note.Message)
	}
	for _, line := range raw {
		content = append(content, indent+line)
	}
	return content
}

// conditionTail renders the two-way branch of a condition node: the first
// output pin is the true path, the second the false path.
func (c *compilation) conditionTail(n *domain.Node, unit *FileUnit, label string) ([]string, error) {
	expr := ConvertExpression(singleLine(n.Expression))
	if expr == "" {
		expr = "True"
	}
	lines := []string{indent + "if " + expr + ":"}
	branch := func(pinIdx int) error {
		var edges []domain.Edge
		if pinIdx < len(n.OutputPins) {
			edges = dedupeEdges(c.graph.PinEdges(&n.OutputPins[pinIdx]))
		}
		if len(edges) == 0 {
			c.diag(unit, n.ID, label, c.danglingMessage())
			lines = append(lines, indent+indent+"jump "+c.set.EndLabel)
			return nil
		}
		target, ok := c.graph.Node(edges[0].Target)
		if !ok {
			c.diag(unit, n.ID, label, c.danglingMessage())
			lines = append(lines, indent+indent+"jump "+c.set.EndLabel)
			return nil
		}
		t, err := c.labelFor(target)
		if err != nil {
			return err
		}
		lines = append(lines, indent+indent+"jump "+t)
		return nil
	}
	if err := branch(0); err != nil {
		return nil, err
	}
	lines = append(lines, indent+"else:")
	if err := branch(1); err != nil {
		return nil, err
	}
	return lines, nil
}

// jumpTail renders an explicit jump node, redirecting to its target's label.
func (c *compilation) jumpTail(n *domain.Node, unit *FileUnit, label string) ([]string, error) {
	target, ok := c.graph.Node(n.Target)
	if !ok {
		c.diag(unit, n.ID, label, c.danglingMessage())
		return []string{indent + "jump " + c.set.EndLabel}, nil
	}
	t, err := c.labelFor(target)
	if err != nil {
		return nil, err
	}
	return []string{indent + "jump " + t}, nil
}

// speakerToken resolves the token placed before the quoted text of a say
// line: a literal quoted name from the speaker directive, the character
// variable of the referenced entity, or nothing for narration.
func (c *compilation) speakerToken(n *domain.Node, d Directives, unit *FileUnit, label string) string {
	if d.Speaker != "" {
		return `"` + Escape(d.Speaker) + `"`
	}
	if n.Speaker == "" {
		return ""
	}
	if token, ok := c.characters[n.Speaker]; ok {
		return token
	}
	c.diag(unit, n.ID, label, fmt.Sprintf("speaker %s is not a known character entity", n.Speaker))
	return ""
}

// sayLine assembles one say statement from its optional parts, single
// spaces between them.
func sayLine(speaker string, d Directives, text string) string {
	parts := make([]string, 0, 4)
	if speaker != "" {
		parts = append(parts, speaker)
	}
	if d.Before != "" {
		parts = append(parts, d.Before)
	}
	parts = append(parts, `"`+text+`"`)
	if d.After != "" {
		parts = append(parts, d.After)
	}
	return indent + strings.Join(parts, " ")
}

// commentLines echoes the node's metadata as comments under the label: the
// technical type, then the fields worth keeping visible in the script.
func (c *compilation) commentLines(n *domain.Node) []string {
	lines := []string{indent + "# " + n.Type}
	echo := func(field string) {
		for _, l := range splitFieldLines(field) {
			if l != "" {
				lines = append(lines, indent+"# "+l)
			}
		}
	}
	switch n.Kind {
	case domain.KindCondition, domain.KindInstruction:
		echo(n.Directives)
	case domain.KindDialogue, domain.KindRaw:
		echo(n.DisplayName)
		echo(n.Directives)
	default:
		echo(n.DisplayName)
		echo(n.Directives)
		echo(n.Text)
	}
	return lines
}

// entryCondition returns the converted entry condition of the node's input
// pin, empty when there is none.
func entryCondition(n *domain.Node) string {
	if len(n.InputPins) == 0 {
		return ""
	}
	text := singleLine(n.InputPins[0].Text)
	if text == "" {
		return ""
	}
	return ConvertExpression(text)
}

// wrapIf indents the content one level under an if clause.
func wrapIf(cond string, content []string) []string {
	lines := make([]string, 0, len(content)+1)
	lines = append(lines, indent+"if "+cond+":")
	for _, l := range content {
		lines = append(lines, indent+l)
	}
	return lines
}
