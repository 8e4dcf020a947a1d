package dsl

import "github.com/espalier-dev/espalier/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Container marks the node as a grouping container with the given display
// name. Containers map to one generated file each.
func (n *NodeBuilder) Container(name string) *NodeBuilder {
	n.node.Kind = domain.KindContainer
	n.node.Type = "FlowFragment"
	n.node.DisplayName = name
	return n
}

// Say sets the speaking entity and line of a dialogue node.
func (n *NodeBuilder) Say(speaker, text string) *NodeBuilder {
	n.node.Kind = domain.KindDialogue
	n.node.Type = "DialogueFragment"
	n.node.Speaker = speaker
	n.node.Text = text
	return n
}

// Text sets narration text (a dialogue node without a speaker).
func (n *NodeBuilder) Text(text string) *NodeBuilder {
	n.node.Kind = domain.KindDialogue
	n.node.Type = "DialogueFragment"
	n.node.Text = text
	return n
}

// MenuText overrides the text shown when this node is offered as a menu choice.
func (n *NodeBuilder) MenuText(text string) *NodeBuilder {
	n.node.MenuText = text
	return n
}

// Directives attaches the comma-separated annotation string of the node.
func (n *NodeBuilder) Directives(directives string) *NodeBuilder {
	n.node.Directives = directives
	return n
}

// Raw marks the node's text as literal script statements.
func (n *NodeBuilder) Raw(script string) *NodeBuilder {
	n.node.Kind = domain.KindRaw
	n.node.Type = "RenPyBox"
	n.node.Text = script
	return n
}

// Hub marks the node as a pass-through junction.
func (n *NodeBuilder) Hub(name string) *NodeBuilder {
	n.node.Kind = domain.KindHub
	n.node.Type = "Hub"
	n.node.DisplayName = name
	return n
}

// Instruction marks the node as a script instruction that runs and continues.
func (n *NodeBuilder) Instruction(expr string) *NodeBuilder {
	n.node.Kind = domain.KindInstruction
	n.node.Type = "Instruction"
	n.node.Expression = expr
	return n
}

// Condition marks the node as a two-way branch on the given expression.
// Wire the branches with True and False.
func (n *NodeBuilder) Condition(expr string) *NodeBuilder {
	n.node.Kind = domain.KindCondition
	n.node.Type = "Condition"
	n.node.Expression = expr
	return n
}

// Jump redirects control to the target node.
func (n *NodeBuilder) Jump(target string) *NodeBuilder {
	n.node.Kind = domain.KindJump
	n.node.Type = "Jump"
	n.node.Target = target
	return n
}

// In places the node inside the given container.
func (n *NodeBuilder) In(container string) *NodeBuilder {
	n.node.Parent = container
	return n
}

// Guard sets the entry condition carried by the node's input pin.
func (n *NodeBuilder) Guard(condition string) *NodeBuilder {
	n.node.InputPins[0].Text = condition
	return n
}

// Exit sets the instruction executed when control leaves through the node's
// output pin.
func (n *NodeBuilder) Exit(instruction string) *NodeBuilder {
	n.node.OutputPins[0].Text = instruction
	return n
}

// Go adds an unconditional transition to the target node.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	return n.Option("", target)
}

// Option adds a labeled transition to the target node. A node with several
// outgoing options compiles into a menu.
func (n *NodeBuilder) Option(label, target string) *NodeBuilder {
	n.node.OutputPins[0].Connections = append(n.node.OutputPins[0].Connections, domain.Connection{
		Label:     label,
		Target:    target,
		TargetPin: "in-" + target,
	})
	return n
}

// True wires the condition's true branch to the target node.
func (n *NodeBuilder) True(target string) *NodeBuilder {
	return n.Option("", target)
}

// False wires the condition's false branch to the target node. The second
// output pin is created on first use.
func (n *NodeBuilder) False(target string) *NodeBuilder {
	if len(n.node.OutputPins) < 2 {
		n.node.OutputPins = append(n.node.OutputPins, domain.Pin{
			ID:    "out2-" + n.node.ID,
			Owner: n.node.ID,
		})
	}
	n.node.OutputPins[1].Connections = append(n.node.OutputPins[1].Connections, domain.Connection{
		Target:    target,
		TargetPin: "in-" + target,
	})
	return n
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}
