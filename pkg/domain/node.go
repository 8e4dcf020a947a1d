package domain

// Kind classifies a node's compile behavior, independent of the technical
// type string the design tool exported.
type Kind string

const (
	// KindContainer groups child nodes and maps to one output directory/file.
	KindContainer Kind = "container"
	// KindDialogue is a spoken/narrated leaf (speaker, text, menu text).
	KindDialogue Kind = "dialogue"
	// KindRaw is a leaf whose text is emitted as literal script statements.
	KindRaw Kind = "raw"
	// KindHub is a pass-through junction with no content of its own.
	KindHub Kind = "hub"
	// KindJump redirects control to an explicit target node.
	KindJump Kind = "jump"
	// KindCondition branches two ways on a script expression.
	KindCondition Kind = "condition"
	// KindInstruction executes a script expression and continues.
	KindInstruction Kind = "instruction"
	// KindComment is design-time annotation, skipped by the compiler.
	KindComment Kind = "comment"
	// KindOther marks technical types the compiler does not understand.
	KindOther Kind = "other"
)

// Node represents one element of the flow graph.
type Node struct {
	ID   string
	Kind Kind

	// Type keeps the technical type string from the export ("DialogueFragment",
	// "Hub", ...) for comments and diagnostics.
	Type string

	// Parent is the ID of the owning container, empty for top-level nodes.
	// Every non-root node has exactly one parent.
	Parent string

	DisplayName string

	// Text is the primary content: narration for dialogue nodes, literal
	// script statements for raw nodes.
	Text string

	// MenuText is the secondary text shown when the node is offered as a
	// menu choice.
	MenuText string

	// Directives is the raw comma-separated annotation string attached to
	// the node (the export's stage directions field).
	Directives string

	// Speaker references the entity speaking this node, empty for narration.
	Speaker string

	// Expression carries the script of condition and instruction nodes.
	Expression string

	// Target is the destination node of a jump node.
	Target string

	InputPins  []Pin
	OutputPins []Pin
}

// Pin is a connection point on a node. Input pin text holds an entry
// condition, output pin text holds exit instructions.
type Pin struct {
	ID    string
	Owner string
	Text  string

	// Connections originate here and point at a pin on another node.
	Connections []Connection
}

// Connection links a pin to exactly one pin on a target node.
type Connection struct {
	// Label is the optional text the designer put on the arrow itself.
	Label     string
	Target    string
	TargetPin string
}

// Edge is a resolved outgoing path of a node: pin chains across container
// boundaries are already collapsed so Target is always a compilable node.
type Edge struct {
	// Label is the originating connection's label.
	Label string

	// Target is the node the edge finally lands on.
	Target string

	// Condition is the entry condition attached to the target's input pin.
	Condition string

	// Instruction is the exit script attached to the source output pin.
	Instruction string
}
