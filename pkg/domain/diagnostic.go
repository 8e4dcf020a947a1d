package domain

// Diagnostic is a recoverable compile-time note. Diagnostics never abort a
// compile; they are collected per generated file and rendered into the log
// report at the end of the run.
type Diagnostic struct {
	// File is the slash-separated path of the generated file the note
	// belongs to, relative to the target directory.
	File string

	// NodeID identifies the originating node, empty when not applicable.
	NodeID string

	// Label is the node's resolved block label, used as the line prefix in
	// the rendered report when known.
	Label string

	Message string
}
