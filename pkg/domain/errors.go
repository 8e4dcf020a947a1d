package domain

import (
	"errors"
	"fmt"
)

// ErrUnexpectedContent is returned when the target directory holds files or
// directories that do not look machine-generated. Nothing is deleted when
// this fires.
var ErrUnexpectedContent = errors.New("unexpected content in target directory")

// CompileError is a fatal structural error naming the offending node. It
// aborts the whole compile; no output is written.
type CompileError struct {
	NodeID string
	Reason string
}

func (e *CompileError) Error() string {
	if e.NodeID == "" {
		return e.Reason
	}
	return fmt.Sprintf("node %s: %s", e.NodeID, e.Reason)
}

// DuplicateDefinitionError is raised when two generated definitions (labels,
// characters, variable namespaces) would collide in the output scripts.
type DuplicateDefinitionError struct {
	Definition string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("definition %s already used", e.Definition)
}
