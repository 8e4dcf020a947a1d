package compiler

import (
	"fmt"
	"strings"

	"github.com/espalier-dev/espalier/pkg/domain"
)

const indent = "    "

// Block is one compiled, labeled piece of script. Lines are complete
// statement lines including the label line, without trailing newlines.
type Block struct {
	// Label is the block's script label, or the definition name for blocks
	// of the special files.
	Label string
	// NodeID is the originating node, empty for generated blocks.
	NodeID string
	Lines  []string
}

// FileUnit collects the blocks of one generated script file.
type FileUnit struct {
	// Dir is the slash path of the file's directory under the target root,
	// empty for the root itself.
	Dir  string
	Name string

	Blocks []*Block
}

// Path returns the file's slash path relative to the target root.
func (u *FileUnit) Path() string {
	if u.Dir == "" {
		return u.Name
	}
	return u.Dir + "/" + u.Name
}

// Render produces the file content. Files open with a blank line and every
// block is followed by one.
func (u *FileUnit) Render() string {
	var b strings.Builder
	b.WriteString("\n")
	for _, blk := range u.Blocks {
		for _, line := range blk.Lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// definitions tracks every name introduced at the script's top level.
// Labels, character variables and variable namespaces share one space;
// colliding names would silently shadow each other in the engine.
type definitions struct {
	used map[string]struct{}
}

func newDefinitions() *definitions {
	return &definitions{used: make(map[string]struct{})}
}

// add claims a name, failing on reuse.
func (d *definitions) add(name string) error {
	if _, ok := d.used[name]; ok {
		return &domain.DuplicateDefinitionError{Definition: name}
	}
	d.used[name] = struct{}{}
	return nil
}

// reserve claims the first free variant of base, suffixing _1, _2, ... as
// long as the name is taken.
func (d *definitions) reserve(base string) string {
	name := base
	for i := 1; ; i++ {
		if _, ok := d.used[name]; !ok {
			d.used[name] = struct{}{}
			return name
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}
}
