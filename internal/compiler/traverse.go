package compiler

import (
	"fmt"
	"strings"

	"github.com/espalier-dev/espalier/pkg/config"
	"github.com/espalier-dev/espalier/pkg/domain"
)

// compilation carries the state of one Compile call.
type compilation struct {
	graph      *domain.Graph
	set        *config.Settings
	renderer   *TextRenderer
	directives *directiveParser

	units []*FileUnit
	defs  *definitions

	// labels memoizes node id → assigned label so every reference to a node,
	// before or after its block is emitted, lands on the same name.
	labels   map[string]string
	compiled map[string]bool

	// characters maps entity id → character variable, filled before any flow
	// node is compiled.
	characters map[string]string

	diags []domain.Diagnostic
}

func (c *compilation) diag(unit *FileUnit, nodeID, label, message string) {
	c.diags = append(c.diags, domain.Diagnostic{
		File:    unit.Path(),
		NodeID:  nodeID,
		Label:   label,
		Message: message,
	})
}

// labelFor returns the node's script label, assigning and registering it on
// first use. A label directive replaces the generated prefix+id form.
func (c *compilation) labelFor(n *domain.Node) (string, error) {
	if l, ok := c.labels[n.ID]; ok {
		return l, nil
	}
	d, _ := c.directives.Parse(n.Directives)
	label := c.set.LabelPrefix + n.ID
	if d.Label != "" {
		label = d.Label
	}
	if err := c.defs.add(label); err != nil {
		return "", err
	}
	c.labels[n.ID] = label
	return label, nil
}

func (c *compilation) run() error {
	if err := c.compileCharacters(); err != nil {
		return err
	}
	if err := c.compileVariables(); err != nil {
		return err
	}

	var roots []*domain.Node
	for _, id := range c.graph.Roots {
		n, ok := c.graph.Node(id)
		if !ok || n.Kind != domain.KindContainer {
			continue
		}
		roots = append(roots, n)
	}
	if len(roots) == 0 {
		return fmt.Errorf("export contains no top-level flow container")
	}

	if err := c.writeBaseUnit(roots[0]); err != nil {
		return err
	}

	dirs := make(map[string]string)
	for _, root := range roots {
		if err := c.visitContainer(root, "", dirs); err != nil {
			return err
		}
	}
	return nil
}

// writeBaseUnit emits the fixed entry file: the engine's start label jumping
// into the first flow container, and the shared end label every dangling
// path falls back to.
func (c *compilation) writeBaseUnit(first *domain.Node) error {
	for _, name := range []string{c.set.StartLabel, c.set.EndLabel} {
		if err := c.defs.add(name); err != nil {
			return err
		}
	}
	target, err := c.labelFor(first)
	if err != nil {
		return err
	}
	unit := &FileUnit{Name: c.set.FilePrefix + c.set.BaseFileName}
	unit.Blocks = append(unit.Blocks,
		&Block{Label: c.set.StartLabel, Lines: []string{
			"# Entry point of the game",
			fmt.Sprintf("label %s:", c.set.StartLabel),
			indent + "jump " + target,
		}},
		&Block{Label: c.set.EndLabel, Lines: []string{
			fmt.Sprintf("label %s:", c.set.EndLabel),
			indent + "return",
		}},
	)
	c.units = append(c.units, unit)
	return nil
}

// visitContainer compiles one flow container into its own file and sweeps
// its children in declared order. Child containers recurse into nested
// directories; everything else is compiled into the container's file.
func (c *compilation) visitContainer(n *domain.Node, parentDir string, dirs map[string]string) error {
	stem := containerDirName(n)
	dir := stem
	if parentDir != "" {
		dir = parentDir + "/" + stem
	}
	if prev, taken := dirs[dir]; taken {
		return fmt.Errorf("flow containers %s and %s both map to directory %q", prev, n.ID, dir)
	}
	dirs[dir] = n.ID

	unit := &FileUnit{Dir: dir, Name: c.set.FilePrefix + stem + ".rpy"}
	c.units = append(c.units, unit)

	if err := c.compileNode(n, unit); err != nil {
		return err
	}
	for _, child := range c.graph.ChildrenOf(n.ID) {
		switch child.Kind {
		case domain.KindContainer:
			if err := c.visitContainer(child, dir, dirs); err != nil {
				return err
			}
		case domain.KindComment:
			// design-time annotation, nothing to emit
		default:
			if err := c.compileNode(child, unit); err != nil {
				return err
			}
		}
	}
	return nil
}

// containerDirName derives the directory (and file stem) of a container
// from its display name: lowercased, spaces collapsed to underscores.
func containerDirName(n *domain.Node) string {
	name := strings.ToLower(strings.TrimSpace(n.DisplayName))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		return strings.ToLower(n.ID)
	}
	return name
}
