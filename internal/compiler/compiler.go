package compiler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/espalier-dev/espalier/pkg/config"
	"github.com/espalier-dev/espalier/pkg/domain"
	"github.com/espalier-dev/espalier/pkg/ports"
)

// Output is the fully rendered result of one compile run, ready to be
// written to the target directory.
type Output struct {
	// Units in emission order: characters, variables, base, then one unit
	// per flow container.
	Units []*FileUnit

	// Diagnostics in discovery order. They never fail the run.
	Diagnostics []domain.Diagnostic

	// Labels maps node ids to their assigned script labels.
	Labels map[string]string
}

// Subdirs returns the distinct top-level directory names the output
// produces, in emission order.
func (o *Output) Subdirs() []string {
	var out []string
	seen := make(map[string]bool)
	for _, u := range o.Units {
		if u.Dir == "" {
			continue
		}
		top := u.Dir
		if i := strings.IndexByte(top, '/'); i >= 0 {
			top = top[:i]
		}
		if !seen[top] {
			seen[top] = true
			out = append(out, top)
		}
	}
	return out
}

// Unit returns the rendered unit at the given relative path.
func (o *Output) Unit(path string) (*FileUnit, bool) {
	for _, u := range o.Units {
		if u.Path() == path {
			return u, true
		}
	}
	return nil, false
}

// Compile renders the whole graph into script file units. A nil asset index
// disables asset reference checking.
func Compile(g *domain.Graph, set *config.Settings, assets ports.AssetIndex) (*Output, error) {
	c := &compilation{
		graph:      g,
		set:        set,
		renderer:   NewTextRenderer(assets, set.MarkerPrefixes()),
		directives: newDirectiveParser(set),
		defs:       newDefinitions(),
		labels:     make(map[string]string),
		compiled:   make(map[string]bool),
		characters: make(map[string]string),
	}
	if err := c.run(); err != nil {
		return nil, err
	}
	return &Output{
		Units:       c.units,
		Diagnostics: c.diags,
		Labels:      c.labels,
	}, nil
}

// compileCharacters emits the character definition file and fills the
// entity → character variable map the say lines resolve against.
func (c *compilation) compileCharacters() error {
	unit := &FileUnit{Name: c.set.FilePrefix + c.set.CharactersFileName}
	c.units = append(c.units, unit)
	for _, e := range c.graph.Entities {
		token := c.defs.reserve(c.characterVariable(e))
		c.characters[e.ID] = token
		unit.Blocks = append(unit.Blocks, &Block{
			Label:  token,
			NodeID: e.ID,
			Lines:  []string{characterDefine(token, e)},
		})
	}
	return nil
}

// characterVariable derives the base variable name from the entity's first
// display-name word.
func (c *compilation) characterVariable(e domain.Entity) string {
	word := ""
	if fields := strings.Fields(e.DisplayName); len(fields) > 0 {
		word = strings.ToLower(fields[0])
	}
	if word == "" {
		word = strings.ToLower(e.ID)
	}
	return c.set.CharacterPrefix + word
}

// characterDefine renders one Character() definition. Entities bound to a
// name variable are declared dynamic; template parameters are passed
// through verbatim as keyword arguments, in key order.
func characterDefine(token string, e domain.Entity) string {
	args := make([]string, 0, 2+len(e.Params))
	if e.NameVariable != "" {
		args = append(args, strconv.Quote(e.NameVariable), "dynamic=True")
	} else {
		args = append(args, strconv.Quote(e.DisplayName), "dynamic=False")
	}
	keys := make([]string, 0, len(e.Params))
	for k := range e.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k+"="+e.Params[k])
	}
	return fmt.Sprintf("define %s = Character(%s)", token, strings.Join(args, ", "))
}

// compileVariables emits the global variable file: one init python block
// per namespace, descriptions echoed as comments.
func (c *compilation) compileVariables() error {
	unit := &FileUnit{Name: c.set.FilePrefix + c.set.VariablesFileName}
	c.units = append(c.units, unit)
	for _, vs := range c.graph.Variables {
		if vs.Namespace == "" {
			continue
		}
		ns := vs.ScriptName()
		if err := c.defs.add(ns); err != nil {
			return err
		}
		lines := []string{fmt.Sprintf("init python in %s:", ns)}
		lines = appendCommentField(lines, vs.Description)
		for _, v := range vs.Variables {
			lines = append(lines, "")
			lines = appendCommentField(lines, v.Description)
			value, err := pythonLiteral(v)
			if err != nil {
				return fmt.Errorf("variable %s.%s: %w", vs.Namespace, v.Name, err)
			}
			lines = append(lines, indent+v.Name+" = "+value)
		}
		unit.Blocks = append(unit.Blocks, &Block{Label: ns, Lines: lines})
	}
	return nil
}

func appendCommentField(lines []string, field string) []string {
	for _, l := range splitFieldLines(field) {
		if l != "" {
			lines = append(lines, indent+"# "+l)
		}
	}
	return lines
}

// pythonLiteral renders a declared variable value for its declared type.
// Unknown types are a hard error.
func pythonLiteral(v domain.Variable) (string, error) {
	switch v.Type {
	case "Boolean":
		switch strings.ToLower(v.Value) {
		case "true":
			return "True", nil
		case "false":
			return "False", nil
		}
		return "", fmt.Errorf("%q is not a boolean", v.Value)
	case "Integer":
		if _, err := strconv.Atoi(v.Value); err != nil {
			return "", fmt.Errorf("%q is not an integer", v.Value)
		}
		return v.Value, nil
	case "String":
		return strconv.Quote(v.Value), nil
	}
	return "", fmt.Errorf("unexpected variable type %q", v.Type)
}
