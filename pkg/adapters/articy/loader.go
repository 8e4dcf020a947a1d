package articy

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/espalier-dev/espalier/pkg/domain"
)

const (
	featureVariableSet      = "FeatureVariableSet"
	propertyVariableSetName = "VariablesSetName"
)

// Options tune how export models are classified.
type Options struct {
	// RawBoxTypes are technical type names compiled as raw script boxes.
	RawBoxTypes map[string]bool

	// CharacterParamFeatures are template feature names whose properties are
	// passed through as character keyword arguments.
	CharacterParamFeatures map[string]bool

	// CharacterNameVariable is the variable inside an entity's bound set that
	// holds its display name.
	CharacterNameVariable string
}

// Loader reads an articy:draft JSON export from disk. It implements
// ports.GraphLoader.
type Loader struct {
	path string
	opts Options
}

func NewLoader(path string, opts Options) *Loader {
	return &Loader{path: path, opts: opts}
}

// Source returns the export path.
func (l *Loader) Source() string { return l.path }

// Load parses the export into a flow graph.
func (l *Loader) Load() (*domain.Graph, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	var ex export
	if err := json.Unmarshal(raw, &ex); err != nil {
		return nil, fmt.Errorf("parse export %s: %w", l.path, err)
	}
	if len(ex.Packages) == 0 {
		return nil, fmt.Errorf("export %s contains no packages", l.path)
	}

	classByType := make(map[string]string, len(ex.ObjectDefinitions))
	for _, od := range ex.ObjectDefinitions {
		classByType[od.Type] = od.Class
	}

	var (
		nodes    []*domain.Node
		entities []domain.Entity
		children = make(map[string][]string)
	)
	for i, m := range ex.Packages[0].Models {
		props, err := decodeProperties(m.Properties)
		if err != nil {
			return nil, fmt.Errorf("model %d (%s): %w", i, m.Type, err)
		}
		if classByType[m.Type] == "Entity" {
			entities = append(entities, l.entity(m, props))
			continue
		}
		nodes = append(nodes, l.node(m, props))
		if props.Parent != "" {
			children[props.Parent] = append(children[props.Parent], props.ID)
		}
	}

	return domain.NewGraph(nodes, flowRoots(ex.Hierarchy), children, entities, variables(ex.GlobalVariables)), nil
}

func (l *Loader) node(m model, props modelProperties) *domain.Node {
	return &domain.Node{
		ID:          props.ID,
		Kind:        l.kindOf(m.Type),
		Type:        m.Type,
		Parent:      props.Parent,
		DisplayName: props.DisplayName,
		Text:        props.Text,
		MenuText:    props.MenuText,
		Directives:  props.StageDirections,
		Speaker:     props.Speaker,
		Expression:  props.Expression,
		Target:      props.Target,
		InputPins:   pins(props.InputPins),
		OutputPins:  pins(props.OutputPins),
	}
}

func (l *Loader) kindOf(typ string) domain.Kind {
	switch typ {
	case "FlowFragment", "Dialogue":
		return domain.KindContainer
	case "DialogueFragment":
		return domain.KindDialogue
	case "Hub":
		return domain.KindHub
	case "Jump":
		return domain.KindJump
	case "Condition":
		return domain.KindCondition
	case "Instruction":
		return domain.KindInstruction
	case "Comment":
		return domain.KindComment
	}
	if l.opts.RawBoxTypes[typ] {
		return domain.KindRaw
	}
	return domain.KindOther
}

// entity adapts an entity model: the display name, an optional bound name
// variable, and pass-through character parameters from the configured
// template features.
func (l *Loader) entity(m model, props modelProperties) domain.Entity {
	e := domain.Entity{ID: props.ID, DisplayName: props.DisplayName}
	for feature, fields := range m.Template {
		if feature == featureVariableSet {
			if set, ok := fields[propertyVariableSetName].(string); ok && set != "" {
				ns := domain.VariableSet{Namespace: set}.ScriptName()
				e.NameVariable = ns + "." + l.opts.CharacterNameVariable
			}
			continue
		}
		if !l.opts.CharacterParamFeatures[feature] {
			continue
		}
		for k, v := range fields {
			if e.Params == nil {
				e.Params = make(map[string]string)
			}
			e.Params[k] = stringValue(v)
		}
	}
	return e
}

func pins(ps []pinSchema) []domain.Pin {
	out := make([]domain.Pin, 0, len(ps))
	for _, p := range ps {
		pin := domain.Pin{ID: p.ID, Owner: p.Owner, Text: p.Text}
		for _, c := range p.Connections {
			pin.Connections = append(pin.Connections, domain.Connection{
				Label:     c.Label,
				Target:    c.Target,
				TargetPin: c.TargetPin,
			})
		}
		out = append(out, pin)
	}
	return out
}

// flowRoots returns the ids of the top-level flow objects, in hierarchy
// order.
func flowRoots(h hierarchyNode) []string {
	for _, child := range h.Children {
		if child.Type != "Flow" {
			continue
		}
		roots := make([]string, 0, len(child.Children))
		for _, fc := range child.Children {
			roots = append(roots, fc.ID)
		}
		return roots
	}
	return nil
}

func variables(sets []variableSet) []domain.VariableSet {
	out := make([]domain.VariableSet, 0, len(sets))
	for _, s := range sets {
		vs := domain.VariableSet{Namespace: s.Namespace, Description: s.Description}
		for _, v := range s.Variables {
			vs.Variables = append(vs.Variables, domain.Variable{
				Name:        v.Variable,
				Type:        v.Type,
				Value:       stringValue(v.Value),
				Description: v.Description,
			})
		}
		out = append(out, vs)
	}
	return out
}
