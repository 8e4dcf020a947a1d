package dsl

import (
	"fmt"

	"github.com/espalier-dev/espalier/pkg/adapters/memory"
	"github.com/espalier-dev/espalier/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	nodes     map[string]*NodeBuilder
	order     []string
	entities  []domain.Entity
	variables []domain.VariableSet
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the graph with one input and one output pin.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID:         id,
			Kind:       domain.KindDialogue,
			Type:       "DialogueFragment",
			InputPins:  []domain.Pin{{ID: "in-" + id, Owner: id}},
			OutputPins: []domain.Pin{{ID: "out-" + id, Owner: id}},
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Entity declares a character that dialogue nodes can reference as speaker.
func (b *Builder) Entity(id, displayName string) *Builder {
	b.entities = append(b.entities, domain.Entity{ID: id, DisplayName: displayName})
	return b
}

// Variables declares a namespace of global variables.
func (b *Builder) Variables(set domain.VariableSet) *Builder {
	b.variables = append(b.variables, set)
	return b
}

// Build assembles the graph and wraps it in a memory loader.
//
// Parentless containers become the flow roots in declaration order. A
// container whose input pin was not wired explicitly descends into its first
// child, matching how the design tool exports nested flows.
func (b *Builder) Build() (*memory.Loader, error) {
	children := make(map[string][]string)
	var roots []string

	for _, id := range b.order {
		nb := b.nodes[id]
		if p := nb.node.Parent; p != "" {
			if _, ok := b.nodes[p]; !ok {
				return nil, fmt.Errorf("node %q names unknown parent %q", id, p)
			}
			children[p] = append(children[p], id)
		} else if nb.node.Kind == domain.KindContainer {
			roots = append(roots, id)
		}
	}

	nodes := make([]*domain.Node, 0, len(b.order))
	for _, id := range b.order {
		nb := b.nodes[id]
		for _, pins := range [][]domain.Pin{nb.node.InputPins, nb.node.OutputPins} {
			for _, pin := range pins {
				for _, conn := range pin.Connections {
					if _, ok := b.nodes[conn.Target]; !ok {
						return nil, fmt.Errorf("node %q connects to unknown node %q", id, conn.Target)
					}
				}
			}
		}
		if nb.node.Kind == domain.KindContainer {
			if kids := children[id]; len(kids) > 0 && len(nb.node.InputPins[0].Connections) == 0 {
				first := kids[0]
				nb.node.InputPins[0].Connections = []domain.Connection{
					{Target: first, TargetPin: "in-" + first},
				}
			}
		}
		nodes = append(nodes, &nb.node)
	}

	g := domain.NewGraph(nodes, roots, children, b.entities, b.variables)
	return memory.NewLoader(g, "dsl"), nil
}
