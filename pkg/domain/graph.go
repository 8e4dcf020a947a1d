package domain

// Graph is the fully parsed flow export: the flat node list, the ownership
// hierarchy, and the declared entities and variables. Ownership (container →
// children) and wiring (connections) are kept as separate relations; the
// hierarchy is a tree, connections may cross it freely.
type Graph struct {
	// Nodes in export order.
	Nodes []*Node

	// Roots are the IDs of the top-level flow containers in declared order.
	// The first root is the default start of the narrative.
	Roots []string

	// Children maps a container ID to its direct children in declared order.
	Children map[string][]string

	Entities  []Entity
	Variables []VariableSet

	byID     map[string]*Node
	inPins   map[string]*pinRef
	outPins  map[string]*pinRef
	entities map[string]*Entity
}

type pinRef struct {
	owner *Node
	pin   *Pin
}

// NewGraph indexes the given nodes and returns a queryable graph.
func NewGraph(nodes []*Node, roots []string, children map[string][]string, entities []Entity, variables []VariableSet) *Graph {
	g := &Graph{
		Nodes:     nodes,
		Roots:     roots,
		Children:  children,
		Entities:  entities,
		Variables: variables,
		byID:      make(map[string]*Node, len(nodes)),
		inPins:    make(map[string]*pinRef),
		outPins:   make(map[string]*pinRef),
		entities:  make(map[string]*Entity, len(entities)),
	}
	if g.Children == nil {
		g.Children = make(map[string][]string)
	}
	for _, n := range nodes {
		g.byID[n.ID] = n
		for i := range n.InputPins {
			g.inPins[n.InputPins[i].ID] = &pinRef{owner: n, pin: &n.InputPins[i]}
		}
		for i := range n.OutputPins {
			g.outPins[n.OutputPins[i].ID] = &pinRef{owner: n, pin: &n.OutputPins[i]}
		}
	}
	for i := range entities {
		g.entities[entities[i].ID] = &entities[i]
	}
	return g
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Entity returns the entity with the given ID.
func (g *Graph) Entity(id string) (*Entity, bool) {
	e, ok := g.entities[id]
	return e, ok
}

// ChildrenOf returns the direct children of a container in declared order.
func (g *Graph) ChildrenOf(id string) []*Node {
	ids := g.Children[id]
	out := make([]*Node, 0, len(ids))
	for _, cid := range ids {
		if n, ok := g.byID[cid]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Outgoing resolves the outgoing edges of a node.
//
// Containers descend through their input pin when it carries connections
// (the pin wires the container to its first inner element); an empty
// container exits through its output pin like any leaf. All other nodes use
// their first output pin. Output→output pin chains, produced when a nested
// container is the last element of its parent, are followed until an input
// pin is reached; a chain that dead-ends contributes no edge, which the
// compiler later turns into the dangling-jump fallback.
func (g *Graph) Outgoing(n *Node) []Edge {
	pin := g.primaryPin(n)
	if pin == nil {
		return nil
	}
	return g.PinEdges(pin)
}

// PinEdges resolves the edges of a single pin. Condition nodes use this
// directly to address their true/false output pins separately.
func (g *Graph) PinEdges(pin *Pin) []Edge {
	edges := make([]Edge, 0, len(pin.Connections))
	for _, conn := range pin.Connections {
		target, entry, ok := g.resolveTargetPin(conn.TargetPin, nil)
		if !ok {
			continue
		}
		edges = append(edges, Edge{
			Label:       conn.Label,
			Target:      target,
			Condition:   entry,
			Instruction: pin.Text,
		})
	}
	return edges
}

func (g *Graph) primaryPin(n *Node) *Pin {
	if n.Kind == KindContainer && len(n.InputPins) > 0 && len(n.InputPins[0].Connections) > 0 {
		return &n.InputPins[0]
	}
	if len(n.OutputPins) > 0 {
		return &n.OutputPins[0]
	}
	return nil
}

// resolveTargetPin follows a connection's target pin to the node that owns
// it. When the target is itself an output pin the chain is followed through
// that pin's first connection. The seen set guards against malformed cyclic
// pin wiring.
func (g *Graph) resolveTargetPin(pinID string, seen map[string]bool) (target, condition string, ok bool) {
	if ref, found := g.inPins[pinID]; found {
		return ref.owner.ID, ref.pin.Text, true
	}
	ref, found := g.outPins[pinID]
	if !found {
		return "", "", false
	}
	if len(ref.pin.Connections) == 0 {
		return "", "", false
	}
	if seen == nil {
		seen = make(map[string]bool)
	}
	if seen[pinID] {
		return "", "", false
	}
	seen[pinID] = true
	return g.resolveTargetPin(ref.pin.Connections[0].TargetPin, seen)
}
