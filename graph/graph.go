package graph

import (
	"fmt"
	"sort"

	"github.com/skillsenselab/flowkit/component"
	"github.com/skillsenselab/flowkit/errors"
	"github.com/skillsenselab/flowkit/validation"
)

// Edge is a directed, typed connection from a source vertex's output slot to
// a target vertex's input slot. Immutable for the life of the Graph.
type Edge struct {
	Source     string
	SourceSlot string
	Target     string
	TargetSlot string
}

// Graph owns the full vertex and edge set plus the derived adjacency
// structure. Construct with Build; a Graph is never returned partially valid.
type Graph struct {
	vertices []*Vertex
	index    map[string]int
	edges    []Edge

	// Adjacency in declaration order, one entry per edge.
	outgoing map[string][]Edge
	// incoming counts edges per target, with multiplicity.
	incoming map[string]int
	// succ and pred are deduplicated, insertion-ordered vertex id lists.
	succ map[string][]string
	pred map[string][]string
}

// Build constructs and validates a Graph from declarative vertex and edge
// descriptors, resolving component implementations through the injected
// registry.
//
// All failures are fatal: a graph with a cycle, a dangling edge reference, a
// duplicate input binding, incompatible port types, or an unsatisfied
// required input is not runnable and no partial Graph is returned.
func Build(defs []VertexDef, edgeDefs []EdgeDef, reg *component.Registry) (*Graph, error) {
	if reg == nil {
		return nil, errors.InvalidDefinition("component registry is required")
	}

	g := &Graph{
		index:    make(map[string]int, len(defs)),
		outgoing: make(map[string][]Edge),
		incoming: make(map[string]int),
		succ:     make(map[string][]string),
		pred:     make(map[string][]string),
	}

	for i := range defs {
		def := defs[i]
		if err := validation.Validate(def); err != nil {
			return nil, err
		}
		if _, dup := g.index[def.ID]; dup {
			return nil, errors.InvalidDefinition(fmt.Sprintf("duplicate vertex id %q", def.ID))
		}

		impl, ok := reg.Get(def.Component)
		if !ok {
			return nil, errors.UnknownComponent(def.ID, def.Component)
		}
		if def.Retry != nil {
			if err := validation.Validate(*def.Retry); err != nil {
				return nil, err
			}
		}

		v := &Vertex{
			id:            def.ID,
			componentType: def.Component,
			impl:          impl,
			timeout:       def.Timeout,
			retry:         def.Retry,
			bindings:      make(map[string]Binding, len(def.Inputs)),
		}
		g.index[def.ID] = len(g.vertices)
		g.vertices = append(g.vertices, v)
	}

	// Normalize: declared edges first, then edges derived from explicit ref
	// bindings, so every data dependency flows through one edge list.
	edges := make([]EdgeDef, 0, len(edgeDefs))
	for _, e := range edgeDefs {
		if err := validation.Validate(e); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	for _, def := range defs {
		v := g.vertices[g.index[def.ID]]
		for _, slot := range sortedSlots(def.Inputs) {
			b := def.Inputs[slot]
			switch b.Kind {
			case BindingLiteral:
				if err := g.bindLiteral(v, slot, b); err != nil {
					return nil, err
				}
			case BindingRef:
				edges = append(edges, EdgeDef{
					Source:     b.Ref.Vertex,
					SourceSlot: b.Ref.Slot,
					Target:     def.ID,
					TargetSlot: slot,
				})
			default:
				return nil, errors.InvalidDefinition(
					fmt.Sprintf("vertex %q input %q: unknown binding kind %q", def.ID, slot, b.Kind))
			}
		}
	}

	for _, e := range edges {
		if err := g.addEdge(e); err != nil {
			return nil, err
		}
	}

	if err := g.checkRequiredInputs(); err != nil {
		return nil, err
	}
	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}

	return g, nil
}

// bindLiteral attaches a literal binding, rejecting unknown slots.
func (g *Graph) bindLiteral(v *Vertex, slot string, b Binding) error {
	if _, ok := inputSpec(v.impl, slot); !ok {
		return errors.InvalidDefinition(
			fmt.Sprintf("vertex %q: component %q declares no input slot %q", v.id, v.componentType, slot))
	}
	if _, taken := v.bindings[slot]; taken {
		return errors.DuplicateBinding(v.id, slot)
	}
	v.bindings[slot] = b
	return nil
}

// addEdge validates one edge end to end and wires it into the adjacency and
// the target vertex's bindings.
func (g *Graph) addEdge(e EdgeDef) error {
	srcIdx, ok := g.index[e.Source]
	if !ok {
		return errors.DanglingEdge(e.Source, "missing source vertex")
	}
	dstIdx, ok := g.index[e.Target]
	if !ok {
		return errors.DanglingEdge(e.Target, "missing target vertex")
	}
	src, dst := g.vertices[srcIdx], g.vertices[dstIdx]

	outSpec, ok := outputSpec(src.impl, e.SourceSlot)
	if !ok {
		return errors.DanglingEdge(
			fmt.Sprintf("%s.%s", e.Source, e.SourceSlot), "missing source output slot")
	}
	inSpec, ok := inputSpec(dst.impl, e.TargetSlot)
	if !ok {
		return errors.DanglingEdge(
			fmt.Sprintf("%s.%s", e.Target, e.TargetSlot), "missing target input slot")
	}
	if !component.Compatible(outSpec.Type, inSpec.Type) {
		return errors.IncompatiblePorts(outSpec.Type, inSpec.Type).
			WithDetail("edge", fmt.Sprintf("%s.%s -> %s.%s", e.Source, e.SourceSlot, e.Target, e.TargetSlot))
	}

	// Fan-in merge is a component-level concern: each input slot accepts at
	// most one incoming edge.
	if _, taken := dst.bindings[e.TargetSlot]; taken {
		return errors.DuplicateBinding(dst.id, e.TargetSlot)
	}
	dst.bindings[e.TargetSlot] = FromVertex(e.Source, e.SourceSlot)

	edge := Edge{Source: e.Source, SourceSlot: e.SourceSlot, Target: e.Target, TargetSlot: e.TargetSlot}
	g.edges = append(g.edges, edge)
	g.outgoing[e.Source] = append(g.outgoing[e.Source], edge)
	g.incoming[e.Target]++
	g.succ[e.Source] = appendUnique(g.succ[e.Source], e.Target)
	g.pred[e.Target] = appendUnique(g.pred[e.Target], e.Source)
	return nil
}

// checkRequiredInputs verifies every required, non-literal input is satisfied.
func (g *Graph) checkRequiredInputs() error {
	for _, v := range g.vertices {
		for _, spec := range v.impl.InputSpecs() {
			if spec.Optional {
				continue
			}
			if _, bound := v.bindings[spec.Name]; !bound {
				return errors.UnresolvedInput(v.id, spec.Name)
			}
		}
	}
	return nil
}

// --- lookups used by the scheduler and dependency tracker ---

// VertexByID returns the vertex with the given id.
func (g *Graph) VertexByID(id string) (*Vertex, bool) {
	idx, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.vertices[idx], true
}

// Vertices returns all vertices in declaration order.
func (g *Graph) Vertices() []*Vertex { return g.vertices }

// VertexIDs returns all vertex ids in declaration order.
func (g *Graph) VertexIDs() []string {
	ids := make([]string, len(g.vertices))
	for i, v := range g.vertices {
		ids[i] = v.id
	}
	return ids
}

// Size returns the number of vertices.
func (g *Graph) Size() int { return len(g.vertices) }

// Edges returns all edges in declaration order.
func (g *Graph) Edges() []Edge { return g.edges }

// OutgoingEdges returns the edges leaving a vertex, one entry per edge.
func (g *Graph) OutgoingEdges(id string) []Edge { return g.outgoing[id] }

// InDegreeOf returns the number of incoming edges of a vertex, counted with
// multiplicity: a successor bound twice to the same predecessor has in-degree
// two, and readiness requires both edges satisfied.
func (g *Graph) InDegreeOf(id string) int { return g.incoming[id] }

// SuccessorsOf returns the distinct successors of a vertex in edge
// declaration order. The ordering is for determinism only.
func (g *Graph) SuccessorsOf(id string) []string { return g.succ[id] }

// PredecessorsOf returns the distinct predecessors of a vertex in edge
// declaration order.
func (g *Graph) PredecessorsOf(id string) []string { return g.pred[id] }

// InitialReadySet returns, in declaration order, the ids of all vertices with
// no incoming edges. These are runnable immediately: every input is a literal
// or optional.
func (g *Graph) InitialReadySet() []string {
	ready := make([]string, 0)
	for _, v := range g.vertices {
		if g.incoming[v.id] == 0 {
			ready = append(ready, v.id)
		}
	}
	return ready
}

// --- helpers ---

func inputSpec(c component.Component, slot string) (component.PortSpec, bool) {
	for _, s := range c.InputSpecs() {
		if s.Name == slot {
			return s, true
		}
	}
	return component.PortSpec{}, false
}

func outputSpec(c component.Component, slot string) (component.PortSpec, bool) {
	for _, s := range c.OutputSpecs() {
		if s.Name == slot {
			return s, true
		}
	}
	return component.PortSpec{}, false
}

func appendUnique(list []string, id string) []string {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}

func sortedSlots(inputs map[string]Binding) []string {
	slots := make([]string, 0, len(inputs))
	for slot := range inputs {
		slots = append(slots, slot)
	}
	// map iteration order is random; keep edge derivation deterministic
	sort.Strings(slots)
	return slots
}
