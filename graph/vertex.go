package graph

import (
	"sort"
	"time"

	"github.com/skillsenselab/flowkit/component"
	"github.com/skillsenselab/flowkit/errors"
)

// Vertex wraps one component instance together with its resolved input
// bindings. Vertices are immutable after Build; all run-time state (status,
// outputs) is tracked per run by the engine.
type Vertex struct {
	id            string
	componentType string
	impl          component.Component
	timeout       time.Duration
	retry         *RetryPolicy

	// bindings is the merged view of declared inputs: literals from the
	// vertex definition plus refs contributed by edges.
	bindings map[string]Binding
}

// ID returns the unique vertex identifier.
func (v *Vertex) ID() string { return v.id }

// ComponentType returns the component type identifier.
func (v *Vertex) ComponentType() string { return v.componentType }

// Component returns the wrapped component implementation.
func (v *Vertex) Component() component.Component { return v.impl }

// Timeout returns the per-vertex deadline. Zero means the engine default
// applies; negative disables the deadline.
func (v *Vertex) Timeout() time.Duration { return v.timeout }

// Retry returns the vertex's retry policy, or nil when retries are disabled.
func (v *Vertex) Retry() *RetryPolicy { return v.retry }

// Binding returns the binding for an input slot.
func (v *Vertex) Binding(slot string) (Binding, bool) {
	b, ok := v.bindings[slot]
	return b, ok
}

// BoundSlots returns the sorted names of all bound input slots.
func (v *Vertex) BoundSlots() []string {
	slots := make([]string, 0, len(v.bindings))
	for slot := range v.bindings {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}

// OutputLookup resolves an upstream vertex's output slot value. The second
// return is false when the value is not (yet) available.
type OutputLookup func(vertexID, slot string) (any, bool)

// ResolveInputs materializes the vertex's input map: literal bindings are
// copied through, ref bindings are read from upstream outputs via lookup.
//
// A missing upstream value is an internal invariant violation — the scheduler
// dispatches a vertex only after every predecessor succeeded — and is
// reported as a MISSING_INPUT error, never silently dropped.
func (v *Vertex) ResolveInputs(lookup OutputLookup) (component.Inputs, error) {
	inputs := make(component.Inputs, len(v.bindings))
	for _, slot := range v.BoundSlots() {
		b := v.bindings[slot]
		switch b.Kind {
		case BindingLiteral:
			inputs[slot] = b.Value
		case BindingRef:
			val, ok := lookup(b.Ref.Vertex, b.Ref.Slot)
			if !ok {
				return nil, errors.MissingInput(v.id, slot)
			}
			inputs[slot] = val
		}
	}
	return inputs, nil
}
