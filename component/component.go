package component

import "context"

// TypeAny is the port type that is assignable to and from every other type.
const TypeAny = "any"

// PortSpec declares a named, typed input or output slot.
type PortSpec struct {
	// Name is the slot name, unique within the component's inputs or outputs.
	Name string `json:"name"`
	// Type is the declared value type. TypeAny matches everything.
	Type string `json:"type"`
	// Optional marks an input that may be left unbound. Ignored for outputs.
	Optional bool `json:"optional,omitempty"`
}

// Inputs is the map of resolved input values passed to Execute, keyed by slot name.
type Inputs map[string]any

// Outputs is the map of produced output values, keyed by slot name.
type Outputs map[string]any

// Component is one executable unit of work.
//
// Execute may perform arbitrary external I/O. The engine imposes no
// idempotence guarantee and applies no implicit retries; implementations that
// want to abort early on cancellation must honor ctx.
type Component interface {
	// Type returns the component type identifier used for registry lookup.
	Type() string
	// InputSpecs declares the component's expected input slots.
	InputSpecs() []PortSpec
	// OutputSpecs declares the component's produced output slots.
	OutputSpecs() []PortSpec
	// Execute runs the component against resolved inputs.
	Execute(ctx context.Context, inputs Inputs) (Outputs, error)
}

// Compatible reports whether an output of type src may feed an input of type dst.
func Compatible(src, dst string) bool {
	return src == dst || src == TypeAny || dst == TypeAny
}
