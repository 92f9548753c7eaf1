package graph

import "time"

// BindingKind discriminates how an input slot gets its value.
type BindingKind string

const (
	// BindingLiteral binds the slot to a constant value.
	BindingLiteral BindingKind = "literal"
	// BindingRef binds the slot to an upstream vertex output.
	BindingRef BindingKind = "ref"
)

// SlotRef names a specific output slot of a specific vertex.
type SlotRef struct {
	Vertex string `json:"vertex"`
	Slot   string `json:"slot"`
}

// Binding is the declared value source for one input slot: a literal value or
// a reference to an upstream output.
type Binding struct {
	Kind  BindingKind `json:"kind"`
	Value any         `json:"value,omitempty"`
	Ref   SlotRef     `json:"ref,omitempty"`
}

// Literal creates a literal binding.
func Literal(value any) Binding {
	return Binding{Kind: BindingLiteral, Value: value}
}

// FromVertex creates a reference binding to an upstream output slot.
func FromVertex(vertexID, slot string) Binding {
	return Binding{Kind: BindingRef, Ref: SlotRef{Vertex: vertexID, Slot: slot}}
}

// RetryPolicy opts a vertex into automatic retry of its component call.
// Retries are never applied implicitly: a vertex without a policy executes
// exactly once per run.
type RetryPolicy struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int `json:"max_attempts" validate:"gte=1"`
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff caps the delay between retries.
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffFactor is the multiplier for exponential backoff.
	BackoffFactor float64 `json:"backoff_factor"`
}

// VertexDef is the declarative descriptor for one vertex, as supplied by the
// external editor or persistence layer.
type VertexDef struct {
	// ID is the unique vertex identifier within the graph.
	ID string `json:"id" validate:"required"`
	// Component is the component type identifier resolved through the registry.
	Component string `json:"component" validate:"required"`
	// Inputs maps input slot names to their declared bindings. Slots bound by
	// an edge must not also appear here with a ref binding.
	Inputs map[string]Binding `json:"inputs,omitempty"`
	// Timeout is the per-vertex execution deadline. Zero means the engine
	// default applies; a negative value disables the deadline.
	Timeout time.Duration `json:"timeout,omitempty"`
	// Retry opts this vertex into retry-with-backoff. Nil disables retries.
	Retry *RetryPolicy `json:"retry,omitempty"`
}

// EdgeDef is the declarative descriptor for one directed connection from a
// source output slot to a target input slot.
type EdgeDef struct {
	Source     string `json:"source" validate:"required"`
	SourceSlot string `json:"source_slot" validate:"required"`
	Target     string `json:"target" validate:"required"`
	TargetSlot string `json:"target_slot" validate:"required"`
}
