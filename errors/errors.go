package errors

import (
	"errors"
	"fmt"
)

// FlowError is the unified error type for the execution engine.
type FlowError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// VertexID identifies the vertex the error is attributed to, if any.
	VertexID string `json:"vertex_id,omitempty"`
	// Retryable indicates if a fresh run may recover from the error.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *FlowError) Error() string {
	switch {
	case e.VertexID != "" && e.Cause != nil:
		return fmt.Sprintf("%s: vertex %q: %s (cause: %v)", e.Code, e.VertexID, e.Message, e.Cause)
	case e.VertexID != "":
		return fmt.Sprintf("%s: vertex %q: %s", e.Code, e.VertexID, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause of the error.
func (e *FlowError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *FlowError) WithCause(cause error) *FlowError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *FlowError) WithDetail(key string, value any) *FlowError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new FlowError with automatic retryable detection.
func New(code ErrorCode, message string) *FlowError {
	return &FlowError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Returns an empty code if err is not a FlowError.
func CodeOf(err error) ErrorCode {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// --- Build-time constructors ---

// CycleDetected creates an error reporting the offending cycle's vertex
// sequence, first vertex repeated at the end.
func CycleDetected(path []string) *FlowError {
	return &FlowError{
		Code: ErrCodeCycleDetected, Message: "graph contains a cycle",
		Retryable: false,
		Details:   map[string]any{"cycle": path},
	}
}

// DanglingEdge creates an error for an edge referencing a missing vertex or slot.
func DanglingEdge(ref, detail string) *FlowError {
	return &FlowError{
		Code: ErrCodeDanglingEdge, Message: fmt.Sprintf("edge references %s: %s", detail, ref),
		Retryable: false,
		Details:   map[string]any{"reference": ref},
	}
}

// UnresolvedInput creates an error for a required input with no literal and
// no satisfying edge.
func UnresolvedInput(vertexID, slot string) *FlowError {
	return &FlowError{
		Code: ErrCodeUnresolvedInput, Message: fmt.Sprintf("required input %q has no binding", slot),
		VertexID: vertexID, Retryable: false,
		Details: map[string]any{"slot": slot},
	}
}

// DuplicateBinding creates an error for an input slot with more than one
// incoming edge.
func DuplicateBinding(vertexID, slot string) *FlowError {
	return &FlowError{
		Code: ErrCodeDuplicateBinding, Message: fmt.Sprintf("input %q receives more than one edge", slot),
		VertexID: vertexID, Retryable: false,
		Details: map[string]any{"slot": slot},
	}
}

// IncompatiblePorts creates an error for an edge whose endpoint types do not match.
func IncompatiblePorts(sourceType, targetType string) *FlowError {
	return &FlowError{
		Code:    ErrCodeIncompatiblePorts,
		Message: fmt.Sprintf("output type %q is not assignable to input type %q", sourceType, targetType),
		Details: map[string]any{"source_type": sourceType, "target_type": targetType},
	}
}

// UnknownComponent creates an error for a component type missing from the registry.
func UnknownComponent(vertexID, componentType string) *FlowError {
	return &FlowError{
		Code: ErrCodeUnknownComponent, Message: fmt.Sprintf("component type %q not registered", componentType),
		VertexID: vertexID, Retryable: false,
		Details: map[string]any{"component_type": componentType},
	}
}

// InvalidDefinition creates an error for a descriptor that failed structural validation.
func InvalidDefinition(reason string) *FlowError {
	return &FlowError{
		Code: ErrCodeInvalidDefinition, Message: reason,
		Retryable: false,
	}
}

// --- Runtime constructors ---

// ExecutionFailed wraps a component failure with vertex attribution.
func ExecutionFailed(vertexID string, cause error) *FlowError {
	return &FlowError{
		Code: ErrCodeExecutionFailed, Message: "component execution failed",
		VertexID: vertexID, Retryable: true, Cause: cause,
	}
}

// Timeout creates an error for a vertex that exceeded its deadline.
func Timeout(vertexID string, cause error) *FlowError {
	return &FlowError{
		Code: ErrCodeTimeout, Message: "vertex exceeded its configured timeout",
		VertexID: vertexID, Retryable: true, Cause: cause,
	}
}

// MissingInput signals an internal invariant violation: input resolution ran
// before every predecessor succeeded.
func MissingInput(vertexID, slot string) *FlowError {
	return &FlowError{
		Code:    ErrCodeMissingInput,
		Message: fmt.Sprintf("input %q resolved before its predecessor succeeded", slot),
		VertexID: vertexID, Retryable: false,
		Details: map[string]any{"slot": slot},
	}
}

// RunCancelled creates the terminal error for a cancelled run.
func RunCancelled(runID string) *FlowError {
	return &FlowError{
		Code: ErrCodeRunCancelled, Message: "run cancelled by caller",
		Retryable: false,
		Details:   map[string]any{"run_id": runID},
	}
}

// RunConflict creates an error for a run requested against active run state.
func RunConflict(runID string) *FlowError {
	return &FlowError{
		Code: ErrCodeRunConflict, Message: "run state is already owned by an active run",
		Retryable: false,
		Details:   map[string]any{"run_id": runID},
	}
}
