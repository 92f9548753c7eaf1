package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Build-time errors. These are fatal to constructing a runnable graph and
// are never retried.
const (
	// ErrCodeCycleDetected indicates the declared edges form a cycle.
	ErrCodeCycleDetected ErrorCode = "CYCLE_DETECTED"
	// ErrCodeDanglingEdge indicates an edge references a missing vertex or slot.
	ErrCodeDanglingEdge ErrorCode = "DANGLING_EDGE"
	// ErrCodeUnresolvedInput indicates a required input has neither a literal
	// nor a satisfying edge.
	ErrCodeUnresolvedInput ErrorCode = "UNRESOLVED_INPUT"
	// ErrCodeDuplicateBinding indicates an input slot receives more than one
	// incoming edge.
	ErrCodeDuplicateBinding ErrorCode = "DUPLICATE_BINDING"
	// ErrCodeIncompatiblePorts indicates an edge connects ports with
	// mismatched declared types.
	ErrCodeIncompatiblePorts ErrorCode = "INCOMPATIBLE_PORTS"
	// ErrCodeUnknownComponent indicates a vertex names a component type that
	// is not present in the registry.
	ErrCodeUnknownComponent ErrorCode = "UNKNOWN_COMPONENT"
	// ErrCodeInvalidDefinition indicates a vertex or edge descriptor failed
	// structural validation.
	ErrCodeInvalidDefinition ErrorCode = "INVALID_DEFINITION"
)

// Runtime vertex errors.
const (
	// ErrCodeExecutionFailed indicates a component returned a failure.
	ErrCodeExecutionFailed ErrorCode = "EXECUTION_FAILED"
	// ErrCodeTimeout indicates a vertex exceeded its configured deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Internal and run-level conditions.
const (
	// ErrCodeMissingInput indicates input resolution ran before every
	// predecessor succeeded. This is a scheduler defect, not a user error.
	ErrCodeMissingInput ErrorCode = "MISSING_INPUT"
	// ErrCodeRunCancelled indicates the run was cancelled by the caller.
	ErrCodeRunCancelled ErrorCode = "RUN_CANCELLED"
	// ErrCodeRunConflict indicates a run was requested against run state that
	// is already active.
	ErrCodeRunConflict ErrorCode = "RUN_CONFLICT"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeExecutionFailed: true,
	ErrCodeTimeout:         true,
	ErrCodeMissingInput:    false,
	ErrCodeRunCancelled:    false,
	ErrCodeRunConflict:     false,
}

// IsRetryableCode returns true if the error code indicates a condition that a
// fresh run (or an explicitly configured per-vertex retry) may recover from.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
