package engine

import (
	"time"

	"github.com/skillsenselab/flowkit/component"
)

// VertexResult holds the per-run outcome of a single vertex. A finished run
// accounts for every vertex: Success with outputs, Failed with error detail,
// Skipped with the upstream failure that caused it, or a not-started state
// (pending/ready) when the run halted or was cancelled before dispatch.
type VertexResult struct {
	ID            string            `json:"id"`
	ComponentType string            `json:"component_type"`
	Status        VertexState       `json:"status"`
	Outputs       component.Outputs `json:"outputs,omitempty"`
	Error         error             `json:"-"`
	// SkippedBecause names the failed upstream vertex, set only when skipped.
	SkippedBecause string        `json:"skipped_because,omitempty"`
	StartedAt      time.Time     `json:"started_at,omitzero"`
	Duration       time.Duration `json:"duration,omitempty"`
	// Attempts is the number of component invocations, >1 only when the
	// vertex opted into a retry policy.
	Attempts int `json:"attempts,omitempty"`
}

// RunResult holds the outcome of one run.
type RunResult struct {
	RunID     string                  `json:"run_id"`
	Status    RunStatus               `json:"status"`
	StartedAt time.Time               `json:"started_at"`
	Duration  time.Duration           `json:"duration"`
	Vertices  map[string]VertexResult `json:"vertices"`
	// Err is the run-level error: the first vertex failure under fail-fast,
	// any vertex failure under best-effort, or the cancellation error.
	Err error `json:"-"`
}

// Failed returns the results of all failed vertices in no particular order.
func (r *RunResult) Failed() []VertexResult {
	var out []VertexResult
	for _, vr := range r.Vertices {
		if vr.Status == VertexFailed {
			out = append(out, vr)
		}
	}
	return out
}
