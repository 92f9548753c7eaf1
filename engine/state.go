package engine

// VertexState is the per-run lifecycle state of a vertex.
type VertexState string

const (
	// VertexPending means not all predecessor dependencies are satisfied yet.
	VertexPending VertexState = "pending"
	// VertexReady means every dependency is satisfied and the vertex is
	// queued for dispatch.
	VertexReady VertexState = "ready"
	// VertexRunning means the component execution is in flight.
	VertexRunning VertexState = "running"
	// VertexSuccess means execution finished and outputs are recorded.
	VertexSuccess VertexState = "success"
	// VertexFailed means execution returned an error or exceeded its deadline.
	VertexFailed VertexState = "failed"
	// VertexSkipped means a transitive predecessor failed, so the vertex can
	// never become ready.
	VertexSkipped VertexState = "skipped"
)

// Terminal reports whether the state is final for the run.
func (s VertexState) Terminal() bool {
	return s == VertexSuccess || s == VertexFailed || s == VertexSkipped
}

// RunStatus is the overall status of one run.
type RunStatus string

const (
	RunInitializing RunStatus = "initializing"
	RunRunning      RunStatus = "running"
	RunCompleted    RunStatus = "completed"
	RunFailed       RunStatus = "failed"
	RunCancelled    RunStatus = "cancelled"
)

// FailurePolicy governs how a run reacts to a vertex failure.
type FailurePolicy string

const (
	// FailFast stops dispatching new work after the first failure and lets
	// in-flight vertices drain. This is the default.
	FailFast FailurePolicy = "fail_fast"
	// BestEffort keeps executing every vertex whose dependencies remain
	// satisfiable; the run still finishes Failed if any vertex failed.
	BestEffort FailurePolicy = "best_effort"
)
