// Package engine drives a validated graph to completion: it tracks per-run
// dependency state, dispatches ready vertices concurrently up to a
// concurrency limit, propagates failures to transitive successors, and emits
// an ordered stream of progress events.
//
// The static topology is shared read-only; every run owns its own status
// table, output store, and dependency counters, so concurrent runs of the
// same graph never share mutable state. All shared run state is mutated only
// from the single-threaded scheduling loop — vertex executions run in
// parallel, but their results are folded in one completion at a time.
package engine
