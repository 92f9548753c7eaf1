// Package graph owns the static topology of a flow: vertices wrapping
// component instances, directed edges between output and input slots, and the
// derived adjacency used for scheduling.
//
// A Graph is validated once at Build time and immutable afterwards. It can be
// shared read-only across concurrent vertex executions and across multiple
// runs; all per-run mutable state lives in package engine.
//
// Vertices and edges are stored in flat collections owned by the Graph and
// referenced by string id, so the acyclic structure never turns into an
// ownership cycle in its representation.
package graph
