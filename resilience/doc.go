// Package resilience provides the execution-hardening primitives the engine
// composes around component calls: retry with exponential backoff (opt-in,
// per vertex) and a bulkhead that bounds concurrent vertex executions.
package resilience
