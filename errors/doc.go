// Package errors defines the structured error types used across the flow
// execution engine: machine-readable error codes, vertex attribution, and
// retryable detection.
package errors
