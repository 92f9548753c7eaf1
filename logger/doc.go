// Package logger provides structured logging for the flow engine on top of
// zerolog. It exposes a small Logger wrapper, a global instance for
// infrastructure code, and helpers for building field maps.
package logger
