// Package component defines the contract between the flow engine and the
// units of work it orchestrates. The engine treats a component as opaque: it
// declares named, typed input and output ports and executes against a map of
// resolved input values.
//
// Implementations are looked up through a Registry that is constructed by the
// caller and injected into graph construction — never through ambient global
// state.
package component
