// Package validation provides tag-based struct validation for graph
// definitions, built on go-playground/validator.
package validation
