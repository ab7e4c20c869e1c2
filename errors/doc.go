// Package errors provides structured error types for flatdyn.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, value kind, field type and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("monster", "pos", "x").
//		ValueKind("string").
//		FieldType("float").
//		Detail("expected number").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseEncode, path, "string", "int")
//	err := errors.FieldMissing(errors.PhaseEncode, path, "x")
//
// Path is stored root-first; Backtrace returns it innermost-first.
// All errors implement the standard error interface and support errors.Is/As.
package errors
