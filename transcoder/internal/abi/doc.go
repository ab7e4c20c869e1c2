// Package abi provides internal utilities for FlatBuffers scalar encoding.
//
// # Contents
//
//   - coerce.go: Coercion of dynamic values to scalar bit patterns with
//     range checking
//   - helpers.go: Width-dispatched writers, alignment and size limits
//
// Every scalar width goes through the same Put / Prepend pair, so range
// and type errors are classified in one place.
//
// This package is internal to the transcoder.
package abi
