// Package types defines the compiled field and build sequence structures.
//
// A Sequence is the per-object traversal plan the encoder walks: fields
// split into a nested partition (objects and vectors of objects, each
// pointing at another Sequence by index) and a scalar partition (every
// other field). Field carries the precomputed width, offset and slot so
// the hot path never consults the schema.
//
// This package is internal to the transcoder.
package types
