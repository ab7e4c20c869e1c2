// Package transcoder compiles FlatBuffers schemas into build sequences and
// encodes dynamic values with them.
//
// # Build Sequences
//
// The Compiler turns every object of a schema into a Sequence, eagerly, and
// caches the resulting Plan per schema. A Sequence splits the object's
// fields into two partitions:
//
//	Nested  structs, tables, vectors and arrays of structs or tables
//	Scalar  everything else: scalars, strings, scalar vectors, unions
//
// Sequences refer to each other by index into Plan.Sequences, so tables
// that reference themselves compile without unbounded recursion. A struct
// that contains itself is a compile error.
//
// # Encoding
//
// FlatBuffers are built back to front, children before parents:
//
//	encodeObject ─┬─ struct: assemble in scratch, copy into an aligned region
//	              └─ table:  1. build nested children, keep their offsets
//	                         2. build strings, vectors, union members
//	                         3. StartObject, write inline fields and offsets
//	                         4. EndObject writes the (shared) vtable
//
// Every field of a struct must be present. Table fields are optional:
// absent and null fields are left out of the vtable unless the schema marks
// them required.
//
// # Value Coercion
//
//	Field type        Accepted values
//	──────────────────────────────────────────────────────
//	bool              bool
//	integers          ints, uints, integral floats (range checked)
//	enum integers     as above, or the member name as a string
//	float/double      any number
//	string            string
//	[ubyte]/[byte]    list of numbers, or a string
//	[T:n] arrays      list of exactly n elements
//
// # Thread Safety
//
// Compiler and Plan are safe for concurrent use. An Encoder owns one arena
// that is reset at the start of every Encode call and is NOT thread-safe.
// Use one Encoder per goroutine or a pool.
//
// # Error Handling
//
// Errors use the structured types from the errors package, with the field
// path root first:
//
//	[encode] type_mismatch at x: value string, field type int
//	[encode] field_missing at route.start.z: required field "z" not found
//
// Encoder.Backtrace returns the same path innermost first.
package transcoder
