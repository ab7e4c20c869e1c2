// Package value is the dynamic value source the encoder reads from.
//
// The encoder never touches host values directly. It asks a Value for its
// Kind, looks fields up by name and reads scalars, so any representation
// can be encoded by implementing the interface once. Of adapts ordinary Go
// values (maps, slices, structs, numbers), and ParseYAML / ParseJSON turn
// documents into such values.
package value
