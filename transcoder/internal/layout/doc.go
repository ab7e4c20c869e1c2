// Package layout computes and checks the inline layout of FlatBuffers
// structs.
//
// Struct sizes and field offsets come from the schema; this package
// derives the footprint of every inline field type and rejects declared
// layouts the encoder could not honor.
//
// # Layout Rules
//
//   - Scalars: size equals alignment (ubyte=1, int=4, double=8, etc.)
//   - Structs: bytesize and minalign as declared
//   - Arrays: length times element size, aligned as the element
//   - Table references inside vectors: a 4 byte uoffset
//
// # Usage
//
//	calc := layout.NewCalculator(s)
//	if err := calc.CheckStruct(obj); err != nil {
//	    return err
//	}
//
// This package is internal to the transcoder.
package layout
