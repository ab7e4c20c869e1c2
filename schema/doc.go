// Package schema models a binary FlatBuffers schema as plain Go values.
//
// Parse verifies the buffer and copies out the object graph: objects in
// schema order, fields ordered by id, enums and union members with their
// referenced object indexes resolved and range checked. Objects refer to
// each other by index, so self-referencing tables need no special casing.
//
//	s, err := schema.Parse(buf)
//	if err != nil {
//	    return err
//	}
//	obj, ok := s.Object("Monster")
//
// Layout rules (struct sizes, field widths) are checked later, when a
// schema is compiled for encoding.
package schema
