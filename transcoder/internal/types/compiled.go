package types

// Sequence is the build plan of one schema object.
type Sequence struct {
	Name     string
	Nested   []Field
	Scalar   []Field
	Object   int
	ByteSize int
	MinAlign int
	NumSlots int
	IsStruct bool
}

// Field is a compiled field.
type Field struct {
	// Names maps enum member names to values for enum-typed integers and
	// union discriminants.
	Names map[string]int64
	Name  string
	// TypeField names the discriminant sibling of a union field.
	TypeField string
	// UnionField names the union a discriminant selects for.
	UnionField string
	Cases     []Case
	Kind      Kind
	// Elem is the element kind of vectors and arrays.
	Elem Kind
	// Ref indexes the referenced Sequence for object fields, vectors and
	// arrays of objects; -1 otherwise.
	Ref         int
	Offset      int
	Slot        int
	Size        int
	Align       int
	ElemSize    int
	ElemAlign   int
	FixedLength int
	Required    bool
	Deprecated  bool
}

// Case is one union member.
type Case struct {
	Name  string
	Value int64
	Ref   int
}

// IsNested reports whether the field belongs to the nested partition.
func (f *Field) IsNested() bool {
	switch f.Kind {
	case KindStruct, KindTable:
		return true
	case KindVector, KindArray:
		return f.Elem == KindStruct || f.Elem == KindTable
	}
	return false
}

// Case returns the union member with the given discriminant.
func (f *Field) Case(value int64) (*Case, bool) {
	for i := range f.Cases {
		if f.Cases[i].Value == value {
			return &f.Cases[i], true
		}
	}
	return nil, false
}

// Fields returns the number of fields in both partitions.
func (s *Sequence) Fields() int {
	return len(s.Nested) + len(s.Scalar)
}
