package schema

import (
	"sort"

	"github.com/wippyai/flatdyn/errors"
	"github.com/wippyai/flatdyn/reflection"
)

// Type classifies a field. Index refers to Schema.Objects for object
// references and to Schema.Enums for unions and enum-typed integers.
type Type struct {
	Base        reflection.BaseType
	Element     reflection.BaseType
	Index       int
	FixedLength int
}

func (t Type) IsObject() bool {
	return t.Base == reflection.BaseTypeObj
}

func (t Type) IsVectorOfObjects() bool {
	return t.Base == reflection.BaseTypeVector && t.Element == reflection.BaseTypeObj
}

func (t Type) IsArrayOfObjects() bool {
	return t.Base == reflection.BaseTypeArray && t.Element == reflection.BaseTypeObj
}

type Field struct {
	Name           string
	Type           Type
	ID             int
	Offset         int
	DefaultInteger int64
	DefaultReal    float64
	Deprecated     bool
	Required       bool
	Optional       bool
	Key            bool
}

// Slot returns the vtable slot of a table field.
func (f *Field) Slot() int {
	return f.ID
}

type Object struct {
	Name     string
	Index    int
	IsStruct bool
	MinAlign int
	ByteSize int
	// Fields are ordered by id, which is declaration order.
	Fields []Field

	byName map[string]int
}

func (o *Object) Field(name string) (*Field, bool) {
	i, ok := o.byName[name]
	if !ok {
		return nil, false
	}
	return &o.Fields[i], true
}

// NumSlots returns the number of vtable slots a table of this object needs.
func (o *Object) NumSlots() int {
	n := 0
	for i := range o.Fields {
		if o.Fields[i].ID+1 > n {
			n = o.Fields[i].ID + 1
		}
	}
	return n
}

type EnumVal struct {
	Name  string
	Value int64
	// UnionType is set for union members other than NONE.
	UnionType *Type
}

type Enum struct {
	Name       string
	Index      int
	IsUnion    bool
	Underlying Type
	Values     []EnumVal
}

func (e *Enum) Lookup(value int64) (*EnumVal, bool) {
	for i := range e.Values {
		if e.Values[i].Value == value {
			return &e.Values[i], true
		}
	}
	return nil, false
}

func (e *Enum) LookupName(name string) (*EnumVal, bool) {
	for i := range e.Values {
		if e.Values[i].Name == name {
			return &e.Values[i], true
		}
	}
	return nil, false
}

// Schema is an immutable model of one binary schema. It copies everything
// it needs out of the buffer, so the buffer may be released afterwards.
type Schema struct {
	Objects   []*Object
	Enums     []*Enum
	FileIdent string
	FileExt   string
	// RootTable is nil when the schema declares no root_type.
	RootTable *Object

	byName map[string]*Object
}

func (s *Schema) Object(name string) (*Object, bool) {
	o, ok := s.byName[name]
	return o, ok
}

// Parse verifies buf and builds its model.
func Parse(buf []byte) (*Schema, error) {
	if err := reflection.Verify(buf); err != nil {
		return nil, err
	}
	return FromReflection(reflection.GetRootAsSchema(buf, 0))
}

// FromReflection builds a model from an already verified schema.
func FromReflection(rs *reflection.Schema) (*Schema, error) {
	s := &Schema{
		FileIdent: string(rs.FileIdent()),
		FileExt:   string(rs.FileExt()),
		byName:    make(map[string]*Object, rs.ObjectsLength()),
	}

	var ro reflection.Object
	for i := 0; i < rs.ObjectsLength(); i++ {
		rs.Objects(&ro, i)
		obj, err := readObject(&ro, i)
		if err != nil {
			return nil, err
		}
		if _, dup := s.byName[obj.Name]; dup {
			return nil, errors.Verification("duplicate object %q", obj.Name)
		}
		s.byName[obj.Name] = obj
		s.Objects = append(s.Objects, obj)
	}

	var re reflection.Enum
	for i := 0; i < rs.EnumsLength(); i++ {
		rs.Enums(&re, i)
		s.Enums = append(s.Enums, readEnum(&re, i))
	}

	if root := rs.RootTable(nil); root != nil {
		name := string(root.Name())
		obj, ok := s.byName[name]
		if !ok {
			return nil, errors.Verification("root table %q not among objects", name)
		}
		if obj.IsStruct {
			return nil, errors.Verification("root type %q is a struct", name)
		}
		s.RootTable = obj
	}

	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

func readType(rt *reflection.Type) Type {
	return Type{
		Base:        rt.BaseType(),
		Element:     rt.Element(),
		Index:       int(rt.Index()),
		FixedLength: int(rt.FixedLength()),
	}
}

func readObject(ro *reflection.Object, index int) (*Object, error) {
	obj := &Object{
		Name:     string(ro.Name()),
		Index:    index,
		IsStruct: ro.IsStruct(),
		MinAlign: int(ro.Minalign()),
		ByteSize: int(ro.Bytesize()),
		Fields:   make([]Field, 0, ro.FieldsLength()),
	}
	if obj.Name == "" {
		return nil, errors.Verification("object %d has no name", index)
	}

	var rf reflection.Field
	var rt reflection.Type
	for j := 0; j < ro.FieldsLength(); j++ {
		ro.Fields(&rf, j)
		obj.Fields = append(obj.Fields, Field{
			Name:           string(rf.Name()),
			Type:           readType(rf.Type(&rt)),
			ID:             int(rf.Id()),
			Offset:         int(rf.Offset()),
			DefaultInteger: rf.DefaultInteger(),
			DefaultReal:    rf.DefaultReal(),
			Deprecated:     rf.Deprecated(),
			Required:       rf.Required(),
			Optional:       rf.Optional(),
			Key:            rf.Key(),
		})
	}
	sort.SliceStable(obj.Fields, func(a, b int) bool { return obj.Fields[a].ID < obj.Fields[b].ID })

	obj.byName = make(map[string]int, len(obj.Fields))
	for j := range obj.Fields {
		f := &obj.Fields[j]
		if j > 0 && obj.Fields[j-1].ID == f.ID {
			return nil, errors.Verification("object %q: fields %q and %q share id %d",
				obj.Name, obj.Fields[j-1].Name, f.Name, f.ID)
		}
		if _, dup := obj.byName[f.Name]; dup {
			return nil, errors.Verification("object %q: duplicate field %q", obj.Name, f.Name)
		}
		obj.byName[f.Name] = j
	}
	return obj, nil
}

func readEnum(re *reflection.Enum, index int) *Enum {
	e := &Enum{
		Name:    string(re.Name()),
		Index:   index,
		IsUnion: re.IsUnion(),
		Values:  make([]EnumVal, 0, re.ValuesLength()),
	}
	var rt reflection.Type
	e.Underlying = readType(re.UnderlyingType(&rt))

	var rv reflection.EnumVal
	for j := 0; j < re.ValuesLength(); j++ {
		re.Values(&rv, j)
		v := EnumVal{Name: string(rv.Name()), Value: rv.Value()}
		var ut reflection.Type
		if rv.UnionType(&ut) != nil {
			t := readType(&ut)
			if t.Base != reflection.BaseTypeNone {
				v.UnionType = &t
			}
		}
		e.Values = append(e.Values, v)
	}
	return e
}

// check validates cross references between objects and enums.
func (s *Schema) check() error {
	for _, obj := range s.Objects {
		for i := range obj.Fields {
			if err := s.checkField(obj, &obj.Fields[i]); err != nil {
				return err
			}
		}
	}
	for _, e := range s.Enums {
		if !e.IsUnion {
			continue
		}
		for _, v := range e.Values {
			if v.UnionType == nil {
				continue
			}
			target, err := s.objectAt(v.UnionType.Index)
			if err != nil || v.UnionType.Base != reflection.BaseTypeObj {
				return errors.Verification("union %q member %q does not reference an object", e.Name, v.Name)
			}
			if target.IsStruct {
				return errors.Verification("union %q member %q references struct %q", e.Name, v.Name, target.Name)
			}
		}
	}
	return nil
}

func (s *Schema) checkField(obj *Object, f *Field) error {
	t := f.Type
	switch {
	case t.IsObject(), t.IsVectorOfObjects(), t.IsArrayOfObjects():
		if _, err := s.objectAt(t.Index); err != nil {
			return errors.Verification("%s.%s: %v", obj.Name, f.Name, err)
		}
	case t.Base == reflection.BaseTypeUnion, t.Base == reflection.BaseTypeUType:
		if t.Index < 0 || t.Index >= len(s.Enums) {
			return errors.Verification("%s.%s: enum index %d out of range", obj.Name, f.Name, t.Index)
		}
		if !s.Enums[t.Index].IsUnion {
			return errors.Verification("%s.%s: enum %q is not a union", obj.Name, f.Name, s.Enums[t.Index].Name)
		}
	}
	return nil
}

func (s *Schema) objectAt(index int) (*Object, error) {
	if index < 0 || index >= len(s.Objects) {
		return nil, errors.Verification("object index %d out of range", index)
	}
	return s.Objects[index], nil
}
