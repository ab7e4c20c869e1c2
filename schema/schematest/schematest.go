// Package schematest builds binary schema buffers in memory for tests.
//
// The buffers follow the layout flatc emits with --schema -b: objects and
// enums appear in the order given, fields are serialized sorted by name,
// and the buffer carries the "BFBS" file identifier.
package schematest

import (
	"sort"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/wippyai/flatdyn/reflection"
)

type Type struct {
	Base        reflection.BaseType
	Element     reflection.BaseType
	Index       int32
	FixedLength uint16
}

type Field struct {
	Name           string
	Type           Type
	ID             uint16
	Offset         uint16
	DefaultInteger int64
	DefaultReal    float64
	Deprecated     bool
	Required       bool
}

type Object struct {
	Name     string
	Fields   []Field
	IsStruct bool
	MinAlign int32
	ByteSize int32
}

type EnumVal struct {
	Name      string
	Value     int64
	UnionType *Type
}

type Enum struct {
	Name       string
	Values     []EnumVal
	IsUnion    bool
	Underlying Type
}

type Schema struct {
	Objects   []Object
	Enums     []Enum
	FileIdent string
	FileExt   string
	// RootTable indexes Objects; negative means no root table.
	RootTable int
}

func Scalar(bt reflection.BaseType) Type {
	return Type{Base: bt, Index: -1}
}

func String() Type {
	return Type{Base: reflection.BaseTypeString, Index: -1}
}

func Obj(index int32) Type {
	return Type{Base: reflection.BaseTypeObj, Index: index}
}

func Vector(elem reflection.BaseType) Type {
	return Type{Base: reflection.BaseTypeVector, Element: elem, Index: -1}
}

func VectorOfObj(index int32) Type {
	return Type{Base: reflection.BaseTypeVector, Element: reflection.BaseTypeObj, Index: index}
}

func Array(elem reflection.BaseType, n uint16) Type {
	return Type{Base: reflection.BaseTypeArray, Element: elem, Index: -1, FixedLength: n}
}

func ArrayOfObj(index int32, n uint16) Type {
	return Type{Base: reflection.BaseTypeArray, Element: reflection.BaseTypeObj, Index: index, FixedLength: n}
}

// Union is the value field of a union; UnionType is its hidden
// discriminant sibling. Both index the union enum.
func Union(enum int32) Type {
	return Type{Base: reflection.BaseTypeUnion, Index: enum}
}

func UnionType(enum int32) Type {
	return Type{Base: reflection.BaseTypeUType, Index: enum}
}

// Table declares a table whose fields get ids in declaration order.
func Table(name string, fields ...Field) Object {
	for i := range fields {
		fields[i].ID = uint16(i)
		fields[i].Offset = uint16(4 + 2*i)
	}
	return Object{Name: name, Fields: fields}
}

// Struct declares a struct. Field offsets must be set by the caller.
func Struct(name string, minAlign, byteSize int32, fields ...Field) Object {
	for i := range fields {
		fields[i].ID = uint16(i)
	}
	return Object{Name: name, Fields: fields, IsStruct: true, MinAlign: minAlign, ByteSize: byteSize}
}

func F(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// At declares a struct field at a byte offset.
func At(name string, t Type, offset uint16) Field {
	return Field{Name: name, Type: t, Offset: offset}
}

func (s Schema) Build() []byte {
	b := flatbuffers.NewBuilder(1024)

	objects := make([]flatbuffers.UOffsetT, len(s.Objects))
	for i, o := range s.Objects {
		objects[i] = buildObject(b, o)
	}
	enums := make([]flatbuffers.UOffsetT, len(s.Enums))
	for i, e := range s.Enums {
		enums[i] = buildEnum(b, e)
	}

	reflection.SchemaStartObjectsVector(b, len(objects))
	for i := len(objects) - 1; i >= 0; i-- {
		b.PrependUOffsetT(objects[i])
	}
	objVec := b.EndVector(len(objects))

	reflection.SchemaStartEnumsVector(b, len(enums))
	for i := len(enums) - 1; i >= 0; i-- {
		b.PrependUOffsetT(enums[i])
	}
	enumVec := b.EndVector(len(enums))

	var ident, ext flatbuffers.UOffsetT
	if s.FileIdent != "" {
		ident = b.CreateString(s.FileIdent)
	}
	if s.FileExt != "" {
		ext = b.CreateString(s.FileExt)
	}

	reflection.SchemaStart(b)
	reflection.SchemaAddObjects(b, objVec)
	reflection.SchemaAddEnums(b, enumVec)
	if ident != 0 {
		reflection.SchemaAddFileIdent(b, ident)
	}
	if ext != 0 {
		reflection.SchemaAddFileExt(b, ext)
	}
	if s.RootTable >= 0 && s.RootTable < len(objects) {
		reflection.SchemaAddRootTable(b, objects[s.RootTable])
	}
	root := reflection.SchemaEnd(b)
	reflection.FinishSchemaBuffer(b, root)

	out := b.FinishedBytes()
	buf := make([]byte, len(out))
	copy(buf, out)
	return buf
}

func buildType(b *flatbuffers.Builder, t Type) flatbuffers.UOffsetT {
	reflection.TypeStart(b)
	reflection.TypeAddBaseType(b, t.Base)
	reflection.TypeAddElement(b, t.Element)
	reflection.TypeAddIndex(b, t.Index)
	reflection.TypeAddFixedLength(b, t.FixedLength)
	return reflection.TypeEnd(b)
}

func buildObject(b *flatbuffers.Builder, o Object) flatbuffers.UOffsetT {
	fields := make([]Field, len(o.Fields))
	copy(fields, o.Fields)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	offs := make([]flatbuffers.UOffsetT, len(fields))
	for i, f := range fields {
		name := b.CreateString(f.Name)
		typ := buildType(b, f.Type)
		reflection.FieldStart(b)
		reflection.FieldAddName(b, name)
		reflection.FieldAddType(b, typ)
		reflection.FieldAddId(b, f.ID)
		reflection.FieldAddOffset(b, f.Offset)
		reflection.FieldAddDefaultInteger(b, f.DefaultInteger)
		reflection.FieldAddDefaultReal(b, f.DefaultReal)
		reflection.FieldAddDeprecated(b, f.Deprecated)
		reflection.FieldAddRequired(b, f.Required)
		offs[i] = reflection.FieldEnd(b)
	}

	reflection.ObjectStartFieldsVector(b, len(offs))
	for i := len(offs) - 1; i >= 0; i-- {
		b.PrependUOffsetT(offs[i])
	}
	vec := b.EndVector(len(offs))
	name := b.CreateString(o.Name)

	reflection.ObjectStart(b)
	reflection.ObjectAddName(b, name)
	reflection.ObjectAddFields(b, vec)
	reflection.ObjectAddIsStruct(b, o.IsStruct)
	reflection.ObjectAddMinalign(b, o.MinAlign)
	reflection.ObjectAddBytesize(b, o.ByteSize)
	return reflection.ObjectEnd(b)
}

func buildEnum(b *flatbuffers.Builder, e Enum) flatbuffers.UOffsetT {
	vals := make([]flatbuffers.UOffsetT, len(e.Values))
	for i, v := range e.Values {
		name := b.CreateString(v.Name)
		var ut flatbuffers.UOffsetT
		if v.UnionType != nil {
			ut = buildType(b, *v.UnionType)
		}
		reflection.EnumValStart(b)
		reflection.EnumValAddName(b, name)
		reflection.EnumValAddValue(b, v.Value)
		if ut != 0 {
			reflection.EnumValAddUnionType(b, ut)
		}
		vals[i] = reflection.EnumValEnd(b)
	}

	reflection.EnumStartValuesVector(b, len(vals))
	for i := len(vals) - 1; i >= 0; i-- {
		b.PrependUOffsetT(vals[i])
	}
	vec := b.EndVector(len(vals))
	name := b.CreateString(e.Name)
	underlying := e.Underlying
	if underlying.Base == reflection.BaseTypeNone {
		underlying = Scalar(reflection.BaseTypeUType)
		if !e.IsUnion {
			underlying = Scalar(reflection.BaseTypeInt)
		}
	}
	under := buildType(b, underlying)

	reflection.EnumStart(b)
	reflection.EnumAddName(b, name)
	reflection.EnumAddValues(b, vec)
	reflection.EnumAddIsUnion(b, e.IsUnion)
	reflection.EnumAddUnderlyingType(b, under)
	return reflection.EnumEnd(b)
}
