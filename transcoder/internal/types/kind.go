package types

import "github.com/wippyai/flatdyn/reflection"

type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindU8
	KindS8
	KindU16
	KindS16
	KindU32
	KindS32
	KindU64
	KindS64
	KindF32
	KindF64
	KindString
	KindVector
	KindStruct
	KindTable
	KindUnion
	KindArray
	KindUnsupported
)

var kindNames = [...]string{
	KindNone:        "none",
	KindBool:        "bool",
	KindU8:          "ubyte",
	KindS8:          "byte",
	KindU16:         "ushort",
	KindS16:         "short",
	KindU32:         "uint",
	KindS32:         "int",
	KindU64:         "ulong",
	KindS64:         "long",
	KindF32:         "float",
	KindF64:         "double",
	KindString:      "string",
	KindVector:      "vector",
	KindStruct:      "struct",
	KindTable:       "table",
	KindUnion:       "union",
	KindArray:       "array",
	KindUnsupported: "unsupported",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsScalar() bool {
	return k >= KindBool && k <= KindF64
}

func (k Kind) IsInteger() bool {
	return k >= KindU8 && k <= KindS64
}

func (k Kind) IsSigned() bool {
	switch k {
	case KindS8, KindS16, KindS32, KindS64:
		return true
	}
	return false
}

func (k Kind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

// IsOffset reports whether a table stores the field as a uoffset to data
// written elsewhere in the buffer.
func (k Kind) IsOffset() bool {
	switch k {
	case KindString, KindVector, KindTable, KindUnion:
		return true
	}
	return false
}

// Size returns the inline width of scalars and offsets; 0 for structs and
// arrays, whose width depends on the schema.
func (k Kind) Size() int {
	switch k {
	case KindBool, KindU8, KindS8:
		return 1
	case KindU16, KindS16:
		return 2
	case KindU32, KindS32, KindF32:
		return 4
	case KindU64, KindS64, KindF64:
		return 8
	case KindString, KindVector, KindTable, KindUnion:
		return 4
	}
	return 0
}

// FromBaseType maps a reflection base type. Obj maps to KindNone because
// struct versus table depends on the referenced object.
func FromBaseType(bt reflection.BaseType) Kind {
	switch bt {
	case reflection.BaseTypeBool:
		return KindBool
	case reflection.BaseTypeUType, reflection.BaseTypeUByte:
		return KindU8
	case reflection.BaseTypeByte:
		return KindS8
	case reflection.BaseTypeShort:
		return KindS16
	case reflection.BaseTypeUShort:
		return KindU16
	case reflection.BaseTypeInt:
		return KindS32
	case reflection.BaseTypeUInt:
		return KindU32
	case reflection.BaseTypeLong:
		return KindS64
	case reflection.BaseTypeULong:
		return KindU64
	case reflection.BaseTypeFloat:
		return KindF32
	case reflection.BaseTypeDouble:
		return KindF64
	case reflection.BaseTypeString:
		return KindString
	case reflection.BaseTypeVector:
		return KindVector
	case reflection.BaseTypeUnion:
		return KindUnion
	case reflection.BaseTypeArray:
		return KindArray
	case reflection.BaseTypeObj:
		return KindNone
	}
	return KindUnsupported
}
