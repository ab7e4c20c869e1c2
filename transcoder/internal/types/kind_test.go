package types //nolint:revive // package name is used by internal consumers

import (
	"testing"

	"github.com/wippyai/flatdyn/reflection"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		want string
		kind Kind
	}{
		{"bool", KindBool},
		{"ubyte", KindU8},
		{"byte", KindS8},
		{"ushort", KindU16},
		{"short", KindS16},
		{"uint", KindU32},
		{"int", KindS32},
		{"ulong", KindU64},
		{"long", KindS64},
		{"float", KindF32},
		{"double", KindF64},
		{"string", KindString},
		{"vector", KindVector},
		{"struct", KindStruct},
		{"table", KindTable},
		{"union", KindUnion},
		{"array", KindArray},
		{"unknown", Kind(255)},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.kind.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestKindClasses(t *testing.T) {
	scalars := []Kind{
		KindBool, KindU8, KindS8, KindU16, KindS16,
		KindU32, KindS32, KindU64, KindS64, KindF32, KindF64,
	}
	for _, k := range scalars {
		if !k.IsScalar() {
			t.Errorf("%s should be scalar", k)
		}
		if k.IsOffset() {
			t.Errorf("%s should not be an offset", k)
		}
	}
	for _, k := range []Kind{KindString, KindVector, KindTable, KindUnion} {
		if k.IsScalar() || !k.IsOffset() || k.Size() != 4 {
			t.Errorf("%s classified wrong", k)
		}
	}
	if KindBool.IsInteger() || !KindS64.IsInteger() || KindF32.IsInteger() {
		t.Error("IsInteger")
	}
	if !KindS16.IsSigned() || KindU16.IsSigned() {
		t.Error("IsSigned")
	}
	if !KindF64.IsFloat() || KindU64.IsFloat() {
		t.Error("IsFloat")
	}
	if KindStruct.Size() != 0 || KindArray.Size() != 0 {
		t.Error("struct and array sizes depend on the schema")
	}
}

func TestKindSize(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindBool, 1}, {KindS8, 1}, {KindU16, 2}, {KindS32, 4},
		{KindF32, 4}, {KindU64, 8}, {KindF64, 8},
	}
	for _, tc := range tests {
		if got := tc.kind.Size(); got != tc.want {
			t.Errorf("%s.Size() = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestFromBaseType(t *testing.T) {
	tests := []struct {
		bt   reflection.BaseType
		want Kind
	}{
		{reflection.BaseTypeBool, KindBool},
		{reflection.BaseTypeUType, KindU8},
		{reflection.BaseTypeByte, KindS8},
		{reflection.BaseTypeInt, KindS32},
		{reflection.BaseTypeULong, KindU64},
		{reflection.BaseTypeDouble, KindF64},
		{reflection.BaseTypeString, KindString},
		{reflection.BaseTypeVector, KindVector},
		{reflection.BaseTypeUnion, KindUnion},
		{reflection.BaseTypeArray, KindArray},
		{reflection.BaseTypeObj, KindNone},
		{reflection.BaseTypeVector64, KindUnsupported},
		{reflection.BaseTypeNone, KindUnsupported},
	}
	for _, tc := range tests {
		if got := FromBaseType(tc.bt); got != tc.want {
			t.Errorf("FromBaseType(%s) = %s, want %s", tc.bt, got, tc.want)
		}
	}
}
