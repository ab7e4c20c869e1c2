package layout

import (
	"testing"

	"github.com/wippyai/flatdyn/errors"
	"github.com/wippyai/flatdyn/reflection"
	"github.com/wippyai/flatdyn/schema"
	"github.com/wippyai/flatdyn/schema/schematest"
)

func parse(t *testing.T, s schematest.Schema) *schema.Schema {
	t.Helper()
	parsed, err := schema.Parse(s.Build())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return parsed
}

func TestCalculate(t *testing.T) {
	s := parse(t, schematest.Monster())
	c := NewCalculator(s)

	tests := []struct {
		name string
		typ  schema.Type
		want Info
	}{
		{"bool", schema.Type{Base: reflection.BaseTypeBool}, Info{1, 1}},
		{"short", schema.Type{Base: reflection.BaseTypeShort}, Info{2, 2}},
		{"double", schema.Type{Base: reflection.BaseTypeDouble}, Info{8, 8}},
		{"vec3", schema.Type{Base: reflection.BaseTypeObj, Index: schematest.Vec3Obj}, Info{12, 4}},
		{"path", schema.Type{Base: reflection.BaseTypeObj, Index: schematest.PathObj}, Info{32, 4}},
		{"ushort_array", schema.Type{Base: reflection.BaseTypeArray, Element: reflection.BaseTypeUShort, FixedLength: 3}, Info{6, 2}},
		{"vec3_array", schema.Type{Base: reflection.BaseTypeArray, Element: reflection.BaseTypeObj, Index: schematest.Vec3Obj, FixedLength: 2}, Info{24, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Calculate(tt.typ); got != tt.want {
				t.Errorf("Calculate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestElement(t *testing.T) {
	s := parse(t, schematest.Monster())
	c := NewCalculator(s)

	if got := c.Element(schema.Type{Base: reflection.BaseTypeVector, Element: reflection.BaseTypeObj, Index: schematest.WeaponObj}); got != (Info{4, 4}) {
		t.Errorf("table element = %+v", got)
	}
	if got := c.Element(schema.Type{Base: reflection.BaseTypeVector, Element: reflection.BaseTypeObj, Index: schematest.Vec3Obj}); got != (Info{12, 4}) {
		t.Errorf("struct element = %+v", got)
	}
	if got := c.Element(schema.Type{Base: reflection.BaseTypeVector, Element: reflection.BaseTypeULong}); got != (Info{8, 8}) {
		t.Errorf("ulong element = %+v", got)
	}
}

func TestCheckStruct_Valid(t *testing.T) {
	s := parse(t, schematest.Monster())
	c := NewCalculator(s)
	for _, name := range []string{"Vec3", "Path"} {
		obj, _ := s.Object(name)
		if err := c.CheckStruct(obj); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestCheckStruct_Invalid(t *testing.T) {
	i32 := schematest.Scalar(reflection.BaseTypeInt)
	tests := []struct {
		name   string
		object schematest.Object
		extra  []schematest.Object
	}{
		{"no_size", schematest.Struct("S", 4, 0, schematest.At("a", i32, 0)), nil},
		{"bad_minalign", schematest.Struct("S", 3, 6, schematest.At("a", i32, 0)), nil},
		{"size_not_multiple", schematest.Struct("S", 4, 6, schematest.At("a", i32, 0)), nil},
		{"out_of_bounds", schematest.Struct("S", 4, 4, schematest.At("a", i32, 2)), nil},
		{"misaligned", schematest.Struct("S", 4, 8, schematest.At("a", i32, 2)), nil},
		{"overlap", schematest.Struct("S", 4, 8, schematest.At("a", i32, 0), schematest.At("b", schematest.Scalar(reflection.BaseTypeShort), 2)), nil},
		{"align_exceeds_minalign", schematest.Struct("S", 4, 8, schematest.At("a", schematest.Scalar(reflection.BaseTypeLong), 0)), nil},
		{"string_field", schematest.Struct("S", 4, 4, schematest.At("a", schematest.String(), 0)), nil},
		{"table_field", schematest.Struct("S", 4, 4, schematest.At("a", schematest.Obj(1), 0)), []schematest.Object{schematest.Table("T")}},
		{"empty_array", schematest.Struct("S", 4, 4, schematest.At("a", schematest.Array(reflection.BaseTypeInt, 0), 0)), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := schematest.Schema{Objects: append([]schematest.Object{tt.object}, tt.extra...), RootTable: -1}
			s := parse(t, sc)
			err := NewCalculator(s).CheckStruct(s.Objects[0])
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsKind(err, errors.KindInvalidData) {
				t.Errorf("expected invalid data, got %v", err)
			}
		})
	}
}
