package reflection_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/wippyai/flatdyn/errors"
	"github.com/wippyai/flatdyn/reflection"
	"github.com/wippyai/flatdyn/schema/schematest"
)

func TestAccessors(t *testing.T) {
	buf := schematest.Monster().Build()
	if err := reflection.Verify(buf); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	s := reflection.GetRootAsSchema(buf, 0)
	if got := s.ObjectsLength(); got != 4 {
		t.Fatalf("ObjectsLength = %d, want 4", got)
	}
	if got := string(s.FileIdent()); got != "MONS" {
		t.Errorf("FileIdent = %q", got)
	}
	if got := string(s.FileExt()); got != "mon" {
		t.Errorf("FileExt = %q", got)
	}
	root := s.RootTable(nil)
	if root == nil || string(root.Name()) != "Monster" {
		t.Fatalf("RootTable = %v", root)
	}

	var obj reflection.Object
	if !s.Objects(&obj, schematest.Vec3Obj) {
		t.Fatal("Objects returned false")
	}
	if string(obj.Name()) != "Vec3" || !obj.IsStruct() || obj.Bytesize() != 12 || obj.Minalign() != 4 {
		t.Errorf("Vec3 = %s struct=%v size=%d align=%d", obj.Name(), obj.IsStruct(), obj.Bytesize(), obj.Minalign())
	}

	// fields are stored sorted by name
	var f reflection.Field
	var prev string
	for i := 0; i < obj.FieldsLength(); i++ {
		obj.Fields(&f, i)
		name := string(f.Name())
		if name < prev {
			t.Errorf("field %q stored after %q", name, prev)
		}
		prev = name
	}

	s.Objects(&obj, schematest.MonsterObj)
	found := false
	for i := 0; i < obj.FieldsLength(); i++ {
		obj.Fields(&f, i)
		if string(f.Name()) != "name" {
			continue
		}
		found = true
		if f.Id() != 3 || !f.Required() {
			t.Errorf("name field id=%d required=%v", f.Id(), f.Required())
		}
		if bt := f.Type(nil).BaseType(); bt != reflection.BaseTypeString {
			t.Errorf("name field type = %v", bt)
		}
	}
	if !found {
		t.Error("Monster.name not found")
	}

	var e reflection.Enum
	s.Enums(&e, schematest.EquipmentEnum)
	if !e.IsUnion() || e.ValuesLength() != 2 {
		t.Fatalf("Equipment union=%v values=%d", e.IsUnion(), e.ValuesLength())
	}
	var ev reflection.EnumVal
	e.Values(&ev, 1)
	ut := ev.UnionType(nil)
	if ut == nil || ut.BaseType() != reflection.BaseTypeObj || ut.Index() != schematest.WeaponObj {
		t.Errorf("Weapon union type = %v", ut)
	}
	e.Values(&ev, 0)
	if ev.UnionType(nil) != nil {
		t.Error("NONE should have no union type")
	}
}

func TestTypeDefaults(t *testing.T) {
	buf := schematest.Point().Build()
	s := reflection.GetRootAsSchema(buf, 0)
	var obj reflection.Object
	s.Objects(&obj, 0)
	var f reflection.Field
	obj.Fields(&f, 0)
	typ := f.Type(nil)
	if typ.Index() != -1 {
		t.Errorf("Index = %d, want -1", typ.Index())
	}
	if typ.BaseSize() != 4 {
		t.Errorf("BaseSize = %d, want default 4", typ.BaseSize())
	}
}

func TestBaseTypeString(t *testing.T) {
	tests := []struct {
		bt   reflection.BaseType
		want string
	}{
		{reflection.BaseTypeBool, "Bool"},
		{reflection.BaseTypeULong, "ULong"},
		{reflection.BaseTypeVector64, "Vector64"},
		{reflection.BaseType(99), "BaseType(99)"},
	}
	for _, tt := range tests {
		if got := tt.bt.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.bt, got, tt.want)
		}
	}
}

func TestVerify_Rejects(t *testing.T) {
	good := schematest.Point().Build()

	tests := []struct {
		name string
		buf  func() []byte
	}{
		{"empty", func() []byte { return nil }},
		{"too_small", func() []byte { return []byte{1, 2, 3} }},
		{"wrong_identifier", func() []byte {
			b := append([]byte(nil), good...)
			copy(b[4:8], "NOPE")
			return b
		}},
		{"truncated", func() []byte { return append([]byte(nil), good[:len(good)/2]...) }},
		{"root_out_of_bounds", func() []byte {
			b := append([]byte(nil), good...)
			b[0], b[1], b[2], b[3] = 0xf0, 0xff, 0xff, 0x0f
			return b
		}},
		{"zero_root", func() []byte {
			b := append([]byte(nil), good...)
			b[0], b[1], b[2], b[3] = 0, 0, 0, 0
			return b
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reflection.Verify(tt.buf())
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsKind(err, errors.KindVerification) {
				t.Errorf("expected verification error, got %v", err)
			}
		})
	}
}

func TestVerify_Fixtures(t *testing.T) {
	for name, s := range map[string]schematest.Schema{
		"point":   schematest.Point(),
		"monster": schematest.Monster(),
		"empty":   {RootTable: -1},
	} {
		t.Run(name, func(t *testing.T) {
			if err := reflection.Verify(s.Build()); err != nil {
				t.Fatalf("Verify: %v", err)
			}
		})
	}
}

func TestVerify_NeverPanics(t *testing.T) {
	good := schematest.Monster().Build()

	properties := gopter.NewProperties(nil)
	properties.Property("corrupting one byte never panics", prop.ForAll(
		func(pos int, val byte) bool {
			b := append([]byte(nil), good...)
			b[pos%len(b)] = val
			_ = reflection.Verify(b)
			return true
		},
		gen.IntRange(0, len(good)-1),
		gen.UInt8(),
	))
	properties.Property("dropping the tail never verifies", prop.ForAll(
		func(n int) bool {
			return reflection.Verify(good[:n]) != nil
		},
		gen.IntRange(0, len(good)/2),
	))
	properties.TestingRun(t)
}
