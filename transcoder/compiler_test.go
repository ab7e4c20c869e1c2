package transcoder

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/flatdyn/errors"
	"github.com/wippyai/flatdyn/reflection"
	"github.com/wippyai/flatdyn/schema"
	"github.com/wippyai/flatdyn/schema/schematest"
)

type catalog map[string]*Plan

func (c catalog) Plan(name string) (*Plan, error) {
	p, ok := c[name]
	if !ok {
		return nil, errors.SchemaNotFound(name)
	}
	return p, nil
}

func parse(t *testing.T, s schematest.Schema) *schema.Schema {
	t.Helper()
	sc, err := schema.Parse(s.Build())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return sc
}

func mustPlan(t *testing.T, name string, s schematest.Schema) *Plan {
	t.Helper()
	plan, err := NewCompiler().Compile(name, parse(t, s))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return plan
}

func fieldNames(fields []Field) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names
}

func TestCompile_Partitions(t *testing.T) {
	plan := mustPlan(t, "monster", schematest.Monster())

	tests := []struct {
		object string
		nested []string
		scalar []string
		slots  int
	}{
		{
			object: "Monster",
			nested: []string{"pos", "weapons", "path", "enemy", "route"},
			scalar: []string{"mana", "hp", "name", "inventory", "friendly", "equipped_type", "equipped", "tags", "score", "id"},
			slots:  15,
		},
		{
			object: "Path",
			nested: []string{"start", "end"},
			scalar: []string{"steps", "closed"},
			slots:  4,
		},
		{
			object: "Vec3",
			nested: []string{},
			scalar: []string{"x", "y", "z"},
			slots:  3,
		},
		{
			object: "Weapon",
			nested: []string{},
			scalar: []string{"name", "damage"},
			slots:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.object, func(t *testing.T) {
			seq, ok := plan.Sequence(tt.object)
			if !ok {
				t.Fatalf("no sequence for %s", tt.object)
			}
			if diff := cmp.Diff(tt.nested, fieldNames(seq.Nested)); diff != "" {
				t.Errorf("nested (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.scalar, fieldNames(seq.Scalar)); diff != "" {
				t.Errorf("scalar (-want +got):\n%s", diff)
			}
			if seq.NumSlots != tt.slots {
				t.Errorf("NumSlots = %d, want %d", seq.NumSlots, tt.slots)
			}
			obj, _ := plan.Schema.Object(tt.object)
			if seq.Fields() != len(obj.Fields) {
				t.Errorf("Fields() = %d, schema has %d", seq.Fields(), len(obj.Fields))
			}
		})
	}
}

func TestCompile_FieldDetails(t *testing.T) {
	plan := mustPlan(t, "monster", schematest.Monster())
	monster := plan.Root()
	if monster == nil || monster.Name != "Monster" {
		t.Fatalf("Root() = %v", monster)
	}

	byName := make(map[string]Field)
	for _, f := range monster.Nested {
		byName[f.Name] = f
	}
	for _, f := range monster.Scalar {
		byName[f.Name] = f
	}

	t.Run("struct", func(t *testing.T) {
		f := byName["pos"]
		if f.Kind != KindStruct || f.Ref != schematest.Vec3Obj || f.Size != 12 || f.Align != 4 {
			t.Errorf("pos = %+v", f)
		}
	})

	t.Run("self_reference", func(t *testing.T) {
		f := byName["enemy"]
		if f.Kind != KindTable || f.Ref != schematest.MonsterObj {
			t.Errorf("enemy = %+v", f)
		}
	})

	t.Run("vector_of_structs", func(t *testing.T) {
		f := byName["path"]
		if f.Kind != KindVector || f.Elem != KindStruct || f.ElemSize != 12 || f.ElemAlign != 4 {
			t.Errorf("path = %+v", f)
		}
	})

	t.Run("union", func(t *testing.T) {
		f := byName["equipped"]
		if f.Kind != KindUnion || f.TypeField != "equipped_type" {
			t.Fatalf("equipped = %+v", f)
		}
		want := []Case{
			{Name: "NONE", Value: 0, Ref: -1},
			{Name: "Weapon", Value: 1, Ref: schematest.WeaponObj},
		}
		if diff := cmp.Diff(want, f.Cases); diff != "" {
			t.Errorf("cases (-want +got):\n%s", diff)
		}
	})

	t.Run("discriminant", func(t *testing.T) {
		f := byName["equipped_type"]
		if f.Kind != KindU8 {
			t.Errorf("Kind = %v", f.Kind)
		}
		if f.UnionField != "equipped" {
			t.Errorf("UnionField = %q, want equipped", f.UnionField)
		}
		if diff := cmp.Diff(map[string]int64{"NONE": 0, "Weapon": 1}, f.Names); diff != "" {
			t.Errorf("names (-want +got):\n%s", diff)
		}
	})

	t.Run("flags", func(t *testing.T) {
		if !byName["name"].Required || !byName["friendly"].Deprecated {
			t.Error("required/deprecated flags lost")
		}
		if byName["route"].Slot != 14 || byName["route"].Size != 32 {
			t.Errorf("route = %+v", byName["route"])
		}
	})
}

func TestCompile_ArrayField(t *testing.T) {
	plan := mustPlan(t, "monster", schematest.Monster())
	seq, _ := plan.Sequence("Path")
	f := seq.Scalar[0]
	if f.Name != "steps" || f.Kind != KindArray || f.Elem != KindU16 || f.FixedLength != 2 || f.Size != 4 || f.Offset != 24 {
		t.Errorf("steps = %+v", f)
	}
}

func TestCompile_StructCycle(t *testing.T) {
	s := schematest.Schema{
		Objects: []schematest.Object{
			schematest.Struct("Loop", 4, 4,
				schematest.At("self", schematest.Obj(0), 0),
			),
		},
		RootTable: -1,
	}
	_, err := NewCompiler().Compile("loop", parse(t, s))
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !errors.IsKind(err, errors.KindCycle) {
		t.Errorf("expected cycle, got %v", err)
	}
}

func TestCompile_BadStructLayout(t *testing.T) {
	s := schematest.Schema{
		Objects: []schematest.Object{
			schematest.Struct("Skew", 4, 8,
				schematest.At("a", schematest.Scalar(reflection.BaseTypeInt), 2),
			),
		},
		RootTable: -1,
	}
	_, err := NewCompiler().Compile("skew", parse(t, s))
	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %v", err)
	}
	if e.Phase != errors.PhaseCompile || e.Kind != errors.KindInvalidData {
		t.Errorf("got %v/%v", e.Phase, e.Kind)
	}
	if diff := cmp.Diff([]string{"Skew", "a"}, e.Path); diff != "" {
		t.Errorf("path (-want +got):\n%s", diff)
	}
}

func TestCompiler_Cache(t *testing.T) {
	c := NewCompiler()
	sc := parse(t, schematest.Point())

	first, err := c.Compile("point", sc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	second, _ := c.Compile("point", sc)
	if first != second {
		t.Error("second compile should hit the cache")
	}

	c.Evict(sc)
	third, _ := c.Compile("point", sc)
	if third == first {
		t.Error("evicted plan should be rebuilt")
	}

	if _, err := c.Compile("nil", nil); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("nil schema: %v", err)
	}
}

func TestPlan_FileIdentifier(t *testing.T) {
	if got := mustPlan(t, "monster", schematest.Monster()).FileIdentifier(); got != "MONS" {
		t.Errorf("FileIdentifier = %q", got)
	}
	if got := mustPlan(t, "point", schematest.Point()).FileIdentifier(); got != "" {
		t.Errorf("FileIdentifier = %q, want empty", got)
	}
}
