package transcoder

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/flatdyn/errors"
	"github.com/wippyai/flatdyn/reflection"
	"github.com/wippyai/flatdyn/schema"
	"github.com/wippyai/flatdyn/transcoder/internal/layout"
	"github.com/wippyai/flatdyn/transcoder/internal/types"
)

// Plan holds the build sequences of every object in one schema. Sequences
// refer to each other by index into Sequences, which follows the schema's
// object order. A Plan is immutable and safe for concurrent use.
type Plan struct {
	Schema    *schema.Schema
	byName    map[string]*Sequence
	root      *Sequence
	Name      string
	Sequences []*Sequence
}

// Sequence looks up the build sequence of an object by name.
func (p *Plan) Sequence(object string) (*Sequence, bool) {
	s, ok := p.byName[object]
	return s, ok
}

// Root returns the sequence of the schema's root table, or nil.
func (p *Plan) Root() *Sequence {
	return p.root
}

// FileIdentifier returns the identifier written into buffers whose root is
// the schema's root table, or "" when the schema declares none.
func (p *Plan) FileIdentifier() string {
	if len(p.Schema.FileIdent) != 4 {
		return ""
	}
	return p.Schema.FileIdent
}

type Compiler struct {
	logger *zap.Logger
	cache  sync.Map // *schema.Schema -> *Plan
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// SetLogger routes this compiler's logs to l instead of the package
// logger. It must be called before the compiler is used.
func (c *Compiler) SetLogger(l *zap.Logger) {
	c.logger = l
}

func (c *Compiler) log() *zap.Logger {
	if c.logger != nil {
		return c.logger
	}
	return Logger()
}

// Compile builds sequences for every object in s, eagerly.
func (c *Compiler) Compile(name string, s *schema.Schema) (*Plan, error) {
	if s == nil {
		return nil, errors.InvalidInput(errors.PhaseCompile, "schema cannot be nil")
	}
	if cached, ok := c.cache.Load(s); ok {
		return cached.(*Plan), nil
	}

	st := &compileState{
		schema: s,
		log:    c.log(),
		layout: layout.NewCalculator(s),
		seqs:   make([]*Sequence, len(s.Objects)),
		marks:  make([]mark, len(s.Objects)),
	}
	for i := range s.Objects {
		if err := st.object(i); err != nil {
			return nil, err
		}
	}

	plan := &Plan{
		Name:      name,
		Schema:    s,
		Sequences: st.seqs,
		byName:    make(map[string]*Sequence, len(st.seqs)),
	}
	for _, seq := range st.seqs {
		plan.byName[seq.Name] = seq
	}
	if s.RootTable != nil {
		plan.root = st.seqs[s.RootTable.Index]
	}

	c.log().Debug("compiled schema",
		zap.String("schema", name),
		zap.Int("objects", len(plan.Sequences)))

	actual, _ := c.cache.LoadOrStore(s, plan)
	return actual.(*Plan), nil
}

// Evict drops the cached plan of s.
func (c *Compiler) Evict(s *schema.Schema) {
	c.cache.Delete(s)
}

// Len returns the number of cached plans.
func (c *Compiler) Len() int {
	n := 0
	c.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

type mark uint8

const (
	unvisited mark = iota
	inProgress
	done
)

type compileState struct {
	schema *schema.Schema
	log    *zap.Logger
	layout *layout.Calculator
	seqs   []*Sequence
	marks  []mark
}

func (st *compileState) object(index int) error {
	obj := st.schema.Objects[index]
	switch st.marks[index] {
	case done:
		return nil
	case inProgress:
		// Tables reach each other through offsets, so a table that is still
		// being compiled is resolved by index. Structs are stored inline and
		// cannot contain themselves.
		if obj.IsStruct {
			return errors.New(errors.PhaseCompile, errors.KindCycle).
				Path(obj.Name).
				Detail("struct %q contains itself", obj.Name).
				Build()
		}
		return nil
	}
	st.marks[index] = inProgress

	if obj.IsStruct {
		if err := st.layout.CheckStruct(obj); err != nil {
			return err
		}
	}

	seq := &Sequence{
		Name:     obj.Name,
		Object:   index,
		IsStruct: obj.IsStruct,
		ByteSize: obj.ByteSize,
		MinAlign: obj.MinAlign,
		NumSlots: obj.NumSlots(),
	}

	for i := range obj.Fields {
		f := &obj.Fields[i]
		cf := st.field(obj, f)
		if !cf.IsNested() {
			seq.Scalar = append(seq.Scalar, cf)
			continue
		}
		if err := st.object(cf.Ref); err != nil {
			return err
		}
		seq.Nested = append(seq.Nested, cf)
	}
	linkUnions(seq.Scalar)

	st.seqs[index] = seq
	st.marks[index] = done
	return nil
}

// linkUnions points each union discriminant at the union it selects for.
func linkUnions(fields []Field) {
	for i := range fields {
		if fields[i].Kind != KindUnion {
			continue
		}
		for j := range fields {
			if fields[j].Name == fields[i].TypeField && fields[j].Kind.IsScalar() {
				fields[j].UnionField = fields[i].Name
			}
		}
	}
}

func (st *compileState) field(obj *schema.Object, f *schema.Field) Field {
	t := f.Type
	cf := Field{
		Name:        f.Name,
		Offset:      f.Offset,
		Slot:        f.Slot(),
		Ref:         -1,
		FixedLength: t.FixedLength,
		Required:    f.Required,
		Deprecated:  f.Deprecated,
	}

	switch t.Base {
	case reflection.BaseTypeObj:
		info := st.layout.Calculate(t)
		cf.Kind = KindTable
		cf.Size, cf.Align = 4, 4
		if st.schema.Objects[t.Index].IsStruct {
			cf.Kind = KindStruct
			cf.Size, cf.Align = info.Size, info.Align
		}
		cf.Ref = t.Index

	case reflection.BaseTypeVector, reflection.BaseTypeArray:
		cf.Kind = types.FromBaseType(t.Base)
		cf.Elem = types.FromBaseType(t.Element)
		if t.Element == reflection.BaseTypeObj {
			cf.Elem = KindTable
			if st.schema.Objects[t.Index].IsStruct {
				cf.Elem = KindStruct
			}
			cf.Ref = t.Index
		}
		elem := st.layout.Element(t)
		cf.ElemSize, cf.ElemAlign = elem.Size, elem.Align
		cf.Size, cf.Align = 4, 4
		if cf.Kind == KindArray {
			info := st.layout.Calculate(t)
			cf.Size, cf.Align = info.Size, info.Align
		}
		if t.Element == reflection.BaseTypeUType || (cf.Elem.IsInteger() && t.Index >= 0) {
			cf.Names = st.enumNames(t.Index)
		}

	case reflection.BaseTypeUnion:
		cf.Kind = KindUnion
		cf.Size, cf.Align = 4, 4
		cf.TypeField = f.Name + "_type"
		cf.Names = st.enumNames(t.Index)
		for _, v := range st.schema.Enums[t.Index].Values {
			c := Case{Name: v.Name, Value: v.Value, Ref: -1}
			if v.UnionType != nil {
				c.Ref = v.UnionType.Index
			}
			cf.Cases = append(cf.Cases, c)
		}

	default:
		cf.Kind = types.FromBaseType(t.Base)
		cf.Size = cf.Kind.Size()
		cf.Align = cf.Size
		if t.Base == reflection.BaseTypeUType || (cf.Kind.IsInteger() && t.Index >= 0) {
			cf.Names = st.enumNames(t.Index)
		}
	}

	if cf.Kind == KindUnsupported {
		st.log.Debug("field type not supported for encoding",
			zap.String("object", obj.Name),
			zap.String("field", f.Name),
			zap.Stringer("type", t.Base))
	}
	return cf
}

func (st *compileState) enumNames(index int) map[string]int64 {
	if index < 0 || index >= len(st.schema.Enums) {
		return nil
	}
	e := st.schema.Enums[index]
	names := make(map[string]int64, len(e.Values))
	for _, v := range e.Values {
		names[v.Name] = v.Value
	}
	return names
}
