package layout

import (
	"sort"

	"github.com/wippyai/flatdyn/errors"
	"github.com/wippyai/flatdyn/reflection"
	"github.com/wippyai/flatdyn/schema"
	"github.com/wippyai/flatdyn/transcoder/internal/abi"
	"github.com/wippyai/flatdyn/transcoder/internal/types"
)

// Info is the inline footprint of a value inside a struct or table.
type Info struct {
	Size  int
	Align int
}

type Calculator struct {
	schema *schema.Schema
	cache  map[int]Info
}

func NewCalculator(s *schema.Schema) *Calculator {
	return &Calculator{
		schema: s,
		cache:  make(map[int]Info),
	}
}

// Object returns the footprint of a struct object as declared by the schema.
func (c *Calculator) Object(index int) Info {
	if cached, ok := c.cache[index]; ok {
		return cached
	}
	obj := c.schema.Objects[index]
	info := Info{Size: obj.ByteSize, Align: obj.MinAlign}
	if info.Align < 1 {
		info.Align = 1
	}
	c.cache[index] = info
	return info
}

// Element returns the footprint of one element of a vector or array.
func (c *Calculator) Element(t schema.Type) Info {
	if t.Element == reflection.BaseTypeObj {
		obj := c.schema.Objects[t.Index]
		if !obj.IsStruct {
			return Info{Size: 4, Align: 4}
		}
		return c.Object(t.Index)
	}
	size := types.FromBaseType(t.Element).Size()
	return Info{Size: size, Align: size}
}

// Calculate returns the inline footprint of a field type inside a struct.
func (c *Calculator) Calculate(t schema.Type) Info {
	switch t.Base {
	case reflection.BaseTypeObj:
		return c.Object(t.Index)
	case reflection.BaseTypeArray:
		elem := c.Element(t)
		return Info{Size: elem.Size * t.FixedLength, Align: elem.Align}
	}
	size := types.FromBaseType(t.Base).Size()
	return Info{Size: size, Align: size}
}

// CheckStruct validates the declared layout of a struct: a power of two
// alignment, and fields that are inline, aligned, in bounds and disjoint.
func (c *Calculator) CheckStruct(obj *schema.Object) error {
	if obj.ByteSize <= 0 {
		return invalid(obj.Name, "", "struct has no size")
	}
	if !abi.IsPowerOfTwo(obj.MinAlign) {
		return invalid(obj.Name, "", "minalign %d is not a power of two", obj.MinAlign)
	}
	if obj.ByteSize%obj.MinAlign != 0 {
		return invalid(obj.Name, "", "size %d is not a multiple of minalign %d", obj.ByteSize, obj.MinAlign)
	}

	type span struct {
		name       string
		start, end int
	}
	spans := make([]span, 0, len(obj.Fields))

	for i := range obj.Fields {
		f := &obj.Fields[i]
		if err := c.checkInline(f.Type); err != nil {
			return invalid(obj.Name, f.Name, "%s", err)
		}
		info := c.Calculate(f.Type)
		if info.Size <= 0 {
			return invalid(obj.Name, f.Name, "field has no size")
		}
		if info.Align > obj.MinAlign {
			return invalid(obj.Name, f.Name, "alignment %d exceeds struct minalign %d", info.Align, obj.MinAlign)
		}
		if f.Offset != abi.AlignTo(f.Offset, info.Align) {
			return invalid(obj.Name, f.Name, "offset %d not aligned to %d", f.Offset, info.Align)
		}
		if f.Offset+info.Size > obj.ByteSize {
			return invalid(obj.Name, f.Name, "offset %d + size %d exceeds struct size %d", f.Offset, info.Size, obj.ByteSize)
		}
		spans = append(spans, span{name: f.Name, start: f.Offset, end: f.Offset + info.Size})
	}

	sort.Slice(spans, func(a, b int) bool { return spans[a].start < spans[b].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return invalid(obj.Name, spans[i].name, "overlaps field %q", spans[i-1].name)
		}
	}
	return nil
}

func (c *Calculator) checkInline(t schema.Type) error {
	switch t.Base {
	case reflection.BaseTypeObj:
		if !c.schema.Objects[t.Index].IsStruct {
			return errors.InvalidInput(errors.PhaseCompile, "struct field references a table")
		}
		return nil
	case reflection.BaseTypeArray:
		if t.FixedLength <= 0 {
			return errors.InvalidInput(errors.PhaseCompile, "array has no length")
		}
		if t.Element == reflection.BaseTypeObj {
			if !c.schema.Objects[t.Index].IsStruct {
				return errors.InvalidInput(errors.PhaseCompile, "array of tables")
			}
			return nil
		}
		if !types.FromBaseType(t.Element).IsScalar() {
			return errors.InvalidInput(errors.PhaseCompile, "array of "+t.Element.String())
		}
		return nil
	}
	if !types.FromBaseType(t.Base).IsScalar() {
		return errors.InvalidInput(errors.PhaseCompile, t.Base.String()+" inside a struct")
	}
	return nil
}

func invalid(object, field, detail string, args ...any) *errors.Error {
	b := errors.New(errors.PhaseCompile, errors.KindInvalidData).Detail(detail, args...)
	if field != "" {
		b.Path(object, field)
	} else {
		b.Path(object)
	}
	return b.Build()
}
