package reflection

import (
	"math"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/wippyai/flatdyn/errors"
)

const (
	maxDepth  = 64
	maxTables = 1000000
)

// Verify checks that buf is a structurally sound binary schema: every
// offset, vtable, string and vector that the accessors in this package
// read lies within the buffer, and the file identifier is "BFBS".
// Accessors must not be used on a buffer that failed verification.
func Verify(buf []byte) error {
	if len(buf) < 2*flatbuffers.SizeUOffsetT {
		return errors.Verification("buffer too small: %d bytes", len(buf))
	}
	if uint64(len(buf)) >= math.MaxInt32 {
		return errors.Verification("buffer too large: %d bytes", len(buf))
	}
	if string(buf[flatbuffers.SizeUOffsetT:2*flatbuffers.SizeUOffsetT]) != FileIdentifier {
		return errors.Verification("missing %q file identifier", FileIdentifier)
	}
	v := &verifier{buf: buf}
	root, err := v.offset(0)
	if err != nil {
		return err
	}
	return v.schema(root)
}

type verifier struct {
	buf    []byte
	depth  int
	tables int
}

// tableView is a verified table header.
type tableView struct {
	pos     uint32
	vtable  uint32
	vtSize  uint32
	objSize uint32
}

func (v *verifier) in(pos, size uint64) bool {
	return pos+size <= uint64(len(v.buf))
}

func (v *verifier) aligned(pos uint32, align uint32, what string) error {
	if pos%align != 0 {
		return errors.Verification("%s at %d not aligned to %d", what, pos, align)
	}
	return nil
}

// offset follows the uoffset stored at pos and returns its target.
func (v *verifier) offset(pos uint32) (uint32, error) {
	if !v.in(uint64(pos), flatbuffers.SizeUOffsetT) {
		return 0, errors.Verification("offset at %d out of bounds", pos)
	}
	if err := v.aligned(pos, flatbuffers.SizeUOffsetT, "offset"); err != nil {
		return 0, err
	}
	rel := flatbuffers.GetUOffsetT(v.buf[pos:])
	if rel == 0 || rel >= math.MaxInt32 {
		return 0, errors.Verification("invalid offset %d at %d", rel, pos)
	}
	target := uint64(pos) + uint64(rel)
	if target >= uint64(len(v.buf)) {
		return 0, errors.Verification("offset at %d points outside buffer", pos)
	}
	return uint32(target), nil
}

func (v *verifier) table(pos uint32) (tableView, error) {
	v.tables++
	if v.tables > maxTables {
		return tableView{}, errors.Verification("too many tables")
	}
	if !v.in(uint64(pos), flatbuffers.SizeSOffsetT) {
		return tableView{}, errors.Verification("table at %d out of bounds", pos)
	}
	if err := v.aligned(pos, flatbuffers.SizeSOffsetT, "table"); err != nil {
		return tableView{}, err
	}
	soff := int64(flatbuffers.GetSOffsetT(v.buf[pos:]))
	vt := int64(pos) - soff
	if vt < 0 || !v.in(uint64(vt), 2*flatbuffers.SizeVOffsetT) {
		return tableView{}, errors.Verification("vtable of table at %d out of bounds", pos)
	}
	if err := v.aligned(uint32(vt), flatbuffers.SizeVOffsetT, "vtable"); err != nil {
		return tableView{}, err
	}
	vtSize := uint32(flatbuffers.GetVOffsetT(v.buf[vt:]))
	objSize := uint32(flatbuffers.GetVOffsetT(v.buf[vt+2:]))
	if vtSize < 4 || vtSize%2 != 0 || !v.in(uint64(vt), uint64(vtSize)) {
		return tableView{}, errors.Verification("malformed vtable of size %d at %d", vtSize, vt)
	}
	if objSize < flatbuffers.SizeSOffsetT || !v.in(uint64(pos), uint64(objSize)) {
		return tableView{}, errors.Verification("table at %d of size %d out of bounds", pos, objSize)
	}
	return tableView{pos: pos, vtable: uint32(vt), vtSize: vtSize, objSize: objSize}, nil
}

// field returns the absolute position of the field in slot, or 0 when the
// field is absent.
func (v *verifier) field(t tableView, slot int, size uint32) (uint32, error) {
	entry := uint32(4 + 2*slot)
	if entry+2 > t.vtSize {
		return 0, nil
	}
	rel := uint32(flatbuffers.GetVOffsetT(v.buf[t.vtable+entry:]))
	if rel == 0 {
		return 0, nil
	}
	if rel+size > t.objSize {
		return 0, errors.Verification("field %d of table at %d exceeds table", slot, t.pos)
	}
	pos := t.pos + rel
	if size > 1 {
		if err := v.aligned(pos, size, "field"); err != nil {
			return 0, err
		}
	}
	return pos, nil
}

func (v *verifier) scalar(t tableView, slot int, size uint32) error {
	_, err := v.field(t, slot, size)
	return err
}

// vector verifies the vector header at pos and returns its element count.
func (v *verifier) vector(pos uint32, elemSize uint32) (uint32, error) {
	if !v.in(uint64(pos), flatbuffers.SizeUOffsetT) {
		return 0, errors.Verification("vector at %d out of bounds", pos)
	}
	if err := v.aligned(pos, flatbuffers.SizeUOffsetT, "vector"); err != nil {
		return 0, err
	}
	n := flatbuffers.GetUOffsetT(v.buf[pos:])
	if !v.in(uint64(pos)+flatbuffers.SizeUOffsetT, uint64(n)*uint64(elemSize)) {
		return 0, errors.Verification("vector at %d with %d elements out of bounds", pos, n)
	}
	return uint32(n), nil
}

func (v *verifier) str(pos uint32) error {
	n, err := v.vector(pos, 1)
	if err != nil {
		return err
	}
	end := uint64(pos) + flatbuffers.SizeUOffsetT + uint64(n)
	if !v.in(end, 1) || v.buf[end] != 0 {
		return errors.Verification("string at %d not terminated", pos)
	}
	return nil
}

func (v *verifier) stringField(t tableView, slot int, required bool, what string) error {
	pos, err := v.field(t, slot, flatbuffers.SizeUOffsetT)
	if err != nil {
		return err
	}
	if pos == 0 {
		if required {
			return errors.Verification("%s missing", what)
		}
		return nil
	}
	target, err := v.offset(pos)
	if err != nil {
		return err
	}
	return v.str(target)
}

func (v *verifier) tableField(t tableView, slot int, required bool, what string, visit func(uint32) error) error {
	pos, err := v.field(t, slot, flatbuffers.SizeUOffsetT)
	if err != nil {
		return err
	}
	if pos == 0 {
		if required {
			return errors.Verification("%s missing", what)
		}
		return nil
	}
	target, err := v.offset(pos)
	if err != nil {
		return err
	}
	return v.nested(visit, target)
}

func (v *verifier) tableVectorField(t tableView, slot int, required bool, what string, visit func(uint32) error) error {
	pos, err := v.field(t, slot, flatbuffers.SizeUOffsetT)
	if err != nil {
		return err
	}
	if pos == 0 {
		if required {
			return errors.Verification("%s missing", what)
		}
		return nil
	}
	vec, err := v.offset(pos)
	if err != nil {
		return err
	}
	n, err := v.vector(vec, flatbuffers.SizeUOffsetT)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		elem, err := v.offset(vec + flatbuffers.SizeUOffsetT + i*flatbuffers.SizeUOffsetT)
		if err != nil {
			return err
		}
		if err := v.nested(visit, elem); err != nil {
			return err
		}
	}
	return nil
}

func (v *verifier) nested(visit func(uint32) error, pos uint32) error {
	v.depth++
	defer func() { v.depth-- }()
	if v.depth > maxDepth {
		return errors.Verification("nesting deeper than %d", maxDepth)
	}
	return visit(pos)
}

func (v *verifier) schema(pos uint32) error {
	t, err := v.table(pos)
	if err != nil {
		return err
	}
	if err := v.tableVectorField(t, 0, true, "schema objects", v.object); err != nil {
		return err
	}
	if err := v.tableVectorField(t, 1, true, "schema enums", v.enum); err != nil {
		return err
	}
	if err := v.stringField(t, 2, false, "schema file_ident"); err != nil {
		return err
	}
	if err := v.stringField(t, 3, false, "schema file_ext"); err != nil {
		return err
	}
	return v.tableField(t, 4, false, "schema root_table", v.object)
}

func (v *verifier) object(pos uint32) error {
	t, err := v.table(pos)
	if err != nil {
		return err
	}
	if err := v.stringField(t, 0, true, "object name"); err != nil {
		return err
	}
	if err := v.tableVectorField(t, 1, true, "object fields", v.fieldDef); err != nil {
		return err
	}
	if err := v.scalar(t, 2, 1); err != nil {
		return err
	}
	if err := v.scalar(t, 3, 4); err != nil {
		return err
	}
	return v.scalar(t, 4, 4)
}

func (v *verifier) fieldDef(pos uint32) error {
	t, err := v.table(pos)
	if err != nil {
		return err
	}
	if err := v.stringField(t, 0, true, "field name"); err != nil {
		return err
	}
	if err := v.tableField(t, 1, true, "field type", v.typ); err != nil {
		return err
	}
	for _, s := range []struct {
		slot int
		size uint32
	}{
		{2, 2}, {3, 2}, {4, 8}, {5, 8}, {6, 1}, {7, 1}, {8, 1}, {11, 1}, {12, 2},
	} {
		if err := v.scalar(t, s.slot, s.size); err != nil {
			return err
		}
	}
	return nil
}

func (v *verifier) typ(pos uint32) error {
	t, err := v.table(pos)
	if err != nil {
		return err
	}
	for _, s := range []struct {
		slot int
		size uint32
	}{
		{0, 1}, {1, 1}, {2, 4}, {3, 2}, {4, 4}, {5, 4},
	} {
		if err := v.scalar(t, s.slot, s.size); err != nil {
			return err
		}
	}
	return nil
}

func (v *verifier) enum(pos uint32) error {
	t, err := v.table(pos)
	if err != nil {
		return err
	}
	if err := v.stringField(t, 0, true, "enum name"); err != nil {
		return err
	}
	if err := v.tableVectorField(t, 1, true, "enum values", v.enumVal); err != nil {
		return err
	}
	if err := v.scalar(t, 2, 1); err != nil {
		return err
	}
	return v.tableField(t, 3, true, "enum underlying_type", v.typ)
}

func (v *verifier) enumVal(pos uint32) error {
	t, err := v.table(pos)
	if err != nil {
		return err
	}
	if err := v.stringField(t, 0, true, "enum value name"); err != nil {
		return err
	}
	if err := v.scalar(t, 1, 8); err != nil {
		return err
	}
	return v.tableField(t, 3, false, "enum value union_type", v.typ)
}
