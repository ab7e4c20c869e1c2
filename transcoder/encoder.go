package transcoder

import (
	"strconv"

	flatbuffers "github.com/google/flatbuffers/go"
	"go.uber.org/zap"

	"github.com/wippyai/flatdyn/errors"
	"github.com/wippyai/flatdyn/transcoder/internal/abi"
	"github.com/wippyai/flatdyn/value"
)

// Safety limits to prevent memory exhaustion and runaway recursion.
const (
	MaxStringSize = abi.MaxStringSize
	MaxListLength = abi.MaxListLength
	MaxDepth      = 256

	// arenas that grew past this are dropped on reset instead of reused
	maxRetainedArena = 16 << 20
)

// Local wrappers for abi package functions - kept for internal use
var (
	scalarBits   = abi.ScalarBits
	kindName     = abi.KindName
	prependSlot  = abi.PrependSlot
	putScalar    = abi.Put
	prependValue = abi.Prepend
)

// Catalog resolves a schema name to its compiled plan.
type Catalog interface {
	Plan(schema string) (*Plan, error)
}

type Options struct {
	// SizePrefixed prepends the buffer length as a 32-bit prefix.
	SizePrefixed bool
	// InitialSize is the starting arena capacity in bytes.
	InitialSize int
	// Logger receives this encoder's logs. Nil uses the package logger.
	Logger *zap.Logger
}

func DefaultOptions() Options {
	return Options{InitialSize: 1024}
}

// Encoder turns dynamic values into FlatBuffers. It owns one arena that is
// reset at the start of every call, so an Encoder must not be used from
// more than one goroutine at a time.
type Encoder struct {
	builder *flatbuffers.Builder
	lastErr error
	opts    Options
	depth   int
}

func NewEncoder() *Encoder {
	return NewEncoderWithOptions(DefaultOptions())
}

func NewEncoderWithOptions(opts Options) *Encoder {
	if opts.InitialSize <= 0 {
		opts.InitialSize = DefaultOptions().InitialSize
	}
	return &Encoder{
		builder: flatbuffers.NewBuilder(opts.InitialSize),
		opts:    opts,
	}
}

// Encode looks up object in the named schema and encodes v as that object.
func (e *Encoder) Encode(cat Catalog, schemaName, object string, v value.Value) ([]byte, error) {
	plan, err := cat.Plan(schemaName)
	if err != nil {
		return nil, e.fail(schemaName, object, err)
	}
	seq, ok := plan.Sequence(object)
	if !ok {
		return nil, e.fail(schemaName, object, errors.ObjectNotFound(schemaName, object))
	}
	return e.EncodeSequence(plan, seq, v)
}

// EncodeSequence encodes v with an already resolved sequence of plan. The
// returned buffer is a copy and stays valid after the next call.
func (e *Encoder) EncodeSequence(plan *Plan, seq *Sequence, v value.Value) ([]byte, error) {
	e.reset()

	if v == nil {
		v = value.Of(nil)
	}
	root, err := e.encodeObject(plan, seq, v)
	if err != nil {
		return nil, e.fail(plan.Name, seq.Name, err)
	}
	e.finish(plan, seq, root)

	finished := e.builder.FinishedBytes()
	out := make([]byte, len(finished))
	copy(out, finished)
	return out, nil
}

// LastError returns the message of the most recent failure, or "" when the
// last call succeeded.
func (e *Encoder) LastError() string {
	if e.lastErr == nil {
		return ""
	}
	return e.lastErr.Error()
}

// Backtrace returns the field path of the most recent failure, innermost
// field first.
func (e *Encoder) Backtrace() []string {
	var fe *errors.Error
	if !errors.As(e.lastErr, &fe) {
		return nil
	}
	return fe.Backtrace()
}

func (e *Encoder) reset() {
	if len(e.builder.Bytes) > maxRetainedArena {
		e.builder = flatbuffers.NewBuilder(e.opts.InitialSize)
	}
	e.builder.Reset()
	e.lastErr = nil
	e.depth = 0
}

func (e *Encoder) fail(schemaName, object string, err error) error {
	e.lastErr = err
	e.log().Debug("encode failed",
		zap.String("schema", schemaName),
		zap.String("object", object),
		zap.Strings("backtrace", e.Backtrace()),
		zap.Error(err))
	return err
}

func (e *Encoder) log() *zap.Logger {
	if e.opts.Logger != nil {
		return e.opts.Logger
	}
	return Logger()
}

func (e *Encoder) finish(plan *Plan, seq *Sequence, root flatbuffers.UOffsetT) {
	b := e.builder
	ident := ""
	if seq == plan.Root() {
		ident = plan.FileIdentifier()
	}
	switch {
	case ident != "" && e.opts.SizePrefixed:
		b.FinishSizePrefixedWithFileIdentifier(root, []byte(ident))
	case ident != "":
		b.FinishWithFileIdentifier(root, []byte(ident))
	case e.opts.SizePrefixed:
		b.FinishSizePrefixed(root)
	default:
		b.Finish(root)
	}
}

func (e *Encoder) enter() error {
	if e.depth >= MaxDepth {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Detail("value nested deeper than %d objects", MaxDepth).
			Build()
	}
	e.depth++
	return nil
}

func (e *Encoder) leave() {
	e.depth--
}

// encodeObject places a struct in its own aligned region or builds a table,
// returning the object's offset either way.
func (e *Encoder) encodeObject(plan *Plan, seq *Sequence, v value.Value) (flatbuffers.UOffsetT, error) {
	if !seq.IsStruct {
		return e.encodeTable(plan, seq, v)
	}
	buf, err := e.structBytes(plan, seq, v)
	if err != nil {
		return 0, err
	}
	defer putBytes(buf)
	return e.placeStruct(*buf, seq.MinAlign), nil
}

func (e *Encoder) placeStruct(data []byte, align int) flatbuffers.UOffsetT {
	b := e.builder
	b.Prep(align, len(data))
	b.Pad(len(data))
	copy(b.Bytes[b.Head():], data)
	return b.Offset()
}

func (e *Encoder) structBytes(plan *Plan, seq *Sequence, v value.Value) (*[]byte, error) {
	buf := getBytes(seq.ByteSize)
	if err := e.encodeStruct(plan, seq, v, *buf); err != nil {
		putBytes(buf)
		return nil, err
	}
	return buf, nil
}

// encodeStruct writes v into dst, which is exactly seq.ByteSize zeroed bytes.
// Every field of a struct must be present.
func (e *Encoder) encodeStruct(plan *Plan, seq *Sequence, v value.Value, dst []byte) error {
	if v.Kind() != value.KindMap {
		return errors.TypeMismatch(errors.PhaseEncode, nil, kindName(v), seq.Name)
	}
	if err := e.enter(); err != nil {
		return err
	}
	defer e.leave()

	for i := range seq.Nested {
		f := &seq.Nested[i]
		fv, err := structField(plan, v, f)
		if err == nil {
			err = e.structNested(plan, f, fv, dst[f.Offset:f.Offset+f.Size])
		}
		if err != nil {
			return errors.WithField(err, f.Name)
		}
	}

	for i := range seq.Scalar {
		f := &seq.Scalar[i]
		fv, err := structField(plan, v, f)
		if err == nil {
			err = e.structScalar(f, fv, dst[f.Offset:f.Offset+f.Size])
		}
		if err != nil {
			return errors.WithField(err, f.Name)
		}
	}
	return nil
}

func structField(plan *Plan, v value.Value, f *Field) (value.Value, error) {
	fv, ok := v.Field(f.Name)
	if !ok {
		return nil, errors.FieldMissing(errors.PhaseEncode, nil, f.Name)
	}
	if fv.Kind() == value.KindNull {
		return nil, errors.TypeMismatch(errors.PhaseEncode, nil, "null", fieldTypeName(plan, f))
	}
	return fv, nil
}

func (e *Encoder) structNested(plan *Plan, f *Field, fv value.Value, dst []byte) error {
	sub := plan.Sequences[f.Ref]
	if f.Kind == KindStruct {
		return e.encodeStruct(plan, sub, fv, dst)
	}
	if f.Kind != KindArray || f.Elem != KindStruct {
		return unsupported(plan, f)
	}
	if err := checkArray(plan, f, fv); err != nil {
		return err
	}
	for i := 0; i < f.FixedLength; i++ {
		at := i * f.ElemSize
		if err := e.encodeStruct(plan, sub, fv.Index(i), dst[at:at+f.ElemSize]); err != nil {
			return errors.WithField(err, strconv.Itoa(i))
		}
	}
	return nil
}

func (e *Encoder) structScalar(f *Field, fv value.Value, dst []byte) error {
	if f.Kind.IsScalar() {
		bits, res := scalarBits(f.Kind, fv, f.Names)
		if res != abi.OK {
			return scalarError(res, fv, f.Kind, f.Names)
		}
		putScalar(dst, f.Size, bits)
		return nil
	}
	if f.Kind != KindArray || !f.Elem.IsScalar() {
		return errors.Unsupported(errors.PhaseEncode, f.Kind.String()+" inside a struct")
	}

	// byte arrays also take a string, zero padded to the fixed length
	if fv.Kind() == value.KindString && (f.Elem == KindU8 || f.Elem == KindS8) && f.Names == nil {
		text := fv.Text()
		if len(text) > f.FixedLength {
			return errors.InvalidData(errors.PhaseEncode, nil,
				"string of "+strconv.Itoa(len(text))+" bytes exceeds array length "+strconv.Itoa(f.FixedLength))
		}
		copy(dst, text)
		return nil
	}
	if fv.Kind() != value.KindList {
		return errors.TypeMismatch(errors.PhaseEncode, nil, kindName(fv), arrayTypeName(f.Elem.String(), f.FixedLength))
	}
	if fv.Len() != f.FixedLength {
		return arrayLengthError(fv.Len(), f.FixedLength)
	}
	for i := 0; i < f.FixedLength; i++ {
		ev := fv.Index(i)
		bits, res := scalarBits(f.Elem, ev, f.Names)
		if res != abi.OK {
			return errors.WithField(scalarError(res, ev, f.Elem, f.Names), strconv.Itoa(i))
		}
		putScalar(dst[i*f.ElemSize:], f.ElemSize, bits)
	}
	return nil
}

func checkArray(plan *Plan, f *Field, fv value.Value) error {
	if fv.Kind() != value.KindList {
		return errors.TypeMismatch(errors.PhaseEncode, nil, kindName(fv), fieldTypeName(plan, f))
	}
	if fv.Len() != f.FixedLength {
		return arrayLengthError(fv.Len(), f.FixedLength)
	}
	return nil
}

func arrayLengthError(got, want int) error {
	return errors.New(errors.PhaseEncode, errors.KindInvalidData).
		Detail("array has %d elements, want %d", got, want).
		Build()
}

// encodeTable builds a table. Children referenced by offset are built first,
// then the table scope is opened and the inline fields written.
func (e *Encoder) encodeTable(plan *Plan, seq *Sequence, v value.Value) (flatbuffers.UOffsetT, error) {
	if v.Kind() != value.KindMap {
		return 0, errors.TypeMismatch(errors.PhaseEncode, nil, kindName(v), seq.Name)
	}
	if err := e.enter(); err != nil {
		return 0, err
	}
	defer e.leave()

	st := getTableState()
	defer putTableState(st)

	for i := range seq.Nested {
		f := &seq.Nested[i]
		fv, err := tableField(v, f)
		if err == nil && fv != nil {
			err = e.tableNested(plan, st, f, fv)
		}
		if err != nil {
			return 0, errors.WithField(err, f.Name)
		}
	}

	for i := range seq.Scalar {
		f := &seq.Scalar[i]
		fv, err := tableField(v, f)
		if err == nil && fv != nil {
			err = e.tableScalar(plan, st, v, f, fv)
		}
		if err != nil {
			return 0, errors.WithField(err, f.Name)
		}
	}

	b := e.builder
	b.StartObject(seq.NumSlots)
	for _, p := range st.scalars {
		prependSlot(b, p.field.Slot, p.field.Size, p.bits)
	}
	for _, p := range st.structs {
		e.placeStruct(*p.data, p.field.Align)
		b.Slot(p.field.Slot)
	}
	for _, p := range st.offsets {
		b.PrependUOffsetTSlot(p.field.Slot, p.off, 0)
	}
	return b.EndObject(), nil
}

// tableField returns nil without an error for fields that are skipped.
func tableField(v value.Value, f *Field) (value.Value, error) {
	if f.Deprecated {
		return nil, nil
	}
	fv, ok := v.Field(f.Name)
	if !ok || fv.Kind() == value.KindNull {
		if f.Required {
			return nil, errors.FieldMissing(errors.PhaseEncode, nil, f.Name)
		}
		return nil, nil
	}
	return fv, nil
}

func (e *Encoder) tableNested(plan *Plan, st *tableState, f *Field, fv value.Value) error {
	switch {
	case f.Kind == KindTable:
		off, err := e.encodeTable(plan, plan.Sequences[f.Ref], fv)
		if err != nil {
			return err
		}
		st.offsets = append(st.offsets, pending{field: f, off: off})

	case f.Kind == KindStruct:
		buf, err := e.structBytes(plan, plan.Sequences[f.Ref], fv)
		if err != nil {
			return err
		}
		st.structs = append(st.structs, pending{field: f, data: buf})

	case f.Kind == KindVector && f.Elem == KindTable:
		off, err := e.tableVector(plan, f, fv)
		if err != nil {
			return err
		}
		st.offsets = append(st.offsets, pending{field: f, off: off})

	case f.Kind == KindVector && f.Elem == KindStruct:
		off, err := e.structVector(plan, f, fv)
		if err != nil {
			return err
		}
		st.offsets = append(st.offsets, pending{field: f, off: off})

	default:
		return unsupported(plan, f)
	}
	return nil
}

func (e *Encoder) tableScalar(plan *Plan, st *tableState, parent value.Value, f *Field, fv value.Value) error {
	switch {
	case f.Kind.IsScalar():
		bits, res := scalarBits(f.Kind, fv, f.Names)
		if res != abi.OK {
			return scalarError(res, fv, f.Kind, f.Names)
		}
		if f.UnionField != "" && bits != 0 {
			if uv, ok := parent.Field(f.UnionField); !ok || uv.Kind() == value.KindNull {
				return errors.New(errors.PhaseEncode, errors.KindInvalidData).
					Detail("union type selected but %s has no value", f.UnionField).
					Build()
			}
		}
		st.scalars = append(st.scalars, pending{field: f, bits: bits})
		return nil

	case f.Kind == KindString:
		off, err := e.createString(fv)
		if err != nil {
			return err
		}
		st.offsets = append(st.offsets, pending{field: f, off: off})
		return nil

	case f.Kind == KindVector:
		off, err := e.scalarVector(plan, f, fv)
		if err != nil {
			return err
		}
		st.offsets = append(st.offsets, pending{field: f, off: off})
		return nil

	case f.Kind == KindUnion:
		off, err := e.encodeUnion(plan, parent, f, fv)
		if err != nil {
			return err
		}
		st.offsets = append(st.offsets, pending{field: f, off: off})
		return nil
	}
	return unsupported(plan, f)
}

func (e *Encoder) createString(v value.Value) (flatbuffers.UOffsetT, error) {
	if v.Kind() != value.KindString {
		return 0, errors.TypeMismatch(errors.PhaseEncode, nil, kindName(v), "string")
	}
	text := v.Text()
	if len(text) > MaxStringSize {
		return 0, errors.New(errors.PhaseEncode, errors.KindOverflow).
			Detail("string of %d bytes exceeds limit %d", len(text), MaxStringSize).
			Build()
	}
	return e.builder.CreateString(text), nil
}

func listLength(plan *Plan, f *Field, v value.Value) (int, error) {
	if v.Kind() != value.KindList {
		return 0, errors.TypeMismatch(errors.PhaseEncode, nil, kindName(v), fieldTypeName(plan, f))
	}
	n := v.Len()
	if n > MaxListLength {
		return 0, errors.New(errors.PhaseEncode, errors.KindOverflow).
			Detail("vector of %d elements exceeds limit %d", n, MaxListLength).
			Build()
	}
	return n, nil
}

func (e *Encoder) tableVector(plan *Plan, f *Field, v value.Value) (flatbuffers.UOffsetT, error) {
	n, err := listLength(plan, f, v)
	if err != nil {
		return 0, err
	}
	sub := plan.Sequences[f.Ref]
	offs := make([]flatbuffers.UOffsetT, n)
	for i := 0; i < n; i++ {
		off, err := e.encodeTable(plan, sub, v.Index(i))
		if err != nil {
			return 0, errors.WithField(err, strconv.Itoa(i))
		}
		offs[i] = off
	}
	return e.offsetVector(offs), nil
}

func (e *Encoder) offsetVector(offs []flatbuffers.UOffsetT) flatbuffers.UOffsetT {
	b := e.builder
	b.StartVector(flatbuffers.SizeUOffsetT, len(offs), flatbuffers.SizeUOffsetT)
	for i := len(offs) - 1; i >= 0; i-- {
		b.PrependUOffsetT(offs[i])
	}
	return b.EndVector(len(offs))
}

func (e *Encoder) structVector(plan *Plan, f *Field, v value.Value) (flatbuffers.UOffsetT, error) {
	n, err := listLength(plan, f, v)
	if err != nil {
		return 0, err
	}
	sub := plan.Sequences[f.Ref]
	buf := getBytes(n * f.ElemSize)
	defer putBytes(buf)
	data := *buf
	for i := 0; i < n; i++ {
		at := i * f.ElemSize
		if err := e.encodeStruct(plan, sub, v.Index(i), data[at:at+f.ElemSize]); err != nil {
			return 0, errors.WithField(err, strconv.Itoa(i))
		}
	}

	b := e.builder
	b.StartVector(f.ElemSize, n, f.ElemAlign)
	b.Pad(len(data))
	copy(b.Bytes[b.Head():], data)
	return b.EndVector(n), nil
}

func (e *Encoder) scalarVector(plan *Plan, f *Field, v value.Value) (flatbuffers.UOffsetT, error) {
	// byte vectors also take a string
	if v.Kind() == value.KindString && (f.Elem == KindU8 || f.Elem == KindS8) && f.Names == nil {
		text := v.Text()
		if len(text) > MaxStringSize {
			return 0, errors.New(errors.PhaseEncode, errors.KindOverflow).
				Detail("byte vector of %d bytes exceeds limit %d", len(text), MaxStringSize).
				Build()
		}
		return e.builder.CreateByteVector([]byte(text)), nil
	}

	n, err := listLength(plan, f, v)
	if err != nil {
		return 0, err
	}

	if f.Elem == KindString {
		offs := make([]flatbuffers.UOffsetT, n)
		for i := 0; i < n; i++ {
			off, err := e.createString(v.Index(i))
			if err != nil {
				return 0, errors.WithField(err, strconv.Itoa(i))
			}
			offs[i] = off
		}
		return e.offsetVector(offs), nil
	}

	if !f.Elem.IsScalar() {
		return 0, unsupported(plan, f)
	}

	bits := getBuf64()
	defer putBuf64(bits)
	for i := 0; i < n; i++ {
		ev := v.Index(i)
		b, res := scalarBits(f.Elem, ev, f.Names)
		if res != abi.OK {
			return 0, errors.WithField(scalarError(res, ev, f.Elem, f.Names), strconv.Itoa(i))
		}
		*bits = append(*bits, b)
	}

	b := e.builder
	b.StartVector(f.ElemSize, n, f.ElemAlign)
	for i := n - 1; i >= 0; i-- {
		prependValue(b, f.ElemSize, (*bits)[i])
	}
	return b.EndVector(n), nil
}

// encodeUnion builds the member table selected by the sibling discriminant
// field of parent.
func (e *Encoder) encodeUnion(plan *Plan, parent value.Value, f *Field, v value.Value) (flatbuffers.UOffsetT, error) {
	dv, ok := parent.Field(f.TypeField)
	if !ok || dv.Kind() == value.KindNull {
		return 0, errors.FieldMissing(errors.PhaseEncode, nil, f.TypeField)
	}
	bits, res := scalarBits(KindU8, dv, f.Names)
	if res != abi.OK {
		return 0, scalarError(res, dv, KindU8, f.Names)
	}
	c, ok := f.Case(int64(bits))
	if !ok {
		return 0, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Detail("unknown union type %d in %s", bits, f.TypeField).
			Build()
	}
	if c.Ref < 0 {
		return 0, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Detail("union type %s carries no value", c.Name).
			Build()
	}
	return e.encodeTable(plan, plan.Sequences[c.Ref], v)
}

func scalarError(res abi.Result, v value.Value, k Kind, names map[string]int64) error {
	if res == abi.Overflow {
		return errors.Overflow(errors.PhaseEncode, nil, describe(v), k.String())
	}
	err := errors.TypeMismatch(errors.PhaseEncode, nil, kindName(v), k.String())
	if names != nil && v.Kind() == value.KindString {
		err.Detail = "unknown enum value " + strconv.Quote(v.Text())
	}
	return err
}

func unsupported(plan *Plan, f *Field) error {
	return errors.Unsupported(errors.PhaseEncode, "cannot encode field of type "+fieldTypeName(plan, f))
}

func describe(v value.Value) any {
	switch v.Kind() {
	case value.KindInt:
		return v.Int()
	case value.KindUint:
		return v.Uint()
	case value.KindFloat:
		return v.Float()
	case value.KindString:
		return v.Text()
	}
	return v.Kind().String()
}

// fieldTypeName renders a field type the way a schema declares it.
func fieldTypeName(plan *Plan, f *Field) string {
	switch f.Kind {
	case KindStruct, KindTable:
		return plan.Sequences[f.Ref].Name
	case KindVector:
		return "[" + elemTypeName(plan, f) + "]"
	case KindArray:
		return arrayTypeName(elemTypeName(plan, f), f.FixedLength)
	}
	return f.Kind.String()
}

func elemTypeName(plan *Plan, f *Field) string {
	if f.Ref >= 0 {
		return plan.Sequences[f.Ref].Name
	}
	return f.Elem.String()
}

func arrayTypeName(elem string, n int) string {
	return "[" + elem + ":" + strconv.Itoa(n) + "]"
}
