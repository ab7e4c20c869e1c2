package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad    Phase = "load"    // reading schema files
	PhaseVerify  Phase = "verify"  // structural schema verification
	PhaseCompile Phase = "compile" // build sequence compilation
	PhaseEncode  Phase = "encode"  // dynamic value to buffer
	PhaseDecode  Phase = "decode"  // buffer to dynamic value
	PhaseParse   Phase = "parse"   // value document parsing
	PhaseConfig  Phase = "config"  // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindIO             Kind = "io"
	KindVerification   Kind = "verification"
	KindSchemaNotFound Kind = "schema_not_found"
	KindObjectNotFound Kind = "object_not_found"
	KindFieldMissing   Kind = "field_missing"
	KindTypeMismatch   Kind = "type_mismatch"
	KindOverflow       Kind = "overflow"
	KindInvalidData    Kind = "invalid_data"
	KindUnsupported    Kind = "unsupported"
	KindCycle          Kind = "cycle"
	KindInvalidInput   Kind = "invalid_input"
)

// Error is the structured error type used throughout flatdyn
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	ValueKind string
	FieldType string
	Detail    string
	Path      []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.ValueKind != "" || e.FieldType != "" {
		b.WriteString(": ")
		if e.ValueKind != "" && e.FieldType != "" {
			b.WriteString("value ")
			b.WriteString(e.ValueKind)
			b.WriteString(", field type ")
			b.WriteString(e.FieldType)
		} else if e.ValueKind != "" {
			b.WriteString("value ")
			b.WriteString(e.ValueKind)
		} else {
			b.WriteString("field type ")
			b.WriteString(e.FieldType)
		}
	}

	if e.Detail != "" {
		if e.ValueKind != "" || e.FieldType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Backtrace returns the field path innermost field first.
func (e *Error) Backtrace() []string {
	bt := make([]string, len(e.Path))
	for i, name := range e.Path {
		bt[len(e.Path)-1-i] = name
	}
	return bt
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// ValueKind sets the kind of the offending dynamic value
func (b *Builder) ValueKind(k string) *Builder {
	b.err.ValueKind = k
	return b
}

// FieldType sets the schema type of the field being written
func (b *Builder) FieldType(t string) *Builder {
	b.err.FieldType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// WithField prepends name to the path of err when it is an *Error.
// Used while unwinding out of nested fields so the path ends up root-first.
func WithField(err error, name string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	path := make([]string, 0, len(e.Path)+1)
	path = append(path, name)
	e.Path = append(path, e.Path...)
	return e
}

// IsKind reports whether err is an *Error of the given kind, regardless of phase.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, valueKind, fieldType string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindTypeMismatch,
		Path:      path,
		ValueKind: valueKind,
		FieldType: fieldType,
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindOverflow,
		Path:      path,
		FieldType: targetType,
		Detail:    fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:     value,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// SchemaNotFound creates an error for a lookup of an unknown schema
func SchemaNotFound(name string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindSchemaNotFound,
		Detail: fmt.Sprintf("no such schema %q", name),
	}
}

// ObjectNotFound creates an error for a lookup of an unknown object within a schema
func ObjectNotFound(schema, object string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindObjectNotFound,
		Detail: fmt.Sprintf("no such object %q in schema %q", object, schema),
	}
}

// IO creates a file access error
func IO(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// Verification creates a schema verification error
func Verification(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseVerify,
		Kind:   KindVerification,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// ParseFailed creates a document parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// As is errors.As from the standard library, re-exported so callers that
// import this package under the name errors can still unwrap chains.
func As(err error, target any) bool {
	return errors.As(err, target)
}
