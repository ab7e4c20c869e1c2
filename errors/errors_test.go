package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:     PhaseEncode,
				Kind:      KindTypeMismatch,
				Path:      []string{"monster", "pos", "x"},
				ValueKind: "string",
				FieldType: "float",
				Detail:    "expected number",
			},
			contains: []string{"[encode]", "type_mismatch", "monster.pos.x", "string", "float", "expected number"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseVerify,
				Kind:  KindVerification,
			},
			contains: []string{"[verify]", "verification"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindIO,
				Detail: "read monster.bfbs",
				Cause:  errors.New("permission denied"),
			},
			contains: []string{"[load]", "io", "monster.bfbs", "caused by", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindIO,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindTypeMismatch,
		Path:  []string{"x"},
	}

	if !err.Is(&Error{Phase: PhaseEncode, Kind: KindTypeMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindFieldMissing}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseEncode, Kind: KindTypeMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindTypeMismatch).
		Path("point", "x").
		ValueKind("string").
		FieldType("int").
		Value("3").
		Cause(cause).
		Detail("expected %s, got %s", "number", "string").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "point" || err.Path[1] != "x" {
		t.Errorf("Path = %v, want [point x]", err.Path)
	}
	if err.ValueKind != "string" {
		t.Errorf("ValueKind = %v, want 'string'", err.ValueKind)
	}
	if err.FieldType != "int" {
		t.Errorf("FieldType = %v, want 'int'", err.FieldType)
	}
	if err.Value != "3" {
		t.Errorf("Value = %v, want \"3\"", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected number, got string" {
		t.Errorf("Detail = %v, want 'expected number, got string'", err.Detail)
	}
}

func TestBacktrace(t *testing.T) {
	err := &Error{Path: []string{"monster", "equipped", "damage"}}
	got := err.Backtrace()
	want := []string{"damage", "equipped", "monster"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Backtrace() = %v, want %v", got, want)
	}
	if err.Path[0] != "monster" {
		t.Error("Backtrace must not reorder Path in place")
	}
}

func TestWithField(t *testing.T) {
	leaf := FieldMissing(PhaseEncode, []string{"x"}, "x")

	var err error = leaf
	err = WithField(err, "pos")
	err = WithField(err, "monster")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("expected *Error")
	}
	if got := strings.Join(e.Path, "."); got != "monster.pos.x" {
		t.Errorf("Path = %s, want monster.pos.x", got)
	}

	plain := errors.New("plain")
	if WithField(plain, "a") != plain {
		t.Error("WithField should pass through foreign errors")
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", SchemaNotFound("monster"))
	if !IsKind(err, KindSchemaNotFound) {
		t.Error("IsKind should see through wrapping")
	}
	if IsKind(err, KindObjectNotFound) {
		t.Error("IsKind should not match other kinds")
	}
	if IsKind(errors.New("x"), KindIO) {
		t.Error("IsKind should be false for foreign errors")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseEncode, []string{"field"}, "string", "int")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if err.ValueKind != "string" || err.FieldType != "int" {
			t.Errorf("ValueKind=%v FieldType=%v", err.ValueKind, err.FieldType)
		}
	})

	t.Run("FieldMissing", func(t *testing.T) {
		err := FieldMissing(PhaseEncode, []string{"vec"}, "z")
		if err.Kind != KindFieldMissing {
			t.Errorf("Kind = %v, want %v", err.Kind, KindFieldMissing)
		}
		if !strings.Contains(err.Detail, `"z"`) {
			t.Errorf("Detail = %v, should name the field", err.Detail)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseEncode, []string{"val"}, 300, "ubyte")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
		if err.Value != 300 {
			t.Errorf("Value = %v, want 300", err.Value)
		}
	})

	t.Run("SchemaNotFound", func(t *testing.T) {
		err := SchemaNotFound("monster.bfbs")
		if err.Kind != KindSchemaNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindSchemaNotFound)
		}
	})

	t.Run("ObjectNotFound", func(t *testing.T) {
		err := ObjectNotFound("monster.bfbs", "Weapon")
		if err.Kind != KindObjectNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindObjectNotFound)
		}
		if !strings.Contains(err.Detail, "Weapon") || !strings.Contains(err.Detail, "monster.bfbs") {
			t.Errorf("Detail = %v", err.Detail)
		}
	})

	t.Run("Verification", func(t *testing.T) {
		err := Verification("offset %d out of range", 40)
		if err.Phase != PhaseVerify || err.Kind != KindVerification {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
		if err.Detail != "offset 40 out of range" {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseDecode, "decode")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})
}
