package abi

import (
	"math"
	"testing"

	"github.com/wippyai/flatdyn/transcoder/internal/types"
	"github.com/wippyai/flatdyn/value"
)

func TestCoerceToInt64(t *testing.T) {
	tests := []struct {
		input any
		name  string
		want  int64
		res   Result
	}{
		{int64(-5), "int64 negative", -5, OK},
		{int8(3), "int8", 3, OK},
		{uint64(12), "uint64 in range", 12, OK},
		{uint64(math.MaxUint64), "uint64 too large", 0, Overflow},
		{float64(42), "float64 integral", 42, OK},
		{float64(3.14), "float64 fractional", 0, Mismatch},
		{math.Inf(1), "float64 inf", 0, Mismatch},
		{float64(1e300), "float64 huge", 0, Overflow},
		{"3", "string", 0, Mismatch},
		{true, "bool", 0, Mismatch},
		{nil, "null", 0, Mismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res := CoerceToInt64(value.Of(tt.input))
			if got != tt.want || res != tt.res {
				t.Errorf("CoerceToInt64(%v) = (%d, %d), want (%d, %d)", tt.input, got, res, tt.want, tt.res)
			}
		})
	}
}

func TestCoerceToUint64(t *testing.T) {
	tests := []struct {
		input any
		name  string
		want  uint64
		res   Result
	}{
		{uint64(math.MaxUint64), "uint64 max", math.MaxUint64, OK},
		{int(7), "int positive", 7, OK},
		{int(-1), "int negative", 0, Overflow},
		{float32(100), "float32 integral", 100, OK},
		{float64(-1), "float64 negative", 0, Overflow},
		{float64(0.5), "float64 fractional", 0, Mismatch},
		{"x", "string", 0, Mismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res := CoerceToUint64(value.Of(tt.input))
			if got != tt.want || res != tt.res {
				t.Errorf("CoerceToUint64(%v) = (%d, %d), want (%d, %d)", tt.input, got, res, tt.want, tt.res)
			}
		})
	}
}

func TestCoerceToFloat64(t *testing.T) {
	if f, res := CoerceToFloat64(value.Of(3)); f != 3 || res != OK {
		t.Errorf("int: %v %d", f, res)
	}
	if f, res := CoerceToFloat64(value.Of(uint8(2))); f != 2 || res != OK {
		t.Errorf("uint: %v %d", f, res)
	}
	if _, res := CoerceToFloat64(value.Of(false)); res != Mismatch {
		t.Errorf("bool: %d", res)
	}
}

func TestScalarBits(t *testing.T) {
	names := map[string]int64{"Red": 0, "Green": 1, "Blue": 2}

	tests := []struct {
		input any
		names map[string]int64
		name  string
		kind  types.Kind
		want  uint64
		res   Result
	}{
		{true, nil, "bool true", types.KindBool, 1, OK},
		{false, nil, "bool false", types.KindBool, 0, OK},
		{1, nil, "bool from int", types.KindBool, 0, Mismatch},
		{-1, nil, "s8 minus one", types.KindS8, 0xff, OK},
		{-129, nil, "s8 underflow", types.KindS8, 0, Overflow},
		{127, nil, "s8 max", types.KindS8, 127, OK},
		{256, nil, "u8 overflow", types.KindU8, 0, Overflow},
		{255, nil, "u8 max", types.KindU8, 255, OK},
		{-1, nil, "u16 negative", types.KindU16, 0, Overflow},
		{-2, nil, "s16", types.KindS16, 0xfffe, OK},
		{int64(math.MinInt32), nil, "s32 min", types.KindS32, 0x80000000, OK},
		{int64(math.MaxInt32) + 1, nil, "s32 overflow", types.KindS32, 0, Overflow},
		{uint64(math.MaxUint32), nil, "u32 max", types.KindU32, math.MaxUint32, OK},
		{int64(-1), nil, "s64", types.KindS64, math.MaxUint64, OK},
		{uint64(math.MaxUint64), nil, "u64 max", types.KindU64, math.MaxUint64, OK},
		{"3", nil, "int from string", types.KindS32, 0, Mismatch},
		{1.5, nil, "f32", types.KindF32, uint64(math.Float32bits(1.5)), OK},
		{2, nil, "f64 from int", types.KindF64, math.Float64bits(2), OK},
		{1e40, nil, "f32 overflow", types.KindF32, 0, Overflow},
		{math.Inf(-1), nil, "f32 inf", types.KindF32, uint64(math.Float32bits(float32(math.Inf(-1)))), OK},
		{"x", nil, "float from string", types.KindF64, 0, Mismatch},
		{"Blue", names, "enum name", types.KindU8, 2, OK},
		{"Purple", names, "unknown enum name", types.KindU8, 0, Mismatch},
		{1, names, "enum number", types.KindU8, 1, OK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res := ScalarBits(tt.kind, value.Of(tt.input), tt.names)
			if got != tt.want || res != tt.res {
				t.Errorf("ScalarBits(%s, %v) = (%#x, %d), want (%#x, %d)", tt.kind, tt.input, got, res, tt.want, tt.res)
			}
		})
	}
}

func TestIntBits(t *testing.T) {
	if _, res := IntBits(types.KindF32, 1); res != Mismatch {
		t.Errorf("float kind: %d", res)
	}
	if got, res := IntBits(types.KindS16, -32768); got != 0x8000 || res != OK {
		t.Errorf("s16 min: %#x %d", got, res)
	}
}
