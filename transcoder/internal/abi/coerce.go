package abi

import (
	"math"

	"github.com/wippyai/flatdyn/transcoder/internal/types"
	"github.com/wippyai/flatdyn/value"
)

// Result classifies a coercion failure.
type Result uint8

const (
	OK Result = iota
	Mismatch
	Overflow
)

var (
	minSigned = [...]int64{1: math.MinInt8, 2: math.MinInt16, 4: math.MinInt32, 8: math.MinInt64}
	maxSigned = [...]int64{1: math.MaxInt8, 2: math.MaxInt16, 4: math.MaxInt32, 8: math.MaxInt64}
	maxUnsign = [...]uint64{1: math.MaxUint8, 2: math.MaxUint16, 4: math.MaxUint32, 8: math.MaxUint64}
)

// CoerceToInt64 accepts signed and unsigned integers and integral floats.
func CoerceToInt64(v value.Value) (int64, Result) {
	switch v.Kind() {
	case value.KindInt:
		return v.Int(), OK
	case value.KindUint:
		u := v.Uint()
		if u > math.MaxInt64 {
			return 0, Overflow
		}
		return int64(u), OK
	case value.KindFloat:
		f := v.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, Mismatch
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, Overflow
		}
		return int64(f), OK
	}
	return 0, Mismatch
}

// CoerceToUint64 accepts non-negative integers and integral floats.
func CoerceToUint64(v value.Value) (uint64, Result) {
	switch v.Kind() {
	case value.KindUint:
		return v.Uint(), OK
	case value.KindInt:
		i := v.Int()
		if i < 0 {
			return 0, Overflow
		}
		return uint64(i), OK
	case value.KindFloat:
		f := v.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, Mismatch
		}
		if f < 0 || f >= math.MaxUint64 {
			return 0, Overflow
		}
		return uint64(f), OK
	}
	return 0, Mismatch
}

// CoerceToFloat64 accepts any number.
func CoerceToFloat64(v value.Value) (float64, Result) {
	switch v.Kind() {
	case value.KindFloat:
		return v.Float(), OK
	case value.KindInt:
		return float64(v.Int()), OK
	case value.KindUint:
		return float64(v.Uint()), OK
	}
	return 0, Mismatch
}

// ScalarBits converts v to the little-endian bit pattern of kind k,
// right-aligned in a uint64. names, when set, lets a string value stand in
// for an enum member.
func ScalarBits(k types.Kind, v value.Value, names map[string]int64) (uint64, Result) {
	if names != nil && v.Kind() == value.KindString {
		n, ok := names[v.Text()]
		if !ok {
			return 0, Mismatch
		}
		return IntBits(k, n)
	}

	switch {
	case k == types.KindBool:
		if v.Kind() != value.KindBool {
			return 0, Mismatch
		}
		if v.Bool() {
			return 1, OK
		}
		return 0, OK

	case k.IsSigned():
		i, res := CoerceToInt64(v)
		if res != OK {
			return 0, res
		}
		return IntBits(k, i)

	case k.IsInteger():
		u, res := CoerceToUint64(v)
		if res != OK {
			return 0, res
		}
		if u > maxUnsign[k.Size()] {
			return 0, Overflow
		}
		return u, OK

	case k == types.KindF32:
		f, res := CoerceToFloat64(v)
		if res != OK {
			return 0, res
		}
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return 0, Overflow
		}
		return uint64(math.Float32bits(float32(f))), OK

	case k == types.KindF64:
		f, res := CoerceToFloat64(v)
		if res != OK {
			return 0, res
		}
		return math.Float64bits(f), OK
	}
	return 0, Mismatch
}

// IntBits range checks an integer against kind k and returns its
// two's complement pattern truncated to the kind's width.
func IntBits(k types.Kind, i int64) (uint64, Result) {
	size := k.Size()
	if k.IsSigned() {
		if i < minSigned[size] || i > maxSigned[size] {
			return 0, Overflow
		}
		if size == 8 {
			return uint64(i), OK
		}
		return uint64(i) & (1<<(8*size) - 1), OK
	}
	if k.IsInteger() {
		if i < 0 || uint64(i) > maxUnsign[size] {
			return 0, Overflow
		}
		return uint64(i), OK
	}
	return 0, Mismatch
}
