package abi

import (
	"math"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/wippyai/flatdyn/value"
)

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// KindName returns "absent" for a nil value, avoiding a nil dereference.
func KindName(v value.Value) string {
	if v == nil {
		return "absent"
	}
	return v.Kind().String()
}

func AlignTo(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

const (
	MaxStringSize = 1 << 30 // 1 GB max string size
	MaxListLength = 1 << 27 // 128M max elements
	MaxBufferSize = math.MaxInt32
)

// Put writes bits into dst using size bytes, little-endian.
func Put(dst []byte, size int, bits uint64) {
	switch size {
	case 1:
		flatbuffers.WriteUint8(dst, uint8(bits))
	case 2:
		flatbuffers.WriteUint16(dst, uint16(bits))
	case 4:
		flatbuffers.WriteUint32(dst, uint32(bits))
	case 8:
		flatbuffers.WriteUint64(dst, bits)
	}
}

// Prepend writes bits at the builder head using size bytes.
func Prepend(b *flatbuffers.Builder, size int, bits uint64) {
	switch size {
	case 1:
		b.PrependUint8(uint8(bits))
	case 2:
		b.PrependUint16(uint16(bits))
	case 4:
		b.PrependUint32(uint32(bits))
	case 8:
		b.PrependUint64(bits)
	}
}

// PrependSlot writes bits as the table field in slot. Unlike the typed
// Prepend*Slot helpers it never elides values equal to the default, so a
// field present in the input is always present in the buffer.
func PrependSlot(b *flatbuffers.Builder, slot, size int, bits uint64) {
	Prepend(b, size, bits)
	b.Slot(slot)
}
