package reflection

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

type Type struct {
	_tab flatbuffers.Table
}

func (rcv *Type) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *Type) Table() flatbuffers.Table {
	return rcv._tab
}

func (rcv *Type) BaseType() BaseType {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return BaseType(rcv._tab.GetInt8(o + rcv._tab.Pos))
	}
	return 0
}

func (rcv *Type) Element() BaseType {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return BaseType(rcv._tab.GetInt8(o + rcv._tab.Pos))
	}
	return 0
}

// Index refers to "objects" for Obj types and to "enums" for unions,
// union type fields and enum-typed integers. -1 when unused.
func (rcv *Type) Index() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return -1
}

func (rcv *Type) FixedLength() uint16 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return rcv._tab.GetUint16(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *Type) BaseSize() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(12))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 4
}

func (rcv *Type) ElementSize() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(14))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 0
}

func TypeStart(builder *flatbuffers.Builder) {
	builder.StartObject(6)
}

func TypeAddBaseType(builder *flatbuffers.Builder, baseType BaseType) {
	builder.PrependInt8Slot(0, int8(baseType), 0)
}

func TypeAddElement(builder *flatbuffers.Builder, element BaseType) {
	builder.PrependInt8Slot(1, int8(element), 0)
}

func TypeAddIndex(builder *flatbuffers.Builder, index int32) {
	builder.PrependInt32Slot(2, index, -1)
}

func TypeAddFixedLength(builder *flatbuffers.Builder, fixedLength uint16) {
	builder.PrependUint16Slot(3, fixedLength, 0)
}

func TypeAddBaseSize(builder *flatbuffers.Builder, baseSize uint32) {
	builder.PrependUint32Slot(4, baseSize, 4)
}

func TypeAddElementSize(builder *flatbuffers.Builder, elementSize uint32) {
	builder.PrependUint32Slot(5, elementSize, 0)
}

func TypeEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
