package transcoder

import (
	"github.com/wippyai/flatdyn/transcoder/internal/types"
)

type Kind = types.Kind

const (
	KindNone        = types.KindNone
	KindBool        = types.KindBool
	KindU8          = types.KindU8
	KindS8          = types.KindS8
	KindU16         = types.KindU16
	KindS16         = types.KindS16
	KindU32         = types.KindU32
	KindS32         = types.KindS32
	KindU64         = types.KindU64
	KindS64         = types.KindS64
	KindF32         = types.KindF32
	KindF64         = types.KindF64
	KindString      = types.KindString
	KindVector      = types.KindVector
	KindStruct      = types.KindStruct
	KindTable       = types.KindTable
	KindUnion       = types.KindUnion
	KindArray       = types.KindArray
	KindUnsupported = types.KindUnsupported
)

type Sequence = types.Sequence
type Field = types.Field
type Case = types.Case
