package transcoder

import (
	"sync"

	flatbuffers "github.com/google/flatbuffers/go"
)

const (
	// Pool limits to prevent memory bloat
	poolMaxCap64    = 1024 // max uint64 elements
	poolInitCap64   = 16
	poolMaxCapBytes = 64 << 10
	poolInitBytes   = 64
	poolMaxPending  = 256
)

// uint64 buffer pool for vector element bits
var buf64Pool = sync.Pool{
	New: func() any {
		buf := make([]uint64, 0, poolInitCap64)
		return &buf
	},
}

func getBuf64() *[]uint64 {
	return buf64Pool.Get().(*[]uint64)
}

func putBuf64(buf *[]uint64) {
	if buf == nil || cap(*buf) > poolMaxCap64 {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	buf64Pool.Put(buf)
}

// struct scratch pool; structs are assembled here before being copied
// into the arena
var bytePool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, poolInitBytes)
		return &buf
	},
}

// getBytes returns n zeroed bytes.
func getBytes(n int) *[]byte {
	buf := bytePool.Get().(*[]byte)
	if cap(*buf) < n {
		*buf = make([]byte, n)
		return buf
	}
	*buf = (*buf)[:n]
	clear(*buf)
	return buf
}

func putBytes(buf *[]byte) {
	if buf == nil || cap(*buf) > poolMaxCapBytes {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	bytePool.Put(buf)
}

// pending is a table field resolved before the table scope opens.
type pending struct {
	field *Field
	data  *[]byte
	bits  uint64
	off   flatbuffers.UOffsetT
}

type tableState struct {
	scalars []pending
	structs []pending
	offsets []pending
}

var tableStatePool = sync.Pool{
	New: func() any {
		return &tableState{}
	},
}

func getTableState() *tableState {
	return tableStatePool.Get().(*tableState)
}

func putTableState(st *tableState) {
	for _, p := range st.structs {
		putBytes(p.data)
	}
	if cap(st.scalars)+cap(st.structs)+cap(st.offsets) > poolMaxPending {
		return // reject oversized
	}
	st.scalars = st.scalars[:0]
	st.structs = st.structs[:0]
	st.offsets = st.offsets[:0]
	tableStatePool.Put(st)
}
