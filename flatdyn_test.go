package flatdyn

import (
	"sync"
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/flatdyn/errors"
	"github.com/wippyai/flatdyn/schema/schematest"
	"github.com/wippyai/flatdyn/transcoder"
)

func newCodec(t *testing.T, opts ...Option) *Codec {
	t.Helper()
	c := New(opts...)
	if err := c.Load("point", schematest.Point().Build()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func readX(buf []byte) int32 {
	tab := flatbuffers.Table{Bytes: buf, Pos: flatbuffers.GetUOffsetT(buf)}
	o := tab.Offset(4)
	if o == 0 {
		return 0
	}
	return tab.GetInt32(tab.Pos + flatbuffers.UOffsetT(o))
}

func TestCodec_Encode(t *testing.T) {
	c := newCodec(t, WithLogger(zap.NewNop()))

	type point struct {
		X int32 `fb:"x"`
	}
	for name, v := range map[string]any{
		"map":    map[string]any{"x": 4},
		"struct": point{X: 4},
	} {
		t.Run(name, func(t *testing.T) {
			buf, err := c.Encode("point", "Point", v)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got := readX(buf); got != 4 {
				t.Errorf("x = %d, want 4", got)
			}
		})
	}
}

func TestCodec_EncodeDocument(t *testing.T) {
	c := newCodec(t)
	for name, doc := range map[string]string{
		"yaml": "x: 9\n",
		"json": `{"x": 9}`,
	} {
		t.Run(name, func(t *testing.T) {
			buf, err := c.EncodeDocument("point", "Point", []byte(doc))
			if err != nil {
				t.Fatalf("EncodeDocument: %v", err)
			}
			if got := readX(buf); got != 9 {
				t.Errorf("x = %d, want 9", got)
			}
		})
	}

	if _, err := c.EncodeDocument("point", "Point", []byte("x: [1")); !errors.IsKind(err, errors.KindInvalidData) {
		t.Errorf("expected parse failure, got %v", err)
	}
}

func TestCodec_Errors(t *testing.T) {
	c := newCodec(t)

	_, err := c.Encode("point", "Point", map[string]any{"x": "three"})
	if !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	if diff := cmp.Diff([]string{"x"}, Backtrace(err)); diff != "" {
		t.Errorf("backtrace (-want +got):\n%s", diff)
	}
	if Backtrace(nil) != nil {
		t.Error("Backtrace(nil) should be nil")
	}

	if _, err := c.Encode("nope", "Point", nil); !errors.IsKind(err, errors.KindSchemaNotFound) {
		t.Errorf("expected schema not found, got %v", err)
	}
	if _, err := c.Decode("point", "Point", nil); !errors.IsKind(err, errors.KindUnsupported) {
		t.Errorf("expected unsupported, got %v", err)
	}
}

func TestCodec_SharedRegistry(t *testing.T) {
	first := newCodec(t)
	second := New(WithRegistry(first.Registry()), WithEncoderOptions(transcoder.Options{SizePrefixed: true}))

	buf, err := second.Encode("point", "Point", map[string]any{"x": 2})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := flatbuffers.GetUint32(buf); int(got) != len(buf)-4 {
		t.Errorf("size prefix = %d, want %d", got, len(buf)-4)
	}
}

func TestCodec_LoggersAreIndependent(t *testing.T) {
	coreA, logsA := observer.New(zapcore.DebugLevel)
	coreB, logsB := observer.New(zapcore.DebugLevel)
	a := New(WithLogger(zap.New(coreA)))
	b := New(WithLogger(zap.New(coreB)))

	if err := a.Load("a.bfbs", schematest.Point().Build()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := b.Load("b.bfbs", schematest.Point().Build()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := a.Encode("a.bfbs", "Point", map[string]any{"x": "three"}); err == nil {
		t.Fatal("expected an encode error")
	}

	loaded := func(logs *observer.ObservedLogs) []string {
		var names []string
		for _, e := range logs.FilterMessage("schema loaded").All() {
			names = append(names, e.ContextMap()["schema"].(string))
		}
		return names
	}
	if diff := cmp.Diff([]string{"a.bfbs"}, loaded(logsA)); diff != "" {
		t.Errorf("codec a loads (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b.bfbs"}, loaded(logsB)); diff != "" {
		t.Errorf("codec b loads (-want +got):\n%s", diff)
	}

	var encoderLogs int
	for _, e := range logsA.FilterMessage("encode failed").All() {
		if e.LoggerName == "transcoder" {
			encoderLogs++
		}
	}
	if encoderLogs != 1 {
		t.Errorf("codec a has %d encoder failure logs, want 1", encoderLogs)
	}
	if n := logsB.FilterMessage("encode failed").Len(); n != 0 {
		t.Errorf("codec b logged %d failures of codec a", n)
	}
}

func TestCodec_Concurrent(t *testing.T) {
	c := newCodec(t)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				want := int32(g*1000 + i)
				buf, err := c.Encode("point", "Point", map[string]any{"x": want})
				if err != nil {
					t.Errorf("Encode: %v", err)
					return
				}
				if got := readX(buf); got != want {
					t.Errorf("x = %d, want %d", got, want)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}
