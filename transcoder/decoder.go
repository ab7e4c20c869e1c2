package transcoder

import (
	"github.com/wippyai/flatdyn/errors"
	"github.com/wippyai/flatdyn/value"
)

// Decoder is the read direction. Reading buffers back into dynamic values
// is not implemented; every call fails with an unsupported error.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) Decode(cat Catalog, schemaName, object string, buf []byte) (value.Value, error) {
	return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
		Detail("decoding %s in schema %q is not implemented", object, schemaName).
		Build()
}
