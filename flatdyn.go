package flatdyn

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/flatdyn/errors"
	"github.com/wippyai/flatdyn/registry"
	"github.com/wippyai/flatdyn/transcoder"
	"github.com/wippyai/flatdyn/value"
)

// Codec is a schema registry with a pool of encoders in front of it.
// Unlike a bare transcoder.Encoder it is safe for concurrent use. Each
// Codec logs to its own logger; a registry shared with WithRegistry keeps
// the logger of its owner.
type Codec struct {
	registry *registry.Registry
	decoder  *transcoder.Decoder
	logger   *zap.Logger
	encoders sync.Pool
	opts     transcoder.Options
}

type Option func(*Codec)

// WithLogger routes the logs of this codec, its registry and its encoders
// to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *Codec) {
		c.logger = l
	}
}

// WithEncoderOptions sets the options every pooled encoder is created with.
func WithEncoderOptions(opts transcoder.Options) Option {
	return func(c *Codec) {
		c.opts = opts
	}
}

// WithRegistry shares an existing registry instead of creating one.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Codec) {
		c.registry = r
	}
}

func New(opts ...Option) *Codec {
	c := &Codec{
		decoder: transcoder.NewDecoder(),
		logger:  zap.NewNop(),
		opts:    transcoder.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = registry.New()
		c.registry.SetLogger(c.logger.Named("registry"))
	}
	if c.opts.Logger == nil {
		c.opts.Logger = c.logger.Named("transcoder")
	}
	c.encoders.New = func() any {
		return transcoder.NewEncoderWithOptions(c.opts)
	}
	return c
}

func (c *Codec) Registry() *registry.Registry {
	return c.registry
}

// Load installs a schema buffer under name.
func (c *Codec) Load(name string, buf []byte) error {
	_, err := c.registry.Load(name, buf)
	return err
}

// LoadFile loads a schema file under its file name, suffix included.
func (c *Codec) LoadFile(path string) error {
	_, err := c.registry.LoadFile(path)
	return err
}

// LoadDir loads every <name>.<suffix> file in dir, all or nothing.
func (c *Codec) LoadDir(dir, suffix string) (int, error) {
	return c.registry.LoadDir(dir, suffix)
}

// Encode encodes v as object of the named schema. v may be a value.Value
// or any Go value value.Of accepts.
func (c *Codec) Encode(schemaName, object string, v any) ([]byte, error) {
	enc := c.encoders.Get().(*transcoder.Encoder)
	defer c.encoders.Put(enc)

	buf, err := enc.Encode(c.registry, schemaName, object, value.Of(v))
	if err != nil {
		c.logger.Debug("encode failed",
			zap.String("schema", schemaName),
			zap.String("object", object),
			zap.Strings("backtrace", Backtrace(err)),
			zap.Error(err))
		return nil, err
	}
	return buf, nil
}

// EncodeDocument parses a YAML or JSON document and encodes it.
func (c *Codec) EncodeDocument(schemaName, object string, doc []byte) ([]byte, error) {
	v, err := value.Parse(doc)
	if err != nil {
		return nil, err
	}
	return c.Encode(schemaName, object, v)
}

// Decode is not implemented and always fails.
func (c *Codec) Decode(schemaName, object string, buf []byte) (value.Value, error) {
	return c.decoder.Decode(c.registry, schemaName, object, buf)
}

// Backtrace returns the field path of an encoding error, innermost field
// first, or nil when err carries none.
func Backtrace(err error) []string {
	var e *errors.Error
	if !errors.As(err, &e) {
		return nil
	}
	return e.Backtrace()
}
