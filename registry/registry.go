package registry

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spaolacci/murmur3"
	"go.uber.org/zap"

	"github.com/wippyai/flatdyn/errors"
	"github.com/wippyai/flatdyn/schema"
	"github.com/wippyai/flatdyn/transcoder"
)

// DefaultSuffix is the file suffix LoadDir matches when none is given.
const DefaultSuffix = "bfbs"

// Fingerprint is the murmur3 128-bit hash of a schema buffer.
type Fingerprint [2]uint64

func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x%016x", f[0], f[1])
}

func fingerprint(buf []byte) Fingerprint {
	h := murmur3.New128()
	h.Write(buf)
	h1, h2 := h.Sum128()
	return Fingerprint{h1, h2}
}

// Entry is one loaded schema. Entries are never modified after install.
type Entry struct {
	Schema      *schema.Schema
	Plan        *transcoder.Plan
	Name        string
	Raw         []byte
	Fingerprint Fingerprint
}

type Registry struct {
	compiler *transcoder.Compiler
	entries  map[string]*Entry
	logger   *zap.Logger
	mu       sync.RWMutex
}

func New() *Registry {
	return NewWithCompiler(transcoder.NewCompiler())
}

func NewWithCompiler(c *transcoder.Compiler) *Registry {
	return &Registry{
		compiler: c,
		entries:  make(map[string]*Entry),
	}
}

// SetLogger routes this registry's logs, and those of its compiler, to l
// instead of the package logger. It must be called before the registry is
// used.
func (r *Registry) SetLogger(l *zap.Logger) {
	r.logger = l
	r.compiler.SetLogger(l)
}

func (r *Registry) log() *zap.Logger {
	if r.logger != nil {
		return r.logger
	}
	return Logger()
}

// Load verifies, compiles and installs buf under name, replacing any schema
// already loaded under that name. Loading identical bytes again is a no-op.
func (r *Registry) Load(name string, buf []byte) (*Entry, error) {
	if name == "" {
		return nil, errors.InvalidInput(errors.PhaseLoad, "schema name cannot be empty")
	}

	fp := fingerprint(buf)
	if cur, ok := r.Entry(name); ok && cur.Fingerprint == fp && bytes.Equal(cur.Raw, buf) {
		r.log().Debug("schema unchanged",
			zap.String("schema", name),
			zap.Stringer("fingerprint", fp))
		return cur, nil
	}

	entry, err := r.build(name, buf, fp)
	if err != nil {
		return nil, err
	}
	r.install([]*Entry{entry})
	return entry, nil
}

// LoadFile loads the schema at path under its file name, suffix included.
func (r *Registry) LoadFile(p string) (*Entry, error) {
	buf, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.IO("read "+p, err)
	}
	return r.Load(filepath.Base(p), buf)
}

// LoadDir loads every regular file in dir named <name>.<suffix>.
func (r *Registry) LoadDir(dir, suffix string) (int, error) {
	return r.LoadFS(os.DirFS(dir), ".", suffix)
}

// LoadFS loads every regular file in dir of fsys named <name>.<suffix>. It
// is all or nothing: if any file fails, no schema from this scan is
// installed and the error names the file. It returns the number of
// schemas loaded.
func (r *Registry) LoadFS(fsys fs.FS, dir, suffix string) (int, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	dirents, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return 0, errors.IO("read directory "+dir, err)
	}

	staged := make([]*Entry, 0, len(dirents))
	for _, d := range dirents {
		if !d.Type().IsRegular() || !hasSuffix(d.Name(), suffix) {
			continue
		}
		file := path.Join(dir, d.Name())
		entry, err := r.stage(fsys, file)
		if err != nil {
			r.discard(staged)
			r.log().Warn("directory scan aborted",
				zap.String("dir", dir),
				zap.String("file", file),
				zap.Int("discarded", len(staged)),
				zap.Error(err))
			return 0, err
		}
		staged = append(staged, entry)
	}

	r.install(staged)
	r.log().Info("directory scanned",
		zap.String("dir", dir),
		zap.String("suffix", suffix),
		zap.Int("schemas", len(staged)))
	return len(staged), nil
}

// discard evicts the compiled plans of staged entries that were never
// installed. Entries reused from the registry stay cached.
func (r *Registry) discard(staged []*Entry) {
	for _, e := range staged {
		if cur, ok := r.Entry(e.Name); ok && cur == e {
			continue
		}
		r.compiler.Evict(e.Schema)
	}
}

func (r *Registry) stage(fsys fs.FS, file string) (*Entry, error) {
	buf, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, errors.IO("read "+file, err)
	}
	name := path.Base(file)
	if cur, ok := r.Entry(name); ok && bytes.Equal(cur.Raw, buf) {
		return cur, nil
	}
	entry, err := r.build(name, buf, fingerprint(buf))
	if err != nil {
		return nil, inFile(err, file)
	}
	return entry, nil
}

func (r *Registry) build(name string, buf []byte, fp Fingerprint) (*Entry, error) {
	raw := bytes.Clone(buf)
	sc, err := schema.Parse(raw)
	if err != nil {
		return nil, err
	}
	plan, err := r.compiler.Compile(name, sc)
	if err != nil {
		return nil, err
	}
	return &Entry{
		Name:        name,
		Raw:         raw,
		Fingerprint: fp,
		Schema:      sc,
		Plan:        plan,
	}, nil
}

func (r *Registry) install(entries []*Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		old, replaced := r.entries[e.Name]
		if replaced && old == e {
			continue
		}
		r.entries[e.Name] = e
		if replaced {
			r.compiler.Evict(old.Schema)
		}
		r.log().Info("schema loaded",
			zap.String("schema", e.Name),
			zap.Int("objects", len(e.Schema.Objects)),
			zap.Int("bytes", len(e.Raw)),
			zap.Stringer("fingerprint", e.Fingerprint),
			zap.Bool("replaced", replaced))
	}
}

// Plan returns the compiled plan of a loaded schema.
func (r *Registry) Plan(name string) (*transcoder.Plan, error) {
	e, ok := r.Entry(name)
	if !ok {
		return nil, errors.SchemaNotFound(name)
	}
	return e.Plan, nil
}

func (r *Registry) Entry(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the loaded schema names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// hasSuffix matches <name>.<suffix> where name has at least two bytes, so
// names like ".bfbs" and "a.bfbs" are skipped.
func hasSuffix(file, suffix string) bool {
	if len(file) <= len(suffix)+2 {
		return false
	}
	return strings.HasSuffix(file, "."+suffix)
}

func inFile(err error, file string) error {
	var e *errors.Error
	if !errors.As(err, &e) {
		return errors.Wrap(errors.PhaseLoad, errors.KindIO, err, "load "+file)
	}
	return errors.New(e.Phase, e.Kind).
		Path(e.Path...).
		Detail("load %s", file).
		Cause(err).
		Build()
}
