// Package export turns source objects into header files, one per object.
//
// Each object is resolved, welded and rendered in memory before anything
// touches the disk. A failing object is logged and skipped; the remaining
// objects are still exported and all failures are returned together.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/glarrays/internal/config"
	"github.com/Faultbox/glarrays/pkg/encoding"
	"github.com/Faultbox/glarrays/pkg/formats"
	"github.com/Faultbox/glarrays/pkg/header"
	"github.com/Faultbox/glarrays/pkg/mesh"
)

// Export errors.
var (
	ErrNoOutputDir   = errors.New("no output directory configured")
	ErrNameCollision = errors.New("object name collides with an earlier object")
)

// Result describes the outcome for one object.
type Result struct {
	Object     string // Decoded source name
	File       string // Path of the written header, empty when nothing was written
	Faces      int
	Triangles  int
	Vertices   int
	Indices    int
	Duplicates int // Vertices repeating an earlier (position, uv) pair
	Err        error
}

// Exporter writes one header per object into a directory.
type Exporter struct {
	outputDir string
	resolve   ResolveOptions
	dryRun    bool
	log       *zap.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(e *Exporter) {
		e.log = log
	}
}

// WithDryRun builds and renders every object without writing files.
func WithDryRun() Option {
	return func(e *Exporter) {
		e.dryRun = true
	}
}

// New creates an exporter from the export settings.
func New(cfg config.ExportConfig, opts ...Option) (*Exporter, error) {
	if cfg.OutputDir == "" {
		return nil, ErrNoOutputDir
	}
	decode, err := encoding.Decoder(cfg.NameEncoding)
	if err != nil {
		return nil, err
	}

	e := &Exporter{
		outputDir: cfg.OutputDir,
		resolve: ResolveOptions{
			GenerateNormals: cfg.GenerateNormals,
			DecodeName:      decode,
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.Named("export")
	return e, nil
}

// ExportOBJ exports every object of a parsed OBJ file, in file order.
func (e *Exporter) ExportOBJ(obj *formats.OBJ) ([]Result, error) {
	for kw, n := range obj.Skipped {
		e.log.Debug("ignored OBJ statements", zap.String("keyword", kw), zap.Int("count", n))
	}
	if len(obj.Objects) == 0 {
		return nil, nil
	}
	if err := e.prepare(); err != nil {
		return nil, err
	}

	b := newBatch(len(obj.Objects))
	for i := range obj.Objects {
		o, err := ResolveObject(obj, i, e.resolve)
		if err != nil {
			r := Result{
				Object: e.resolve.DecodeName(obj.Objects[i].Name),
				Faces:  len(obj.Objects[i].Faces),
			}
			b.add(e.fail(r, err))
			continue
		}
		b.add(e.exportObject(o, b.files))
	}
	return b.results, b.err
}

// Export builds, renders and writes each object. An empty slice writes
// nothing and returns no error.
func (e *Exporter) Export(objects []mesh.Object) ([]Result, error) {
	if len(objects) == 0 {
		return nil, nil
	}
	if err := e.prepare(); err != nil {
		return nil, err
	}

	b := newBatch(len(objects))
	for _, o := range objects {
		b.add(e.exportObject(o, b.files))
	}
	return b.results, b.err
}

func (e *Exporter) prepare() error {
	if e.dryRun {
		return nil
	}
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}

// batch collects results and errors of one export run. Header file names
// are tracked so two objects never write the same file.
type batch struct {
	files   map[string]string // file name -> object name
	results []Result
	err     error
}

func newBatch(n int) *batch {
	return &batch{
		files:   make(map[string]string, n),
		results: make([]Result, 0, n),
	}
}

func (b *batch) add(r Result) {
	if r.Err != nil {
		b.err = multierr.Append(b.err, r.Err)
	}
	b.results = append(b.results, r)
}

func (e *Exporter) exportObject(o mesh.Object, files map[string]string) Result {
	r := Result{Object: o.Name, Faces: len(o.Faces), Triangles: o.TriangleCount()}

	name := header.FileName(o.Name)
	if prev, ok := files[name]; ok {
		return e.fail(r, fmt.Errorf("object %q: %w %q (%s)", o.Name, ErrNameCollision, prev, name))
	}
	files[name] = o.Name

	b, err := mesh.Build(o)
	if err != nil {
		return e.fail(r, err)
	}
	r.Vertices = b.VertexCount()
	r.Indices = b.IndexCount()
	r.Duplicates = b.DuplicateVertices()
	if r.Duplicates > 0 {
		e.log.Warn("UV seam produced duplicate vertices",
			zap.String("object", o.Name),
			zap.Int("duplicates", r.Duplicates))
	}

	var buf bytes.Buffer
	if err := header.Encode(&buf, o.Name, b); err != nil {
		return e.fail(r, fmt.Errorf("object %q: rendering header: %w", o.Name, err))
	}

	if e.dryRun {
		e.log.Debug("built object",
			zap.String("object", o.Name),
			zap.Int("vertices", r.Vertices),
			zap.Int("indices", r.Indices))
		return r
	}

	path := filepath.Join(e.outputDir, name)
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return e.fail(r, fmt.Errorf("object %q: writing %s: %w", o.Name, path, err))
	}
	r.File = path

	e.log.Info("exported object",
		zap.String("object", o.Name),
		zap.String("file", path),
		zap.Int("vertices", r.Vertices),
		zap.Int("indices", r.Indices))
	return r
}

func (e *Exporter) fail(r Result, err error) Result {
	r.Err = err
	e.log.Error("object not exported", zap.String("object", r.Object), zap.Error(err))
	return r
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place. On failure the temporary file is removed and any existing
// file at path is left untouched.
func writeFileAtomic(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	err = multierr.Append(err, f.Close())
	if err != nil {
		return err
	}
	if err = os.Chmod(tmp, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
