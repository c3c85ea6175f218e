package mapeo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Reader reads configuration projects from a filesystem. It holds no mutable
// state and is safe for concurrent use.
type Reader struct {
	fs  afero.Fs
	log Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithFs sets the filesystem. The default is the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(r *Reader) {
		r.fs = fs
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(r *Reader) {
		r.log = l
	}
}

// NewReader creates a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		fs:  afero.NewOsFs(),
		log: NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fs == nil {
		r.fs = afero.NewOsFs()
	}
	if r.log == nil {
		r.log = NopLogger{}
	}
	return r
}

// Fs returns the filesystem the reader reads from.
func (r *Reader) Fs() afero.Fs {
	return r.fs
}

var errNotObject = errors.New("document is not a JSON object")

// jsonDoc is one successfully decoded file of a directory.
type jsonDoc struct {
	stem string
	doc  map[string]any
}

// readJSONDir decodes every *.json file directly inside dir. Files are read
// concurrently; any file that cannot be read or decoded is dropped. The result
// keeps directory listing order. A missing or unreadable dir yields nil.
func (r *Reader) readJSONDir(ctx context.Context, dir, what string) []jsonDoc {
	r.log.Debug("Reading "+what+" directory", "dir", dir)

	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		r.log.Debug(what+" directory not readable", "dir", dir, "error", err)
		return nil
	}
	if len(entries) == 0 {
		r.log.Debug("No " + what + " files found")
		return nil
	}

	results := make([]*jsonDoc, len(entries))
	var g errgroup.Group
	for i, entry := range entries {
		i := i
		name := entry.Name()
		if filepath.Ext(name) != ".json" || entry.IsDir() {
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			path := filepath.Join(dir, name)
			doc, err := r.readJSONObject(path)
			if err != nil {
				r.log.Debug("Error parsing "+what+" file", "file", name, "error", err)
				return nil
			}
			results[i] = &jsonDoc{stem: strings.TrimSuffix(name, ".json"), doc: doc}
			return nil
		})
	}
	_ = g.Wait()

	docs := make([]jsonDoc, 0, len(results))
	for _, res := range results {
		if res != nil {
			docs = append(docs, *res)
		}
	}
	return docs
}

// readJSONObject reads and decodes a file holding a single JSON object.
// Numbers are kept as json.Number so they marshal back unchanged.
func (r *Reader) readJSONObject(path string) (map[string]any, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, err
	}
	return decodeObject(data)
}

func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid character after top-level value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return obj, nil
}
