package mapeo

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Configuration is a whole configuration project.
type Configuration struct {
	Presets    []Preset       `json:"presets"`
	Fields     []Field        `json:"fields"`
	Messages   MessageBundle  `json:"messages"`
	Defaults   map[string]any `json:"defaults"`
	Metadata   map[string]any `json:"metadata"`
	Stylesheet string         `json:"stylesheet"`
	Format     Format         `json:"_format"`
}

// Subdirectories of a configuration project.
const (
	PresetsDir  = "presets"
	FieldsDir   = "fields"
	MessagesDir = "messages"
	IconsDir    = "icons"
)

// Config reads the whole project in dir. The six categories are read
// concurrently and each absorbs its own failures. Config fails only when dir
// is not an accessible directory, when ctx is done, or when a category reader
// panics; the error is always a *ParseError.
func (r *Reader) Config(ctx context.Context, dir string, opts URLOptions) (*Configuration, error) {
	r.log.Debug("Reading configuration directory", "dir", dir)

	info, err := r.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		r.log.Debug("Configuration directory not found", "dir", dir, "error", err)
		return nil, r.fail(ErrConfigDirectoryNotFound)
	}

	cfg := &Configuration{}
	g, gctx := errgroup.WithContext(ctx)
	goSafe(g, "presets", func() {
		cfg.Presets = r.Presets(gctx, filepath.Join(dir, PresetsDir), opts)
	})
	goSafe(g, "fields", func() {
		cfg.Fields = r.Fields(gctx, filepath.Join(dir, FieldsDir))
	})
	goSafe(g, "messages", func() {
		cfg.Messages = r.Messages(gctx, filepath.Join(dir, MessagesDir))
	})
	goSafe(g, "defaults", func() {
		cfg.Defaults = r.Defaults(gctx, dir)
	})
	goSafe(g, "metadata", func() {
		cfg.Metadata = r.Metadata(gctx, dir)
	})
	goSafe(g, "stylesheet", func() {
		cfg.Stylesheet = r.Stylesheet(gctx, dir)
	})
	if err := g.Wait(); err != nil {
		return nil, r.fail(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, r.fail(err)
	}

	cfg.Format = ResolveFormat(cfg.Metadata, cfg.Presets)

	r.log.Debug("Configuration parsed successfully",
		"presets", len(cfg.Presets),
		"fields", len(cfg.Fields),
		"messages", len(cfg.Messages),
		"format", cfg.Format,
	)
	return cfg, nil
}

func (r *Reader) fail(err error) error {
	r.log.Debug("Error parsing configuration", "error", err)
	return &ParseError{Err: err}
}

// goSafe runs fn on g and turns a panic into an error.
func goSafe(g *errgroup.Group, name string, fn func()) {
	g.Go(func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("reading %s: %v", name, rec)
			}
		}()
		fn()
		return nil
	})
}
