package mapeo

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	defaultsFile   = "defaults.json"
	metadataFile   = "metadata.json"
	stylesheetFile = "style.css"
)

// Defaults returns the parsed defaults.json in dir, or an empty object when
// it is missing or unreadable.
func (r *Reader) Defaults(ctx context.Context, dir string) map[string]any {
	return r.readOptionalObject(filepath.Join(dir, defaultsFile), "defaults")
}

// Metadata returns the parsed metadata.json in dir, or an empty object when
// it is missing or unreadable.
func (r *Reader) Metadata(ctx context.Context, dir string) map[string]any {
	return r.readOptionalObject(filepath.Join(dir, metadataFile), "metadata")
}

// Stylesheet returns the contents of style.css in dir, or "" when it is
// missing or unreadable.
func (r *Reader) Stylesheet(ctx context.Context, dir string) string {
	path := filepath.Join(dir, stylesheetFile)
	r.log.Debug("Reading stylesheet", "path", path)

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			r.log.Debug("style.css not found, returning empty string")
		} else {
			r.log.Debug("Error reading style.css", "error", err)
		}
		return ""
	}
	r.log.Debug("Parsed stylesheet", "bytes", len(data))
	return string(data)
}

func (r *Reader) readOptionalObject(path, what string) map[string]any {
	r.log.Debug("Reading "+what+" file", "path", path)

	obj, err := r.readJSONObject(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.log.Debug(filepath.Base(path) + " not found, returning empty " + what)
		} else {
			r.log.Debug("Error reading "+filepath.Base(path), "error", err)
		}
		return map[string]any{}
	}
	r.log.Debug("Parsed "+what, "keys", len(obj))
	return obj
}
