package mapeo

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// Icon returns the SVG text at path. Any failure, including a path that is
// not a regular file or does not end in .svg, is reported as ErrIconNotFound.
func (r *Reader) Icon(path string) (string, error) {
	r.log.Debug("Reading icon", "path", path)

	info, err := r.fs.Stat(path)
	if err != nil {
		r.log.Debug("Error reading icon", "error", err)
		return "", ErrIconNotFound
	}
	if !info.Mode().IsRegular() || filepath.Ext(path) != ".svg" {
		r.log.Debug("Icon not found or not an SVG file", "path", path)
		return "", ErrIconNotFound
	}

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		r.log.Debug("Error reading icon", "error", err)
		return "", ErrIconNotFound
	}
	r.log.Debug("Icon data loaded", "bytes", len(data))
	return string(data), nil
}
