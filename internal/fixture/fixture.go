// Package fixture writes sample Mapeo configuration projects, one per
// format, for tests and demos.
package fixture

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/digidem/mapeo-config-renderer/internal/mapeo"
)

// Kind selects which sample project to write.
type Kind string

const (
	Legacy  Kind = "legacy"
	CoMapeo Kind = "comapeo"
)

// ParseKind accepts "legacy" or "comapeo".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Legacy, CoMapeo:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown fixture kind %q (want %q or %q)", s, Legacy, CoMapeo)
	}
}

// project is the full content of a sample configuration.
type project struct {
	presets    []map[string]any
	fields     []map[string]any
	messages   map[string]map[string]message
	icons      map[string]string
	defaults   map[string]any
	metadata   map[string]any
	pkg        map[string]any
	stylesheet string
}

type message struct {
	Description string `json:"description"`
	Message     string `json:"message"`
}

// Write creates a project of the given kind under dir. Existing files are
// overwritten.
func Write(fs afero.Fs, dir string, kind Kind) error {
	var p project
	switch kind {
	case Legacy:
		p = legacyProject()
	case CoMapeo:
		p = comapeoProject()
	default:
		return fmt.Errorf("unknown fixture kind %q", kind)
	}
	return p.write(fs, dir)
}

func (p project) write(fs afero.Fs, dir string) error {
	for _, sub := range []string{mapeo.PresetsDir, mapeo.FieldsDir, mapeo.IconsDir} {
		if err := fs.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	for _, preset := range p.presets {
		slug, _ := preset["icon"].(string)
		if err := writeJSON(fs, filepath.Join(dir, mapeo.PresetsDir, slug+".json"), preset); err != nil {
			return err
		}
	}

	for _, field := range p.fields {
		key, _ := field["tagKey"].(string)
		if key == "" {
			key, _ = field["key"].(string)
		}
		if err := writeJSON(fs, filepath.Join(dir, mapeo.FieldsDir, key+".json"), field); err != nil {
			return err
		}
	}

	if len(p.messages) > 0 {
		if err := fs.MkdirAll(filepath.Join(dir, mapeo.MessagesDir), 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		for lang, msgs := range p.messages {
			if err := writeJSON(fs, filepath.Join(dir, mapeo.MessagesDir, lang+".json"), msgs); err != nil {
				return err
			}
		}
	}

	for name, svg := range p.icons {
		if err := writeText(fs, filepath.Join(dir, mapeo.IconsDir, name+".svg"), svg); err != nil {
			return err
		}
	}

	if err := writeJSON(fs, filepath.Join(dir, "defaults.json"), p.defaults); err != nil {
		return err
	}
	if err := writeJSON(fs, filepath.Join(dir, "metadata.json"), p.metadata); err != nil {
		return err
	}
	if err := writeJSON(fs, filepath.Join(dir, "package.json"), p.pkg); err != nil {
		return err
	}
	if p.stylesheet != "" {
		if err := writeText(fs, filepath.Join(dir, "style.css"), p.stylesheet); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(fs afero.Fs, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	return writeText(fs, path, string(data))
}

func writeText(fs afero.Fs, path, content string) error {
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
