package mapeo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Preset is a preset document as read from disk plus the computed slug,
// iconPath and _format keys.
type Preset map[string]any

// Name returns the preset's name, or "" when it is missing or not a string.
func (p Preset) Name() string {
	s, _ := p["name"].(string)
	return s
}

// Icon returns the base icon name as it appears in icon file names. A
// missing icon renders as "undefined" and null as "null", the way existing
// clients build the same paths.
func (p Preset) Icon() string {
	v, ok := p["icon"]
	if !ok {
		return "undefined"
	}
	return stringify(v)
}

// Sort implements Sortable. A present sort key counts as given even when its
// value is not a number; such values sort as 0.
func (p Preset) Sort() (float64, bool) {
	v, ok := p["sort"]
	if !ok {
		return 0, false
	}
	return number(v), true
}

// Slug returns the file name stem the preset was read from.
func (p Preset) Slug() string {
	s, _ := p[keySlug].(string)
	return s
}

// IconPath returns the computed icon URL.
func (p Preset) IconPath() string {
	s, _ := p[keyIconPath].(string)
	return s
}

// Format returns the computed format. Presets that have not been classified
// yet are classified on the fly.
func (p Preset) Format() Format {
	if f, ok := p[keyFormat].(Format); ok {
		return f
	}
	if s, ok := p[keyFormat].(string); ok {
		return Format(s)
	}
	return ClassifyPreset(p)
}

// URLOptions describe where icons are served from.
type URLOptions struct {
	Protocol string
	Hostname string
	Port     string
}

// BaseURL builds the prefix for icon paths. With protocol, hostname and port
// it is "<protocol>://<hostname>:<port>/". With only a protocol the protocol
// itself is used verbatim, which yields a string such as "httpicons/x.svg";
// existing clients depend on this.
func BaseURL(opts URLOptions) string {
	switch {
	case opts.Protocol != "" && opts.Hostname != "" && opts.Port != "":
		return fmt.Sprintf("%s://%s:%s/", opts.Protocol, opts.Hostname, opts.Port)
	case opts.Protocol != "":
		return opts.Protocol
	default:
		return ""
	}
}

// IconFileName returns the icon file name a preset of format f refers to.
func IconFileName(icon string, f Format) string {
	if f == FormatCoMapeo {
		return icon + ".svg"
	}
	return icon + "-100px.svg"
}

// Presets reads every preset in dir, sorts them by PresetOrder and adds slug,
// iconPath and _format. It never fails; problems yield fewer or no presets.
func (r *Reader) Presets(ctx context.Context, dir string, opts URLOptions) []Preset {
	baseURL := BaseURL(opts)

	docs := r.readJSONDir(ctx, dir, "presets")
	presets := make([]Preset, 0, len(docs))
	for _, d := range docs {
		p := Preset(d.doc)
		p[keySlug] = d.stem
		presets = append(presets, p)
	}

	SortPresets(presets)

	for _, p := range presets {
		f := ClassifyPreset(p)
		p[keyIconPath] = baseURL + "icons/" + IconFileName(p.Icon(), f)
		p[keyFormat] = f
	}

	r.log.Debug("Presets data", "count", len(presets))
	if len(presets) > 0 {
		r.log.Debug("First preset", "slug", presets[0].Slug(), "format", presets[0].Format())
	}
	return presets
}

// stringify renders a JSON value as it appears inside an icon path: null as
// "null", arrays as comma-joined elements, objects as "[object Object]".
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number, float64, int:
		return strconv.FormatFloat(number(t), 'f', -1, 64)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			if e != nil {
				parts[i] = stringify(e)
			}
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return fmt.Sprint(t)
	}
}

func number(v any) float64 {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case float64:
		return t
	case int:
		return float64(t)
	default:
		return 0
	}
}
