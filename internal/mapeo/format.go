package mapeo

import "encoding/json"

// Format identifies the file convention a document or project follows.
type Format string

const (
	FormatLegacy  Format = "legacy"
	FormatCoMapeo Format = "comapeo"
)

// Computed keys added to documents read from disk.
const (
	keyFormat   = "_format"
	keySlug     = "slug"
	keyIconPath = "iconPath"
	keyKey      = "key"
)

// ClassifyPreset reports FormatCoMapeo when doc has string name, icon and
// color, array fields and geometry, and a tags key holding an object, an
// array or null. Anything else is legacy.
func ClassifyPreset(doc map[string]any) Format {
	if doc == nil {
		return FormatLegacy
	}
	if isString(doc["name"]) &&
		isString(doc["icon"]) &&
		isString(doc["color"]) &&
		isArray(doc["fields"]) &&
		isArray(doc["geometry"]) &&
		isComposite(doc, "tags") {
		return FormatCoMapeo
	}
	return FormatLegacy
}

// ClassifyField reports FormatCoMapeo when doc has string tagKey, type and
// label.
func ClassifyField(doc map[string]any) Format {
	if doc == nil {
		return FormatLegacy
	}
	if isString(doc["tagKey"]) && isString(doc["type"]) && isString(doc["label"]) {
		return FormatCoMapeo
	}
	return FormatLegacy
}

// ResolveFormat derives the format of a whole project. It is CoMapeo only when
// the metadata has a non-empty name and the first preset is CoMapeo.
func ResolveFormat(metadata map[string]any, presets []Preset) Format {
	if !truthy(metadata["name"]) || len(presets) == 0 {
		return FormatLegacy
	}
	if presets[0].Format() == FormatCoMapeo {
		return FormatCoMapeo
	}
	return FormatLegacy
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

// isComposite reports whether key is present in doc with a value that is
// not a scalar: an object, an array or null.
func isComposite(doc map[string]any, key string) bool {
	v, ok := doc[key]
	if !ok {
		return false
	}
	switch v.(type) {
	case nil, map[string]any, []any:
		return true
	default:
		return false
	}
}

// truthy follows JSON value truthiness: null, false, "", 0 are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
