package mapeo

import "context"

// Field is a field document as read from disk plus the computed key and
// _format keys.
type Field map[string]any

// Key returns the file name stem the field was read from.
func (f Field) Key() string {
	s, _ := f[keyKey].(string)
	return s
}

// TagKey returns the CoMapeo tag key, or "" for legacy fields without one.
func (f Field) TagKey() string {
	s, _ := f["tagKey"].(string)
	return s
}

// Format returns the computed format.
func (f Field) Format() Format {
	if v, ok := f[keyFormat].(Format); ok {
		return v
	}
	if s, ok := f[keyFormat].(string); ok {
		return Format(s)
	}
	return ClassifyField(f)
}

// Fields reads every field in dir in directory order and adds key and
// _format. A field's key always comes from its file name and overrides any
// key inside the document.
func (r *Reader) Fields(ctx context.Context, dir string) []Field {
	docs := r.readJSONDir(ctx, dir, "fields")
	fields := make([]Field, 0, len(docs))
	for _, d := range docs {
		f := Field(d.doc)
		format := ClassifyField(f)
		f[keyKey] = d.stem
		f[keyFormat] = format
		fields = append(fields, f)
	}
	r.log.Debug("Fields data", "count", len(fields))
	return fields
}
