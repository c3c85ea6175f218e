package mapeo

import (
	"context"
	"slices"
)

// MessageBundle maps a language code to that language's messages, keyed by
// message id such as "presets.river.name".
type MessageBundle map[string]map[string]any

// Message is one translated string.
type Message struct {
	Description string `json:"description,omitempty"`
	Message     string `json:"message"`
}

// Lookup returns the message for key in lang.
func (b MessageBundle) Lookup(lang, key string) (Message, bool) {
	entry, ok := b[lang][key].(map[string]any)
	if !ok {
		return Message{}, false
	}
	msg, ok := entry["message"].(string)
	if !ok {
		return Message{}, false
	}
	desc, _ := entry["description"].(string)
	return Message{Description: desc, Message: msg}, true
}

// Languages returns the language codes present in the bundle, sorted.
func (b MessageBundle) Languages() []string {
	var langs []string
	for lang := range b {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Messages reads every <lang>.json in dir. A file that fails to parse, or
// whose top level is not an object, is left out; the others are still
// returned.
func (r *Reader) Messages(ctx context.Context, dir string) MessageBundle {
	bundle := make(MessageBundle)
	for _, d := range r.readJSONDir(ctx, dir, "messages") {
		bundle[d.stem] = d.doc
		r.log.Debug("Parsed messages for language", "lang", d.stem)
	}
	return bundle
}
