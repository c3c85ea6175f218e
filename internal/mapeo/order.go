package mapeo

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sortable is anything ordered by PresetOrder.
type Sortable interface {
	Name() string
	// Sort returns the explicit sort position and whether one was given.
	Sort() (float64, bool)
}

// comparer holds a collator. Collators are not safe for concurrent use, so
// each sort gets its own.
type comparer struct {
	col *collate.Collator
}

func newComparer() *comparer {
	return &comparer{col: collate.New(language.Und)}
}

func (c *comparer) strings(a, b string) int {
	return c.col.CompareString(strings.ToLower(a), strings.ToLower(b))
}

func (c *comparer) order(a, b Sortable) int {
	as, aok := a.Sort()
	bs, bok := b.Sort()
	switch {
	case aok && bok:
		if as == bs {
			return c.strings(a.Name(), b.Name())
		}
		return cmp.Compare(as, bs)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return c.strings(a.Name(), b.Name())
	}
}

// CompareStrings compares a and b case-insensitively with locale-aware
// collation. It returns a negative number, zero or a positive number.
func CompareStrings(a, b string) int {
	return newComparer().strings(a, b)
}

// PresetOrder orders entities with an explicit sort before those without,
// lower sort values first, and breaks ties by CompareStrings on the name.
func PresetOrder(a, b Sortable) int {
	return newComparer().order(a, b)
}

// SortPresets sorts presets in place by PresetOrder. The sort is stable.
func SortPresets(presets []Preset) {
	c := newComparer()
	slices.SortStableFunc(presets, func(a, b Preset) int {
		return c.order(a, b)
	})
}
