package mapeo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var localhost = URLOptions{Protocol: "http", Hostname: "localhost", Port: "5000"}

func TestPresets_SortedWithIconPath(t *testing.T) {
	r, fs := newMemReader(t)
	writeJSON(t, fs, "/cfg/presets/preset1.json", map[string]any{"name": "Preset 1", "sort": 2, "icon": "icon1"})
	writeJSON(t, fs, "/cfg/presets/preset2.json", map[string]any{"name": "Preset 2", "sort": 1, "icon": "icon2"})

	presets := r.Presets(context.Background(), "/cfg/presets", localhost)

	require.Len(t, presets, 2)
	assert.Equal(t, []string{"Preset 2", "Preset 1"}, names(presets))
	assert.Equal(t, "http://localhost:5000/icons/icon2-100px.svg", presets[0].IconPath())
	assert.Equal(t, "http://localhost:5000/icons/icon1-100px.svg", presets[1].IconPath())
	assert.Equal(t, "preset2", presets[0].Slug())
	assert.Equal(t, "preset1", presets[1].Slug())
	assert.Equal(t, FormatLegacy, presets[0].Format())
	assert.Equal(t, FormatLegacy, presets[1].Format())
}

func TestPresets_EqualSortByName(t *testing.T) {
	r, fs := newMemReader(t)
	writeJSON(t, fs, "/p/presetB.json", map[string]any{"name": "Preset B", "sort": 1, "icon": "iconB"})
	writeJSON(t, fs, "/p/presetA.json", map[string]any{"name": "Preset A", "sort": 1, "icon": "iconA"})

	presets := r.Presets(context.Background(), "/p", localhost)

	assert.Equal(t, []string{"Preset A", "Preset B"}, names(presets))
}

func TestPresets_WithoutSort(t *testing.T) {
	r, fs := newMemReader(t)
	writeJSON(t, fs, "/p/presetB.json", map[string]any{"name": "Preset B", "icon": "iconB"})
	writeJSON(t, fs, "/p/presetA.json", map[string]any{"name": "Preset A", "icon": "iconA"})
	writeJSON(t, fs, "/p/presetWithSort.json", map[string]any{"name": "Preset With Sort", "sort": 1, "icon": "iconC"})

	presets := r.Presets(context.Background(), "/p", localhost)

	assert.Equal(t, []string{"Preset With Sort", "Preset A", "Preset B"}, names(presets))
}

func TestPresets_NameOrderWithoutSort(t *testing.T) {
	r, fs := newMemReader(t)
	writeJSON(t, fs, "/p/presetB.json", map[string]any{"name": "Preset B", "icon": "iconB"})
	writeJSON(t, fs, "/p/presetA.json", map[string]any{"name": "Preset A", "icon": "iconA"})

	presets := r.Presets(context.Background(), "/p", URLOptions{})

	require.Len(t, presets, 2)
	assert.Equal(t, "presetA", presets[0].Slug())
	assert.Equal(t, "presetB", presets[1].Slug())
	assert.Equal(t, "icons/iconA-100px.svg", presets[0].IconPath())
}

func TestPresets_MissingOrEmptyDirectory(t *testing.T) {
	r, fs := newMemReader(t)
	require.NoError(t, fs.MkdirAll("/empty", 0755))

	missing := r.Presets(context.Background(), "/nope", localhost)
	assert.NotNil(t, missing)
	assert.Empty(t, missing)

	assert.Empty(t, r.Presets(context.Background(), "/empty", localhost))
}

func TestPresets_PathIsAFile(t *testing.T) {
	r, fs := newMemReader(t)
	writeFile(t, fs, "/presets", "not a directory")

	assert.Empty(t, r.Presets(context.Background(), "/presets", localhost))
}

func TestPresets_SkipsDirectoriesAndProtocolOnlyBaseURL(t *testing.T) {
	r, fs := newMemReader(t)
	writeJSON(t, fs, "/p/preset1.json", map[string]any{"name": "Preset 1", "icon": "icon1"})
	require.NoError(t, fs.MkdirAll("/p/subdir.json", 0755))
	require.NoError(t, fs.MkdirAll("/p/subdir", 0755))

	presets := r.Presets(context.Background(), "/p", URLOptions{Protocol: "http"})

	require.Len(t, presets, 1)
	assert.Equal(t, "Preset 1", presets[0].Name())
	assert.Equal(t, "httpicons/icon1-100px.svg", presets[0].IconPath())
}

func TestPresets_DropsBadFiles(t *testing.T) {
	r, fs := newMemReader(t)
	writeJSON(t, fs, "/p/good.json", map[string]any{"name": "Good", "icon": "good"})
	writeFile(t, fs, "/p/broken.json", `{"name": "Broken",`)
	writeFile(t, fs, "/p/list.json", `["not", "an", "object"]`)
	writeFile(t, fs, "/p/trailing.json", `{"name": "Trailing"} {}`)
	writeFile(t, fs, "/p/readme.txt", "hello")

	presets := r.Presets(context.Background(), "/p", localhost)

	assert.Equal(t, []string{"Good"}, names(presets))
}

func TestPresets_CoMapeo(t *testing.T) {
	r, fs := newMemReader(t)
	writeJSON(t, fs, "/p/river.json", map[string]any{
		"name":     "River",
		"icon":     "river",
		"color":    "#0000FF",
		"fields":   []string{"name", "notes"},
		"geometry": []string{"line"},
		"tags":     map[string]string{"natural": "water", "water": "river"},
	})

	presets := r.Presets(context.Background(), "/p", localhost)

	require.Len(t, presets, 1)
	assert.Equal(t, "River", presets[0].Name())
	assert.Equal(t, "http://localhost:5000/icons/river.svg", presets[0].IconPath())
	assert.Equal(t, FormatCoMapeo, presets[0].Format())
}

func TestPresets_CoMapeoWithNullTags(t *testing.T) {
	r, fs := newMemReader(t)
	writeFile(t, fs, "/p/a.json", `{"name":"A","icon":"a","color":"#f","fields":[],"geometry":[],"tags":null}`)
	writeFile(t, fs, "/p/b.json", `{"name":"B","icon":"b","color":"#f","fields":[],"geometry":[],"tags":[]}`)

	presets := r.Presets(context.Background(), "/p", URLOptions{})

	require.Len(t, presets, 2)
	assert.Equal(t, FormatCoMapeo, presets[0].Format())
	assert.Equal(t, "icons/a.svg", presets[0].IconPath())
	assert.Equal(t, FormatCoMapeo, presets[1].Format())
	assert.Equal(t, "icons/b.svg", presets[1].IconPath())
	assert.Equal(t, FormatCoMapeo, ResolveFormat(map[string]any{"name": "cfg"}, presets))
}

func TestPresets_IconInterpolation(t *testing.T) {
	r, fs := newMemReader(t)
	writeFile(t, fs, "/p/1.json", `{"name":"A","sort":1}`)
	writeFile(t, fs, "/p/2.json", `{"name":"B","sort":2,"icon":null}`)
	writeFile(t, fs, "/p/3.json", `{"name":"C","sort":3,"icon":7}`)
	writeFile(t, fs, "/p/4.json", `{"name":"D","sort":4,"icon":["x","y"]}`)

	presets := r.Presets(context.Background(), "/p", URLOptions{})

	require.Len(t, presets, 4)
	assert.Equal(t, "icons/undefined-100px.svg", presets[0].IconPath())
	assert.Equal(t, "icons/null-100px.svg", presets[1].IconPath())
	assert.Equal(t, "icons/7-100px.svg", presets[2].IconPath())
	assert.Equal(t, "icons/x,y-100px.svg", presets[3].IconPath())
}

func TestPresets_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := `{
		"name": "Camp",
		"icon": "camp",
		"sort": 3.50,
		"big": 12345678901234567890,
		"terms": ["tent", "campsite"],
		"nested": {"a": [1, 2, {"b": null}]},
		"flag": false
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "camp.json"), []byte(original), 0644))

	presets := NewReader().Presets(context.Background(), dir, localhost)
	require.Len(t, presets, 1)

	out, err := json.Marshal(presets[0])
	require.NoError(t, err)

	var got, want map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &got))
	require.NoError(t, json.Unmarshal([]byte(original), &want))

	for k, v := range want {
		assert.JSONEq(t, string(v), string(got[k]), "key %s", k)
	}
	assert.Equal(t, "3.50", string(got["sort"]))
	assert.Equal(t, "12345678901234567890", string(got["big"]))

	added := make([]string, 0)
	for k := range got {
		if _, ok := want[k]; !ok {
			added = append(added, k)
		}
	}
	assert.ElementsMatch(t, []string{"slug", "iconPath", "_format"}, added)
	assert.JSONEq(t, `"legacy"`, string(got["_format"]))
	assert.JSONEq(t, `"camp"`, string(got["slug"]))
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name string
		opts URLOptions
		want string
	}{
		{"full", URLOptions{"https", "example.org", "443"}, "https://example.org:443/"},
		{"protocol only", URLOptions{Protocol: "http"}, "http"},
		{"protocol and hostname", URLOptions{Protocol: "http", Hostname: "h"}, "http"},
		{"none", URLOptions{}, ""},
		{"hostname and port without protocol", URLOptions{Hostname: "h", Port: "1"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseURL(tt.opts))
		})
	}
}

func TestIconFileName(t *testing.T) {
	assert.Equal(t, "river.svg", IconFileName("river", FormatCoMapeo))
	assert.Equal(t, "river-100px.svg", IconFileName("river", FormatLegacy))
}
