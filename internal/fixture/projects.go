package fixture

import "strings"

var defaults = map[string]any{
	"area":     []string{"airstrip", "village"},
	"line":     []string{"river"},
	"point":    []string{"airstrip", "village", "sacred-site"},
	"vertex":   []string{},
	"relation": []string{},
}

func packageJSON(name, description, keyword string) map[string]any {
	return map[string]any{
		"name":        name,
		"version":     "1.0.0",
		"description": description,
		"main":        "index.js",
		"scripts":     map[string]string{"build": "mapeo-settings-builder build"},
		"keywords":    []string{keyword, "config"},
		"author":      "Test Author",
		"license":     "MIT",
	}
}

// legacyProject has presets without colors and with explicit sort values,
// fields keyed by "key", no translations and no stylesheet.
func legacyProject() project {
	return project{
		presets: []map[string]any{
			{
				"name":     "Airstrip",
				"icon":     "airstrip",
				"fields":   []string{"name"},
				"geometry": []string{"point", "area"},
				"tags":     map[string]string{"type": "aeroway", "aeroway": "airstrip"},
				"terms":    []string{"airfield", "airport", "landing"},
				"sort":     3,
			},
			{
				"name":     "River",
				"icon":     "river",
				"fields":   []string{"name", "notes"},
				"geometry": []string{"line"},
				"tags":     map[string]string{"natural": "water", "water": "river"},
				"terms":    []string{"stream", "waterway"},
				"sort":     2,
			},
			{
				"name":     "Village",
				"icon":     "village",
				"fields":   []string{"name", "population", "notes"},
				"geometry": []string{"point", "area"},
				"tags":     map[string]string{"place": "village"},
				"terms":    []string{"settlement", "community"},
			},
			{
				"name":     "Sacred Site",
				"icon":     "sacred-site",
				"fields":   []string{"name", "notes"},
				"geometry": []string{"point"},
				"tags":     map[string]string{"sacred": "yes", "amenity": "place_of_worship"},
				"terms":    []string{"spiritual", "worship", "ceremonial"},
				"sort":     1,
			},
		},
		fields: []map[string]any{
			{"key": "name", "type": "text", "label": "Name"},
			{"key": "notes", "type": "textarea", "label": "Notes"},
			{"key": "population", "type": "number", "label": "Population"},
		},
		icons:    iconSet(false),
		defaults: defaults,
		metadata: map[string]any{
			"dataset_id": "legacy-mapeo-test-config",
			"version":    "23.05.07",
		},
		pkg: packageJSON("legacy-mapeo-test-config", "Test configuration for legacy Mapeo", "mapeo"),
	}
}

var comapeoColors = map[string]string{
	"airstrip":    "#B209B2",
	"river":       "#0000FF",
	"village":     "#8B4513",
	"sacred-site": "#800080",
}

type fieldText struct {
	label, placeholder, helperText string
}

type presetText struct {
	name, terms string
}

func comapeoProject() project {
	p := project{
		presets: []map[string]any{
			{
				"name":     "Airstrip",
				"icon":     "airstrip",
				"color":    comapeoColors["airstrip"],
				"fields":   []string{"name"},
				"geometry": []string{"point", "area"},
				"tags":     map[string]string{"type": "aeroway", "aeroway": "airstrip"},
				"terms":    []string{"airfield", "airport", "landing"},
			},
			{
				"name":     "River",
				"icon":     "river",
				"color":    comapeoColors["river"],
				"fields":   []string{"name", "notes"},
				"geometry": []string{"line"},
				"tags":     map[string]string{"natural": "water", "water": "river"},
				"terms":    []string{"stream", "waterway"},
			},
			{
				"name":     "Village",
				"icon":     "village",
				"color":    comapeoColors["village"],
				"fields":   []string{"name", "population", "notes"},
				"geometry": []string{"point", "area"},
				"tags":     map[string]string{"place": "village"},
				"terms":    []string{"settlement", "community"},
			},
			{
				"name":     "Sacred Site",
				"icon":     "sacred-site",
				"color":    comapeoColors["sacred-site"],
				"fields":   []string{"name", "notes", "religion"},
				"geometry": []string{"point"},
				"tags":     map[string]string{"sacred": "yes", "amenity": "place_of_worship"},
				"terms":    []string{"spiritual", "worship", "ceremonial"},
			},
		},
		fields: []map[string]any{
			{
				"tagKey": "name", "type": "text", "label": "Name",
				"placeholder": "Enter a name",
				"helperText":  "The name of this feature",
				"universal":   false,
			},
			{
				"tagKey": "notes", "type": "text", "label": "Notes",
				"placeholder": "Enter any additional information",
				"helperText":  "Any additional information about this feature",
				"universal":   false,
			},
			{
				"tagKey": "population", "type": "number", "label": "Population",
				"placeholder": "Enter the population",
				"helperText":  "The number of people living here",
				"universal":   false,
			},
			{
				"tagKey": "religion", "type": "selectOne", "label": "Religion",
				"options": []map[string]string{
					{"label": "Christianity", "value": "christianity"},
					{"label": "Islam", "value": "islam"},
					{"label": "Hinduism", "value": "hinduism"},
					{"label": "Buddhism", "value": "buddhism"},
					{"label": "Indigenous", "value": "indigenous"},
					{"label": "Other", "value": "other"},
				},
				"helperText": "The religion associated with this site",
				"universal":  false,
			},
		},
		icons:    iconSet(true),
		defaults: defaults,
		metadata: map[string]any{
			"dataset_id": "comapeo-mulokot-comapeo-category",
			"name":       "config-mulokot-comapeo-category",
			"version":    "25.05.07",
		},
		pkg: packageJSON("comapeo-test-config", "Test configuration for CoMapeo", "comapeo"),
	}

	p.messages = map[string]map[string]message{
		"en": translations(
			map[string]fieldText{
				"name":       {"Name", "Enter a name", "The name of this feature"},
				"notes":      {"Notes", "Enter any additional information", "Any additional information about this feature"},
				"population": {"Population", "Enter the population", "The number of people living here"},
				"religion":   {"Religion", "", "The religion associated with this site"},
			},
			map[string]presetText{
				"airstrip":    {"Airstrip", "airfield, airport, landing"},
				"river":       {"River", "stream, waterway"},
				"village":     {"Village", "settlement, community"},
				"sacred-site": {"Sacred Site", "spiritual, worship, ceremonial"},
			},
		),
		"es": translations(
			map[string]fieldText{
				"name":       {"Nombre", "Ingrese un nombre", "El nombre de esta característica"},
				"notes":      {"Notas", "Ingrese cualquier información adicional", "Cualquier información adicional sobre esta característica"},
				"population": {"Población", "Ingrese la población", "El número de personas que viven aquí"},
				"religion":   {"Religión", "", "La religión asociada con este sitio"},
			},
			map[string]presetText{
				"airstrip":    {"Pista de Aterrizaje", "aeródromo, aeropuerto, aterrizaje"},
				"river":       {"Río", "arroyo, vía fluvial"},
				"village":     {"Pueblo", "asentamiento, comunidad"},
				"sacred-site": {"Sitio Sagrado", "espiritual, adoración, ceremonial"},
			},
		),
	}

	var css strings.Builder
	css.WriteString("\n/* CoMapeo Custom Styles */\n")
	for _, slug := range []string{"airstrip", "river", "village", "sacred-site"} {
		css.WriteString(".preset-" + slug + " {\n  color: " + comapeoColors[slug] + ";\n}\n")
	}
	p.stylesheet = css.String()
	return p
}

// translations builds a message file. Empty strings are left out.
func translations(fields map[string]fieldText, presets map[string]presetText) map[string]message {
	out := make(map[string]message)
	add := func(key, description, msg string) {
		if msg != "" {
			out[key] = message{Description: description, Message: msg}
		}
	}
	for key, f := range fields {
		add("fields."+key+".label", "Label for field "+key, f.label)
		add("fields."+key+".placeholder", "Placeholder for field "+key, f.placeholder)
		add("fields."+key+".helperText", "Helper text for field "+key, f.helperText)
	}
	for slug, p := range presets {
		add("presets."+slug+".name", "The name of preset "+slug, p.name)
		add("presets."+slug+".terms", "List of search terms for preset "+slug, p.terms)
	}
	return out
}
