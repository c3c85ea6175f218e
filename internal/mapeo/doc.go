/*
Package mapeo reads a Mapeo configuration project from disk and turns it into
JSON-ready values.

A configuration project is a directory with a conventional layout:

	<configDir>/
	  presets/*.json
	  fields/*.json
	  messages/<lang>.json
	  icons/<name>-100px.svg | <name>.svg
	  defaults.json
	  metadata.json
	  style.css

Two file formats share this layout. Legacy Mapeo presets reference icons with a
"-100px" size suffix; CoMapeo presets carry color, fields, geometry and tags and
reference icons by bare name. The format is never declared by the files
themselves: ClassifyPreset and ClassifyField infer it from the shape of each
document, and ResolveFormat derives the format of the whole project.

# Reading

A Reader is bound to a filesystem and a Logger:

	r := mapeo.NewReader(
		mapeo.WithFs(afero.NewOsFs()),
		mapeo.WithLogger(mapeo.NewVerboseLogger(logging.Logger)),
	)

	cfg, err := r.Config(ctx, "/path/to/config", mapeo.URLOptions{
		Protocol: "http",
		Hostname: "localhost",
		Port:     "5000",
	})

The per-category readers (Presets, Fields, Messages, Defaults, Metadata,
Stylesheet) never fail: a missing directory, a missing file or a single
malformed document yields an empty value or drops that document. Only Config
reports errors, and only when the configuration directory itself is missing
(ErrConfigDirectoryNotFound) or aggregation fails unexpectedly (*ParseError).

Icon lookups go through Icon, which reports every failure as ErrIconNotFound.

Nothing is cached. Every call reads the filesystem again, so a Reader can be
shared by concurrent HTTP requests.
*/
package mapeo
