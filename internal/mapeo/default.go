package mapeo

import "context"

var defaultReader = NewReader()

// GetPresets reads presets from the OS filesystem without logging.
func GetPresets(ctx context.Context, dir string, opts URLOptions) []Preset {
	return defaultReader.Presets(ctx, dir, opts)
}

// GetFields reads fields from the OS filesystem without logging.
func GetFields(ctx context.Context, dir string) []Field {
	return defaultReader.Fields(ctx, dir)
}

// GetMessages reads messages from the OS filesystem without logging.
func GetMessages(ctx context.Context, dir string) MessageBundle {
	return defaultReader.Messages(ctx, dir)
}

// GetDefaults reads defaults.json from the OS filesystem without logging.
func GetDefaults(ctx context.Context, dir string) map[string]any {
	return defaultReader.Defaults(ctx, dir)
}

// GetMetadata reads metadata.json from the OS filesystem without logging.
func GetMetadata(ctx context.Context, dir string) map[string]any {
	return defaultReader.Metadata(ctx, dir)
}

// GetStylesheet reads style.css from the OS filesystem without logging.
func GetStylesheet(ctx context.Context, dir string) string {
	return defaultReader.Stylesheet(ctx, dir)
}

// GetIcon reads an icon from the OS filesystem without logging.
func GetIcon(path string) (string, error) {
	return defaultReader.Icon(path)
}

// GetConfig reads a whole project from the OS filesystem without logging.
func GetConfig(ctx context.Context, dir string, opts URLOptions) (*Configuration, error) {
	return defaultReader.Config(ctx, dir, opts)
}
