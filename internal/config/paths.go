package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user settings directory.
const AppName = "mapeo-config-renderer"

// Paths contains the per-user directories used by the renderer.
type Paths struct {
	Config string // ~/.config/mapeo-config-renderer
}

// GetPaths returns the per-user directories, honoring XDG_CONFIG_HOME.
func GetPaths() *Paths {
	return &Paths{
		Config: filepath.Join(getEnvOrDefault("XDG_CONFIG_HOME", defaultConfigHome()), AppName),
	}
}

// GlobalSettingsPath returns the path to the global settings file.
func GlobalSettingsPath() string {
	return filepath.Join(GetPaths().Config, "settings.json")
}

// ProjectSettingsPath returns the path to the settings file kept inside a
// configuration directory.
func ProjectSettingsPath(configDir string) string {
	return filepath.Join(configDir, ProjectSettingsName+".json")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultConfigHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}
