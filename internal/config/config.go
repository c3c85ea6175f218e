package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
)

// Environment variables read by Load.
const (
	EnvPort      = "PORT"
	EnvConfigDir = "CONFIG_FOLDER"
	EnvHostname  = "HOSTNAME"
	EnvDebug     = "DEBUG"
	EnvLogLevel  = "LOG_LEVEL"
	EnvHeadless  = "MAPEO_RENDERER_HEADLESS"
	EnvStatic    = "MAPEO_RENDERER_STATIC"
)

// ProjectSettingsName is the settings file looked up inside the
// configuration directory, with either a .json or .jsonc extension.
const ProjectSettingsName = ".mapeo-renderer"

const (
	DefaultPort     = 5000
	DefaultDebounce = time.Second
)

// Settings is the runtime configuration of the renderer.
type Settings struct {
	Port      int             `json:"port"`
	Hostname  string          `json:"hostname"`
	ConfigDir string          `json:"configDir"`
	Headless  bool            `json:"headless"`
	StaticDir string          `json:"staticDir,omitempty"`
	LogLevel  string          `json:"logLevel"`
	Debug     bool            `json:"debug"`
	Watcher   WatcherSettings `json:"watcher"`
}

// WatcherSettings configures the configuration directory watcher.
type WatcherSettings struct {
	Ignore   []string `json:"ignore,omitempty"`
	Debounce Duration `json:"debounce"`
}

// Duration is a time.Duration that reads and writes strings such as "1s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var ms int64
		if err := json.Unmarshal(data, &ms); err != nil {
			return fmt.Errorf("invalid duration %s", data)
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Addr is the listen address for the HTTP server.
func (s *Settings) Addr() string {
	return ":" + strconv.Itoa(s.Port)
}

// fileSettings is the on-disk shape. Pointers distinguish unset from zero.
type fileSettings struct {
	Port      *int    `json:"port"`
	Hostname  *string `json:"hostname"`
	ConfigDir *string `json:"configDir"`
	Headless  *bool   `json:"headless"`
	StaticDir *string `json:"staticDir"`
	LogLevel  *string `json:"logLevel"`
	Debug     *bool   `json:"debug"`
	Watcher   *struct {
		Ignore   []string  `json:"ignore"`
		Debounce *Duration `json:"debounce"`
	} `json:"watcher"`
}

// Default returns the built-in settings.
func Default() *Settings {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	return &Settings{
		Port:      DefaultPort,
		Hostname:  hostname,
		ConfigDir: ".",
		LogLevel:  "info",
		Watcher:   WatcherSettings{Debounce: Duration(DefaultDebounce)},
	}
}

// Load builds settings from these sources, lowest priority first:
//  1. Built-in defaults
//  2. Global settings (~/.config/mapeo-config-renderer/settings.json[c])
//  3. Project settings (<configDir>/.mapeo-renderer.json[c])
//  4. .env in the working directory, then in the configuration directory
//  5. Environment variables
//
// dir is the configuration directory given on the command line; when empty
// CONFIG_FOLDER or the global settings decide, falling back to ".".
// Command line flags are applied by the caller on top of the result.
func Load(dir string) (*Settings, error) {
	s := Default()

	env := newEnvLookup()
	if err := env.addDotenv(".env"); err != nil {
		return nil, err
	}

	globalDir := GetPaths().Config
	for _, name := range []string{"settings.json", "settings.jsonc"} {
		if err := loadFile(filepath.Join(globalDir, name), s); err != nil {
			return nil, err
		}
	}

	switch {
	case dir != "":
		s.ConfigDir = dir
	default:
		if v, ok := env.get(EnvConfigDir); ok {
			s.ConfigDir = v
		}
	}

	for _, ext := range []string{".json", ".jsonc"} {
		if err := loadFile(filepath.Join(s.ConfigDir, ProjectSettingsName+ext), s); err != nil {
			return nil, err
		}
	}
	// The project file must not move the directory it was found in.
	if dir != "" {
		s.ConfigDir = dir
	}

	if err := env.addDotenv(filepath.Join(s.ConfigDir, ".env")); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(s, env, dir != ""); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks ranges and formats.
func (s *Settings) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid port %d", s.Port)
	}
	if s.ConfigDir == "" {
		return errors.New("configuration directory is empty")
	}
	if s.Watcher.Debounce < 0 {
		return fmt.Errorf("invalid watcher debounce %s", time.Duration(s.Watcher.Debounce))
	}
	return nil
}

// loadFile merges one settings file into s. Missing files are skipped.
func loadFile(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	// Strip JSONC comments using tidwall/jsonc
	data = jsonc.ToJSON(data)

	var fileCfg fileSettings
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	mergeSettings(s, &fileCfg, filepath.Dir(path))
	return nil
}

// mergeSettings merges source into target. Relative directories are
// resolved against baseDir.
func mergeSettings(target *Settings, source *fileSettings, baseDir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	if source.Port != nil {
		target.Port = *source.Port
	}
	if source.Hostname != nil {
		target.Hostname = *source.Hostname
	}
	if source.ConfigDir != nil {
		target.ConfigDir = resolve(*source.ConfigDir)
	}
	if source.Headless != nil {
		target.Headless = *source.Headless
	}
	if source.StaticDir != nil {
		target.StaticDir = resolve(*source.StaticDir)
	}
	if source.LogLevel != nil {
		target.LogLevel = *source.LogLevel
	}
	if source.Debug != nil {
		target.Debug = *source.Debug
	}
	if w := source.Watcher; w != nil {
		if len(w.Ignore) > 0 {
			target.Watcher.Ignore = append(target.Watcher.Ignore, w.Ignore...)
		}
		if w.Debounce != nil {
			target.Watcher.Debounce = *w.Debounce
		}
	}
}

// applyEnvOverrides applies environment variable overrides. dirFixed stops
// CONFIG_FOLDER from replacing a directory given on the command line.
func applyEnvOverrides(s *Settings, env *envLookup, dirFixed bool) error {
	if v, ok := env.get(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		s.Port = port
	}
	if v, ok := env.get(EnvConfigDir); ok && !dirFixed {
		s.ConfigDir = v
	}
	if v, ok := env.get(EnvHostname); ok {
		s.Hostname = v
	}
	if v, ok := env.get(EnvDebug); ok {
		s.Debug = truthy(v)
	}
	if v, ok := env.get(EnvLogLevel); ok {
		s.LogLevel = v
	}
	if v, ok := env.get(EnvHeadless); ok {
		s.Headless = truthy(v)
	}
	if v, ok := env.get(EnvStatic); ok {
		s.StaticDir = v
	}
	return nil
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

// envLookup reads the process environment first and .env values second, so
// a .env file never overrides a variable that is already set.
type envLookup struct {
	dotenv map[string]string
}

func newEnvLookup() *envLookup {
	return &envLookup{dotenv: make(map[string]string)}
}

func (e *envLookup) addDotenv(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	for k, v := range values {
		if _, seen := e.dotenv[k]; !seen {
			e.dotenv[k] = v
		}
	}
	return nil
}

func (e *envLookup) get(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v, true
	}
	v, ok := e.dotenv[key]
	return v, ok && v != ""
}

// Save writes the settings as indented JSON.
func Save(s *Settings, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
