package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and XDG_CONFIG_HOME at a fresh directory and clears
// every variable Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, key := range []string{EnvPort, EnvConfigDir, EnvHostname, EnvDebug, EnvLogLevel, EnvHeadless, EnvStatic} {
		t.Setenv(key, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, s.Port)
	assert.Equal(t, dir, s.ConfigDir)
	assert.Equal(t, "info", s.LogLevel)
	assert.False(t, s.Headless)
	assert.False(t, s.Debug)
	assert.Equal(t, DefaultDebounce, time.Duration(s.Watcher.Debounce))
	assert.Equal(t, ":5000", s.Addr())
}

func TestLoad_DefaultDirectory(t *testing.T) {
	isolate(t)

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ".", s.ConfigDir)

	t.Setenv(EnvConfigDir, "/srv/config")
	s, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/config", s.ConfigDir)
}

func TestLoad_GlobalJSONC(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".config", AppName, "settings.jsonc"), `{
		// comments are allowed
		"port": 8080,
		"logLevel": "debug",
		"watcher": {
			"ignore": ["**/*.tmp"], /* trailing */
			"debounce": "250ms"
		}
	}`)

	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, s.Port)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, []string{"**/*.tmp"}, s.Watcher.Ignore)
	assert.Equal(t, 250*time.Millisecond, time.Duration(s.Watcher.Debounce))
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".config", AppName, "settings.json"), `{"port": 8080, "headless": true}`)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".mapeo-renderer.json"), `{"port": 9090, "staticDir": "build", "configDir": "/elsewhere"}`)

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, s.Port)
	assert.True(t, s.Headless)
	assert.Equal(t, filepath.Join(dir, "build"), s.StaticDir)
	assert.Equal(t, dir, s.ConfigDir, "project file cannot move the directory")
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".mapeo-renderer.json"), `{"port": 9090, "debug": false}`)

	t.Setenv(EnvPort, "7000")
	t.Setenv(EnvDebug, "true")
	t.Setenv(EnvHostname, "renderer.local")
	t.Setenv(EnvHeadless, "1")
	t.Setenv(EnvStatic, "/srv/ui")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvConfigDir, "/ignored")

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7000, s.Port)
	assert.True(t, s.Debug)
	assert.Equal(t, "renderer.local", s.Hostname)
	assert.True(t, s.Headless)
	assert.Equal(t, "/srv/ui", s.StaticDir)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, dir, s.ConfigDir, "CONFIG_FOLDER does not replace an explicit directory")
}

func TestLoad_Dotenv(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "PORT=6000\nDEBUG=yes\n")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 6000, s.Port)
	assert.True(t, s.Debug)

	// Real environment wins over .env.
	t.Setenv(EnvPort, "6001")
	s, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 6001, s.Port)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("bad port env", func(t *testing.T) {
		isolate(t)
		t.Setenv(EnvPort, "http")
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("port out of range", func(t *testing.T) {
		isolate(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".mapeo-renderer.json"), `{"port": 70000}`)
		_, err := Load(dir)
		assert.ErrorContains(t, err, "invalid port")
	})

	t.Run("malformed file", func(t *testing.T) {
		isolate(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".mapeo-renderer.json"), `{"port": `)
		_, err := Load(dir)
		assert.ErrorContains(t, err, "failed to parse settings")
	})

	t.Run("bad debounce", func(t *testing.T) {
		isolate(t)
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".mapeo-renderer.json"), `{"watcher": {"debounce": "soon"}}`)
		_, err := Load(dir)
		assert.Error(t, err)
	})
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1.5s"`), &d))
	assert.Equal(t, 1500*time.Millisecond, time.Duration(d))

	require.NoError(t, json.Unmarshal([]byte(`200`), &d))
	assert.Equal(t, 200*time.Millisecond, time.Duration(d))

	data, err := json.Marshal(Duration(time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"1s"`, string(data))
}

func TestSave(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	s := Default()
	s.Port = 8181
	s.Watcher.Ignore = []string{"node_modules/**"}
	require.NoError(t, Save(s, path))

	loaded := Default()
	require.NoError(t, loadFile(path, loaded))
	assert.Equal(t, 8181, loaded.Port)
	assert.Equal(t, []string{"node_modules/**"}, loaded.Watcher.Ignore)
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "on", "*"} {
		assert.True(t, truthy(v), v)
	}
	for _, v := range []string{"", "0", "false", "No", "off"} {
		assert.False(t, truthy(v), v)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", AppName), GetPaths().Config)
	assert.Equal(t, filepath.Join("/xdg", AppName, "settings.json"), GlobalSettingsPath())
	assert.Equal(t, filepath.Join("/cfg", ".mapeo-renderer.json"), ProjectSettingsPath("/cfg"))
}
