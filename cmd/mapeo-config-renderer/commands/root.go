// Package commands provides the CLI commands for the renderer.
package commands

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/digidem/mapeo-config-renderer/internal/logging"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	logLevel string
	logDir   string
	debug    bool
)

var rootCmd = &cobra.Command{
	Use:   "mapeo-config-renderer [dir]",
	Short: "Render and live-reload Mapeo configuration projects",
	Long: `mapeo-config-renderer reads a Mapeo or CoMapeo configuration project
(presets, fields, translations, icons and metadata) and serves it over HTTP.
Clients are notified over SSE and WebSocket whenever a file changes.

Without a subcommand it behaves like 'mapeo-config-renderer serve'.`,
	Version:      Version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Also write JSON logs to a file in this directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Trace every file the reader touches")

	addServeFlags(rootCmd)

	// Version template
	rootCmd.SetVersionTemplate(fmt.Sprintf("mapeo-config-renderer %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(fixtureCmd)
}

// Execute runs the root command.
func Execute() error {
	defer logging.Close()
	return rootCmd.Execute()
}

// initLogging installs the global logger. An explicit --log-level wins over
// the settings value; debug forces the debug level.
func initLogging(level string, debugOn bool) {
	if logLevel != "" {
		level = logLevel
	}
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(level)
	if debugOn {
		cfg.Level = logging.DebugLevel
	}
	cfg.Pretty = isatty.IsTerminal(os.Stderr.Fd())
	if logDir != "" {
		cfg.LogToFile = true
		cfg.LogDir = logDir
	}
	logging.Init(cfg)
}

// argDir returns the directory argument, or "" when none was given.
func argDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
