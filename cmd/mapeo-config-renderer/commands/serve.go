package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/digidem/mapeo-config-renderer/internal/config"
	"github.com/digidem/mapeo-config-renderer/internal/event"
	"github.com/digidem/mapeo-config-renderer/internal/logging"
	"github.com/digidem/mapeo-config-renderer/internal/mapeo"
	"github.com/digidem/mapeo-config-renderer/internal/server"
	"github.com/digidem/mapeo-config-renderer/internal/watcher"
)

const shutdownTimeout = 30 * time.Second

var (
	servePort     int
	serveHostname string
	serveHeadless bool
	serveStatic   string
	serveIgnore   []string
	serveDebounce time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve a configuration directory and watch it for changes",
	Long: `Serve the configuration in dir (default: CONFIG_FOLDER or the current
directory) over HTTP. Changes under dir are pushed to clients on /event
(SSE) and /ws (WebSocket).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&servePort, "port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().StringVar(&serveHostname, "hostname", "", "Hostname shown in the server address")
	cmd.Flags().BoolVar(&serveHeadless, "headless", false, "Do not serve the static UI")
	cmd.Flags().StringVar(&serveStatic, "static", "", "Directory with a prebuilt UI to serve at /")
	cmd.Flags().StringSliceVar(&serveIgnore, "ignore", nil, "Glob patterns the watcher ignores")
	cmd.Flags().DurationVar(&serveDebounce, "debounce", config.DefaultDebounce, "Quiet period before a change is announced")
}

// applyServeFlags overrides settings with the flags given explicitly.
func applyServeFlags(cmd *cobra.Command, s *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		s.Port = servePort
	}
	if flags.Changed("hostname") {
		s.Hostname = serveHostname
	}
	if flags.Changed("headless") {
		s.Headless = serveHeadless
	}
	if flags.Changed("static") {
		s.StaticDir = serveStatic
	}
	if flags.Changed("ignore") {
		s.Watcher.Ignore = serveIgnore
	}
	if flags.Changed("debounce") {
		s.Watcher.Debounce = config.Duration(serveDebounce)
	}
	if debug {
		s.Debug = true
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(argDir(args))
	if err != nil {
		return err
	}
	applyServeFlags(cmd, settings)
	if err := settings.Validate(); err != nil {
		return err
	}

	initLogging(settings.LogLevel, settings.Debug)
	log := logging.Component("serve")

	log.Info().
		Str("version", Version).
		Str("dir", settings.ConfigDir).
		Msg("starting mapeo-config-renderer")

	readerOpts := []mapeo.Option{}
	if settings.Debug {
		readerOpts = append(readerOpts, mapeo.WithLogger(mapeo.NewVerboseLogger(logging.Component("mapeo"))))
	}
	reader := mapeo.NewReader(readerOpts...)

	bus := event.NewBus()
	defer bus.Close()

	w, err := watcher.New(watcher.Config{
		Dir:      settings.ConfigDir,
		Ignore:   settings.Watcher.Ignore,
		Debounce: time.Duration(settings.Watcher.Debounce),
	}, bus)
	if err != nil {
		// Serving still works without live reload.
		log.Warn().Err(err).Msg("not watching configuration directory")
	} else {
		w.Start()
		defer w.Stop()
	}

	serverConfig := server.DefaultConfig()
	serverConfig.Port = settings.Port
	serverConfig.Hostname = settings.Hostname
	serverConfig.ConfigDir = settings.ConfigDir
	serverConfig.Headless = settings.Headless
	serverConfig.StaticDir = settings.StaticDir

	srv := server.New(serverConfig, reader, bus)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("server listening on http://%s:%d", settings.Hostname, settings.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errCh:
		return err
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
	return nil
}
