package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/digidem/mapeo-config-renderer/internal/event"
	"github.com/digidem/mapeo-config-renderer/internal/logging"
	"github.com/digidem/mapeo-config-renderer/internal/mapeo"
)

// Config holds server configuration.
type Config struct {
	Port int
	// Hostname is only used to print the server address.
	Hostname string
	// ConfigDir is the Mapeo configuration directory being rendered.
	ConfigDir string
	// StaticDir, when set and Headless is false, is served at "/".
	StaticDir    string
	Headless     bool
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:         5000,
		Hostname:     "localhost",
		ConfigDir:    ".",
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No write timeout for SSE and WebSocket
	}
}

// Server is the HTTP server.
type Server struct {
	config  *Config
	router  *chi.Mux
	mu      sync.Mutex
	httpSrv *http.Server
	reader  *mapeo.Reader
	bus     *event.Bus
	hub     *hub
	log     zerolog.Logger
}

// New creates a new Server instance. The bus delivers config.updated events
// to SSE and WebSocket clients; it may be nil when nothing is watched.
func New(cfg *Config, reader *mapeo.Reader, bus *event.Bus) *Server {
	if reader == nil {
		reader = mapeo.NewReader()
	}
	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		reader: reader,
		bus:    bus,
		log:    logging.Component("server"),
	}
	s.hub = newHub(bus, s.log)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	// Request contexts end on Shutdown so SSE streams let it finish.
	baseCtx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancel)

	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	s.log.Info().
		Str("url", fmt.Sprintf("http://%s:%d", s.config.Hostname, s.config.Port)).
		Str("configDir", s.config.ConfigDir).
		Msg("Server running")
	defer cancel()
	return srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server and disconnects WebSocket
// clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.close()

	s.mu.Lock()
	srv := s.httpSrv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
