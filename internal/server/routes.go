package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	r := s.router

	// Configuration data
	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.getConfig)
		r.Get("/presets", s.getPresets)
		r.Get("/fields", s.getFields)
		r.Get("/messages", s.getMessages)
		r.Get("/defaults", s.getDefaults)
		r.Get("/metadata", s.getMetadata)
		r.Get("/stylesheet", s.getStylesheet)
	})
	r.Get("/style.css", s.getStylesheet)

	// Icons
	r.Get("/icons/{iconName}", s.getIcon)

	// Server info
	r.Get("/path", s.getPath)
	r.Get("/health", s.health)

	// Change notifications
	r.Get("/event", s.configEvents)
	r.Get("/ws", s.serveWebSocket)

	// Prebuilt UI
	if !s.config.Headless && s.config.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}
