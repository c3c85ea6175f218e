package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/digidem/mapeo-config-renderer/internal/mapeo"
)

// getIcon handles GET /icons/{iconName}. Names that could leave the icons
// directory are answered like missing icons.
func (s *Server) getIcon(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "iconName")
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		writeJSON(w, http.StatusNotFound, mapeo.IconError{Error: mapeo.IconNotFoundMessage})
		return
	}

	svg, err := s.reader.Icon(filepath.Join(s.config.ConfigDir, mapeo.IconsDir, name))
	if err != nil {
		writeJSON(w, http.StatusNotFound, mapeo.IconError{Error: mapeo.IconNotFoundMessage})
		return
	}
	writeText(w, "image/svg+xml", svg)
}
