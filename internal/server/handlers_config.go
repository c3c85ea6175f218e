package server

import (
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/digidem/mapeo-config-renderer/internal/mapeo"
)

// urlOptions derives icon URL parts from the request: the scheme from
// X-Forwarded-Proto or TLS, the hostname from Host, and the port the server
// was configured to listen on.
func (s *Server) urlOptions(r *http.Request) mapeo.URLOptions {
	proto := "http"
	if r.TLS != nil {
		proto = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		proto = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")

	return mapeo.URLOptions{
		Protocol: proto,
		Hostname: host,
		Port:     strconv.Itoa(s.config.Port),
	}
}

func (s *Server) dir(sub string) string {
	return filepath.Join(s.config.ConfigDir, sub)
}

// getConfig handles GET /api/config.
func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.reader.Config(r.Context(), s.config.ConfigDir, s.urlOptions(r))
	if err != nil {
		status := http.StatusInternalServerError
		code := ErrCodeInternalError
		if errors.Is(err, mapeo.ErrConfigDirectoryNotFound) {
			code = ErrCodeNotFound
		}
		s.log.Error().Err(err).Str("dir", s.config.ConfigDir).Msg("Failed to build configuration")
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// getPresets handles GET /api/presets.
func (s *Server) getPresets(w http.ResponseWriter, r *http.Request) {
	presets := s.reader.Presets(r.Context(), s.dir(mapeo.PresetsDir), s.urlOptions(r))
	writeJSON(w, http.StatusOK, presets)
}

// getFields handles GET /api/fields.
func (s *Server) getFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reader.Fields(r.Context(), s.dir(mapeo.FieldsDir)))
}

// getMessages handles GET /api/messages.
func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reader.Messages(r.Context(), s.dir(mapeo.MessagesDir)))
}

// getDefaults handles GET /api/defaults.
func (s *Server) getDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reader.Defaults(r.Context(), s.config.ConfigDir))
}

// getMetadata handles GET /api/metadata.
func (s *Server) getMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reader.Metadata(r.Context(), s.config.ConfigDir))
}

// getStylesheet handles GET /api/stylesheet and GET /style.css.
func (s *Server) getStylesheet(w http.ResponseWriter, r *http.Request) {
	writeText(w, "text/css; charset=utf-8", s.reader.Stylesheet(r.Context(), s.config.ConfigDir))
}

// getPath handles GET /path.
func (s *Server) getPath(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"data": s.config.ConfigDir})
}

// health handles GET /health.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
