package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/digidem/mapeo-config-renderer/internal/event"
)

// Notification types sent to clients.
const (
	NotifyConnected     = "server.connected"
	NotifyPresetsUpdate = "presets:update"
	// PresetsUpdatedMessage is the WebSocket message text for NotifyPresetsUpdate.
	PresetsUpdatedMessage = "Presets updated"
)

// Notification is an SSE payload: {"type": "...", "properties": {...}}.
type Notification struct {
	Type       string `json:"type"`
	Properties any    `json:"properties"`
}

const (
	// SSEHeartbeatInterval is the interval for SSE heartbeats.
	SSEHeartbeatInterval = 30 * time.Second
)

// sseWriter wraps http.ResponseWriter for SSE.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	rc      *http.ResponseController
}

// newSSEWriter creates a new SSE writer.
func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	rc := http.NewResponseController(w)

	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	return &sseWriter{w: w, flusher: flusher, rc: rc}, nil
}

// writeEvent writes one SSE event and flushes it.
func (s *sseWriter) writeEvent(eventType, id string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if id != "" {
		if _, err := fmt.Fprintf(s.w, "id: %s\n", id); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", eventType, jsonData); err != nil {
		return err
	}

	// ResponseController sees through middleware wrappers
	if flushErr := s.rc.Flush(); flushErr != nil {
		s.flusher.Flush()
	}
	return nil
}

// writeHeartbeat writes an SSE heartbeat comment.
func (s *sseWriter) writeHeartbeat() {
	fmt.Fprintf(s.w, ": heartbeat\n\n")
	s.flusher.Flush()
}

// configEvents handles GET /event. It sends server.connected, then one
// presets:update notification per config.updated event.
func (s *Server) configEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	sse, err := newSSEWriter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	sse.flusher.Flush()

	if err := sse.writeEvent("message", "", Notification{
		Type:       NotifyConnected,
		Properties: map[string]any{},
	}); err != nil {
		return
	}

	events := make(chan event.Event, 10)
	if s.bus != nil {
		unsub := s.bus.Subscribe(event.ConfigUpdated, func(e event.Event) {
			select {
			case events <- e:
			default:
				s.log.Warn().
					Str("eventType", string(e.Type)).
					Msg("SSE event dropped: channel full")
			}
		})
		defer unsub()
	}

	ticker := time.NewTicker(SSEHeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-events:
			var data event.ConfigUpdatedData
			if err := e.Decode(&data); err != nil {
				s.log.Debug().Err(err).Msg("undecodable config event")
				continue
			}
			if err := sse.writeEvent("message", e.ID, Notification{
				Type:       NotifyPresetsUpdate,
				Properties: data,
			}); err != nil {
				return
			}
		case <-ticker.C:
			sse.writeHeartbeat()
		}
	}
}
