package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digidem/mapeo-config-renderer/internal/event"
)

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocket_PresetsUpdate(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()

	srv := New(DefaultConfig(), nil, bus)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	conns := []*websocket.Conn{dialWS(t, ts), dialWS(t, ts)}
	require.Eventually(t, func() bool { return srv.hub.count() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Publish(event.ConfigUpdated, event.ConfigUpdatedData{Dir: "/cfg"}))

	for _, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg WSMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, WSMessage{Type: "presets:update", Message: "Presets updated"}, msg)
	}
}

func TestWebSocket_IgnoresOtherEvents(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()

	srv := New(DefaultConfig(), nil, bus)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	conn := dialWS(t, ts)
	require.Eventually(t, func() bool { return srv.hub.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Publish(event.FileChanged, event.FileChangedData{Path: "a.json", Op: "write"}))

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "no message expected for file.changed")
}

func TestWebSocket_ClientDisconnect(t *testing.T) {
	srv := New(DefaultConfig(), nil, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	conn := dialWS(t, ts)
	require.Eventually(t, func() bool { return srv.hub.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return srv.hub.count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocket_Shutdown(t *testing.T) {
	srv := New(DefaultConfig(), nil, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	conn := dialWS(t, ts)
	require.Eventually(t, func() bool { return srv.hub.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, 0, srv.hub.count())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// New connections are refused once the hub is closed.
	late := dialWS(t, ts)
	late.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = late.ReadMessage()
	assert.Error(t, err)
}
