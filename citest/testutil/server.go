package testutil

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/digidem/mapeo-config-renderer/internal/event"
	"github.com/digidem/mapeo-config-renderer/internal/fixture"
	"github.com/digidem/mapeo-config-renderer/internal/mapeo"
	"github.com/digidem/mapeo-config-renderer/internal/server"
	"github.com/digidem/mapeo-config-renderer/internal/watcher"
)

// TestServer runs the renderer with a watcher against a temporary
// configuration directory.
type TestServer struct {
	Server    *server.Server
	Watcher   *watcher.Watcher
	Bus       *event.Bus
	BaseURL   string
	ConfigDir string
	port      int
}

// TestServerOption configures TestServer
type TestServerOption func(*testServerConfig)

type testServerConfig struct {
	kind     fixture.Kind
	debounce time.Duration
}

// WithFixture selects the sample project written to the directory.
func WithFixture(kind fixture.Kind) TestServerOption {
	return func(c *testServerConfig) {
		c.kind = kind
	}
}

// WithDebounce sets the watcher quiet period.
func WithDebounce(d time.Duration) TestServerOption {
	return func(c *testServerConfig) {
		c.debounce = d
	}
}

// StartTestServer creates and starts a test server
func StartTestServer(opts ...TestServerOption) (*TestServer, error) {
	cfg := &testServerConfig{
		kind:     fixture.CoMapeo,
		debounce: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	configDir, err := os.MkdirTemp("", "mapeo-config-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	if err := fixture.Write(afero.NewOsFs(), configDir, cfg.kind); err != nil {
		os.RemoveAll(configDir)
		return nil, fmt.Errorf("failed to write fixture: %w", err)
	}

	port, err := findAvailablePort()
	if err != nil {
		os.RemoveAll(configDir)
		return nil, fmt.Errorf("failed to find available port: %w", err)
	}

	bus := event.NewBus()
	w, err := watcher.New(watcher.Config{Dir: configDir, Debounce: cfg.debounce}, bus)
	if err != nil {
		bus.Close()
		os.RemoveAll(configDir)
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	w.Start()

	serverConfig := server.DefaultConfig()
	serverConfig.Port = port
	serverConfig.Hostname = "localhost"
	serverConfig.ConfigDir = configDir
	serverConfig.Headless = true

	srv := server.New(serverConfig, mapeo.NewReader(), bus)
	go func() {
		_ = srv.Start()
	}()

	ts := &TestServer{
		Server:    srv,
		Watcher:   w,
		Bus:       bus,
		BaseURL:   fmt.Sprintf("http://localhost:%d", port),
		ConfigDir: configDir,
		port:      port,
	}
	if err := waitForServer(ts.BaseURL, 10*time.Second); err != nil {
		ts.Stop()
		return nil, fmt.Errorf("server failed to start: %w", err)
	}
	return ts, nil
}

// Port returns the listen port.
func (ts *TestServer) Port() int {
	return ts.port
}

// Stop shuts down the test server and cleans up
func (ts *TestServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var firstErr error
	if ts.Server != nil {
		firstErr = ts.Server.Shutdown(ctx)
	}
	if ts.Watcher != nil {
		if err := ts.Watcher.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if ts.Bus != nil {
		ts.Bus.Close()
	}
	if ts.ConfigDir != "" {
		os.RemoveAll(ts.ConfigDir)
	}
	return firstErr
}

// Client returns a new test client for this server
func (ts *TestServer) Client() *TestClient {
	return NewTestClient(ts.BaseURL)
}

// SSEClient returns a new SSE client for this server
func (ts *TestServer) SSEClient() *SSEClient {
	return NewSSEClient(ts.BaseURL)
}

// findAvailablePort finds an available TCP port
func findAvailablePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

// waitForServer waits for the server to be ready
func waitForServer(baseURL string, timeout time.Duration) error {
	client := NewTestClient(baseURL)
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(context.Background(), "/health")
		if err == nil && resp.IsSuccess() {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server not ready after %v", timeout)
}
