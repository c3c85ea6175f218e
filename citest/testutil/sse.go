package testutil

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// SSEEvent is one frame of the /event stream. Type is the notification type
// from the JSON payload; the SSE "event:" field is always "message".
type SSEEvent struct {
	ID   string
	Type string
	Data json.RawMessage
}

// Properties decodes the notification properties into v.
func (evt *SSEEvent) Properties(v any) error {
	var n struct {
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(evt.Data, &n); err != nil {
		return err
	}
	return json.Unmarshal(n.Properties, v)
}

// SSEClient reads notifications from the renderer's /event stream.
type SSEClient struct {
	baseURL string
	cancel  context.CancelFunc

	mu       sync.Mutex
	received []SSEEvent
	incoming chan SSEEvent
	done     chan struct{}
}

// NewSSEClient creates a client for the server at baseURL.
func NewSSEClient(baseURL string) *SSEClient {
	return &SSEClient{
		baseURL:  baseURL,
		incoming: make(chan SSEEvent, 64),
		done:     make(chan struct{}),
	}
}

// Connect opens the stream at path and starts reading frames.
func (c *SSEClient) Connect(ctx context.Context, path string) error {
	ctx, c.cancel = context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("connect %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("connect %s: status %d", path, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		resp.Body.Close()
		return fmt.Errorf("connect %s: content type %q", path, ct)
	}

	go func() {
		defer resp.Body.Close()
		c.read(bufio.NewScanner(resp.Body))
	}()
	return nil
}

// read splits the stream into frames. Heartbeat comments are skipped.
func (c *SSEClient) read(sc *bufio.Scanner) {
	defer close(c.done)

	var id, data string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if data != "" {
				c.deliver(SSEEvent{ID: id, Type: notificationType(data), Data: json.RawMessage(data)})
			}
			id, data = "", ""
		case strings.HasPrefix(line, "id:"):
			id = strings.TrimSpace(line[len("id:"):])
		case strings.HasPrefix(line, "data:"):
			data += strings.TrimSpace(line[len("data:"):])
		}
	}
}

func (c *SSEClient) deliver(evt SSEEvent) {
	c.mu.Lock()
	c.received = append(c.received, evt)
	c.mu.Unlock()

	select {
	case c.incoming <- evt:
	default:
	}
}

func notificationType(data string) string {
	var n struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(data), &n); err != nil {
		return ""
	}
	return n.Type
}

// WaitForEvent returns the next notification of the given type.
func (c *SSEClient) WaitForEvent(eventType string, timeout time.Duration) (*SSEEvent, error) {
	deadline := time.After(timeout)
	for {
		select {
		case evt := <-c.incoming:
			if evt.Type == eventType {
				return &evt, nil
			}
		case <-c.done:
			return nil, fmt.Errorf("stream closed before %s", eventType)
		case <-deadline:
			return nil, fmt.Errorf("timeout waiting for %s", eventType)
		}
	}
}

// CountEventType returns how many notifications of the given type arrived
// since Connect.
func (c *SSEClient) CountEventType(eventType string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, evt := range c.received {
		if evt.Type == eventType {
			n++
		}
	}
	return n
}

// HasEventType reports whether a notification of the given type arrived.
func (c *SSEClient) HasEventType(eventType string) bool {
	return c.CountEventType(eventType) > 0
}

// Close ends the stream.
func (c *SSEClient) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}
