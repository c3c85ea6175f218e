package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/oklog/ulid/v2"
)

// EventType represents the type of event. It doubles as the watermill topic.
type EventType string

const (
	// ConfigUpdated is published once per debounced batch of changes under
	// the watched configuration directory.
	ConfigUpdated EventType = "config.updated"
	// FileChanged is published for every filesystem change the watcher
	// does not ignore.
	FileChanged EventType = "file.changed"
)

// allTopic receives a copy of every event for SubscribeAll.
const allTopic = "*"

const (
	metaType = "type"
	metaTime = "time"
)

// ErrClosed is returned when publishing on a closed bus.
var ErrClosed = errors.New("event bus closed")

// Event is a decoded bus message.
type Event struct {
	ID   string          `json:"id"`
	Type EventType       `json:"type"`
	Time time.Time       `json:"time"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %s has no data", e.Type)
	}
	return json.Unmarshal(e.Data, v)
}

// Subscriber is a function that receives events. It runs on the
// subscription's own goroutine; a slow subscriber only delays itself.
type Subscriber func(event Event)

// Bus is an in-process pub/sub bus backed by watermill's gochannel.
type Bus struct {
	pubsub *gochannel.GoChannel

	mu     sync.Mutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: 100,
				Persistent:          false,
			},
			watermill.NopLogger{},
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Subscribe registers fn for one event type. The returned function
// unsubscribes.
func (b *Bus) Subscribe(eventType EventType, fn Subscriber) func() {
	return b.subscribe(string(eventType), fn)
}

// SubscribeAll registers fn for every event type.
func (b *Bus) SubscribeAll(fn Subscriber) func() {
	return b.subscribe(allTopic, fn)
}

func (b *Bus) subscribe(topic string, fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	ctx, cancel := context.WithCancel(b.ctx)
	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		cancel()
		return func() {}
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for msg := range messages {
			e, err := decode(msg)
			msg.Ack()
			if err != nil {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			fn(e)
		}
	}()

	return cancel
}

// Publish encodes data as JSON and delivers it to subscribers of eventType
// and to every SubscribeAll subscriber. Delivery is asynchronous.
func (b *Bus) Publish(eventType EventType, data any) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	var payload []byte
	if data != nil {
		var err error
		payload, err = json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode %s event: %w", eventType, err)
		}
	}

	id := ulid.Make().String()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, topic := range []string{string(eventType), allTopic} {
		msg := message.NewMessage(id, payload)
		msg.Metadata.Set(metaType, string(eventType))
		msg.Metadata.Set(metaTime, now)
		if err := b.pubsub.Publish(topic, msg); err != nil {
			return fmt.Errorf("failed to publish %s event: %w", eventType, err)
		}
	}
	return nil
}

func decode(msg *message.Message) (Event, error) {
	e := Event{
		ID:   msg.UUID,
		Type: EventType(msg.Metadata.Get(metaType)),
	}
	if e.Type == "" {
		return Event{}, errors.New("message without event type")
	}
	if ts := msg.Metadata.Get(metaTime); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return Event{}, err
		}
		e.Time = t
	}
	if len(msg.Payload) > 0 {
		e.Data = json.RawMessage(msg.Payload)
	}
	return e, nil
}

// Close stops all subscriptions and waits for their goroutines to exit.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.cancel()
	b.mu.Unlock()

	err := b.pubsub.Close()
	b.wg.Wait()
	return err
}
