/*
Package event is the in-process pub/sub bus that connects the configuration
watcher to the HTTP notification channels.

Events are carried as watermill messages over a gochannel pub/sub. The event
type is the topic, and every event is also published on a catch-all topic
that SubscribeAll listens on. Payloads are JSON; subscribers decode them with
Event.Decode.

# Event Types

  - config.updated: a debounced batch of changes under the configuration
    directory (ConfigUpdatedData)
  - file.changed: a single filesystem change (FileChangedData)

# Usage

	bus := event.NewBus()
	defer bus.Close()

	unsubscribe := bus.Subscribe(event.ConfigUpdated, func(e event.Event) {
		var data event.ConfigUpdatedData
		if err := e.Decode(&data); err != nil {
			return
		}
		log.Info().Strs("paths", data.Paths).Msg("Configuration changed")
	})
	defer unsubscribe()

	_ = bus.Publish(event.ConfigUpdated, event.ConfigUpdatedData{Dir: dir})

# Delivery

Publish never waits for subscribers. Each subscription has its own goroutine
and sees its events one at a time; ordering between two Publish calls is not
guaranteed. Events published while nobody is subscribed are dropped.

Subscribers that forward events to network clients should use non-blocking
channel sends:

	bus.SubscribeAll(func(e event.Event) {
	    select {
	    case ch <- e:
	    default:
	        log.Warn().Str("type", string(e.Type)).Msg("Event dropped due to full channel")
	    }
	})
*/
package event
