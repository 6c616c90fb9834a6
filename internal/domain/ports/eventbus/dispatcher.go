// Package eventbus defines the port for the in-process event dispatcher.
// The dispatcher is constructed explicitly at startup and handlers register
// with it; nothing is discovered through global wiring.
package eventbus

import (
	"context"

	"food-rescue-marketplace/internal/domain/event"
)

type Handler func(ctx context.Context, ev event.Event)

// Dispatcher delivers events synchronously, on the publishing goroutine, to
// every handler subscribed to the event's name. Delivery happens after the
// causing aggregates are saved; handlers observe facts, they do not cause
// state (see the reservation use case, which creates the reservation by a
// direct call rather than through a handler).
type Dispatcher interface {
	Subscribe(eventName string, h Handler)
	Publish(ctx context.Context, evs ...event.Event)
}
