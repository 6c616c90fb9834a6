// Package event provides the in-process dispatcher implementation. It is
// constructed once at startup and handlers are registered explicitly before
// any publish; there is no discovery or implicit wiring.
package event

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	domevent "food-rescue-marketplace/internal/domain/event"
	"food-rescue-marketplace/internal/domain/ports/eventbus"
)

var _ eventbus.Dispatcher = (*Dispatcher)(nil)

type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]eventbus.Handler
	log      *zerolog.Logger
}

func NewDispatcher(logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]eventbus.Handler),
		log:      logger,
	}
}

func (d *Dispatcher) Subscribe(eventName string, h eventbus.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventName] = append(d.handlers[eventName], h)
}

// Publish delivers each event synchronously to its subscribers in
// registration order. The causing aggregates are already saved when Publish
// runs, so a panicking handler is recovered and logged; it never unwinds
// persisted state.
func (d *Dispatcher) Publish(ctx context.Context, evs ...domevent.Event) {
	for _, ev := range evs {
		d.mu.RLock()
		hs := d.handlers[ev.EventName()]
		d.mu.RUnlock()

		for _, h := range hs {
			d.deliver(ctx, h, ev)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, h eventbus.Handler, ev domevent.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			d.log.Error().
				Str("event", ev.EventName()).
				Interface("panic", rec).
				Msg("event handler panicked")
		}
	}()
	h(ctx, ev)
}
