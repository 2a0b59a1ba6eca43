package events

import (
	"context"
	"fmt"
	"sync"
)

// Listener handles an event. Payloads are passed by pointer when listeners
// are expected to modify them.
type Listener func(ctx context.Context, payload any) error

// Dispatcher routes named events to their listeners in registration order.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[string][]Listener)}
}

// Listen registers l for event.
func (d *Dispatcher) Listen(event string, l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[event] = append(d.listeners[event], l)
}

// HasListeners reports whether anything listens to event.
func (d *Dispatcher) HasListeners(event string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[event]) > 0
}

// Dispatch calls every listener of event and stops at the first error.
func (d *Dispatcher) Dispatch(ctx context.Context, event string, payload any) error {
	d.mu.RLock()
	listeners := append([]Listener(nil), d.listeners[event]...)
	d.mu.RUnlock()

	for _, l := range listeners {
		if err := l(ctx, payload); err != nil {
			return fmt.Errorf("listener of %s failed: %w", event, err)
		}
	}
	return nil
}
