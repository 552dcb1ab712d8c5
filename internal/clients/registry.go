// Package clients owns the per-client event channels used to stream progress
// to connected callers.
package clients

import (
	"log/slog"
	"sync"

	"github.com/beatcut/beatcut/internal/progress"
)

// eventBuffer bounds each client channel. Delivery is best-effort: when a
// client falls this far behind, further events are dropped rather than
// blocking the pipeline.
const eventBuffer = 64

// Registry maps client IDs to live event channels. Sessions write to
// disjoint keys, so a plain RWMutex is enough.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]chan progress.Event
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]chan progress.Event)}
}

// Register creates (or replaces) the channel for a client and returns it for
// the caller to consume.
func (r *Registry) Register(clientID string) <-chan progress.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.clients[clientID]; ok {
		close(old)
	}

	ch := make(chan progress.Event, eventBuffer)
	r.clients[clientID] = ch
	return ch
}

// Unregister closes and removes the client's channel.
func (r *Registry) Unregister(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, ok := r.clients[clientID]; ok {
		close(ch)
		delete(r.clients, clientID)
	}
}

// Send delivers an event to the client if it is connected. Events to absent
// or saturated clients are silently dropped; there is no buffering beyond the
// channel and no redelivery. The read lock is held across the send: Register
// and Unregister close channels under the write lock, so a channel cannot be
// closed while a send is in flight.
func (r *Registry) Send(clientID string, event progress.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, ok := r.clients[clientID]
	if !ok {
		return
	}

	select {
	case ch <- event:
	default:
		slog.Debug("Dropping progress event for slow client", "clientId", clientID)
	}
}

// Count returns the number of connected clients.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
