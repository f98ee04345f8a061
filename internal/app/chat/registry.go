/*
This file defines the Registry, which tracks every live realtime connection
keyed by its bound username and supports targeted and broadcast delivery.
*/
package chat

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ProJug/Grunt/internal/pkg/logx"
)

// Registry maps each authenticated username to its set of live connections.
// A username may hold zero, one, or many simultaneous connections (multiple
// devices or tabs). Delivery is best-effort: a connection whose send queue
// is full or closed is skipped, never retried, never queued.
type Registry struct {
	// mu protects the clients map.
	mu sync.RWMutex

	// clients maps bound username to the set of live connections.
	clients map[string]map[*Client]struct{}

	logger zerolog.Logger
}

// NewRegistry constructs an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Register binds a live connection to its username.
func (reg *Registry) Register(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	set, ok := reg.clients[c.username]
	if !ok {
		set = make(map[*Client]struct{})
		reg.clients[c.username] = set
	}
	set[c] = struct{}{}

	reg.logger.Info().
		Str("username", c.username).
		Int("connections", len(set)).
		Msg("Connection registered.")
}

// Unregister removes a connection from the registry. Safe to call more than
// once for the same connection.
func (reg *Registry) Unregister(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	set, ok := reg.clients[c.username]
	if !ok {
		return
	}
	if _, bound := set[c]; !bound {
		return
	}

	delete(set, c)
	if len(set) == 0 {
		delete(reg.clients, c.username)
	}

	reg.logger.Info().
		Str("username", c.username).
		Int("connections", len(set)).
		Msg("Connection unregistered.")
}

// ConnectionsFor returns the number of live connections bound to username.
func (reg *Registry) ConnectionsFor(username string) int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.clients[username])
}

// SendTo delivers event to every connection bound to username. It silently
// does nothing when none are bound.
func (reg *Registry) SendTo(username string, event any) {
	raw, ok := reg.marshal(event)
	if !ok {
		return
	}

	reg.mu.RLock()
	defer reg.mu.RUnlock()

	for c := range reg.clients[username] {
		c.enqueue(raw)
	}
}

// Broadcast delivers event to every registered connection regardless of
// binding.
func (reg *Registry) Broadcast(event any) {
	raw, ok := reg.marshal(event)
	if !ok {
		return
	}

	reg.mu.RLock()
	defer reg.mu.RUnlock()

	for _, set := range reg.clients {
		for c := range set {
			c.enqueue(raw)
		}
	}
}

// CloseAllFor forcibly closes every connection bound to username, so a
// banned or deleted account cannot keep acting over an already-open
// connection.
func (reg *Registry) CloseAllFor(username string, reason string) {
	for _, c := range reg.snapshotFor(username) {
		c.Kick(reason)
	}
}

// CloseAllFromIP forcibly closes every connection originating from the
// given address, used when an IP ban takes effect.
func (reg *Registry) CloseAllFromIP(ip string, reason string) {
	reg.mu.RLock()
	victims := []*Client{}
	for _, set := range reg.clients {
		for c := range set {
			if c.ip == ip {
				victims = append(victims, c)
			}
		}
	}
	reg.mu.RUnlock()

	for _, c := range victims {
		c.Kick(reason)
	}
}

// snapshotFor copies the connection set for username so Kick never runs
// under the registry lock.
func (reg *Registry) snapshotFor(username string) []*Client {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	set := reg.clients[username]
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

func (reg *Registry) marshal(event any) ([]byte, bool) {
	raw, err := json.Marshal(event)
	if err != nil {
		reg.logger.Error().Err(err).Msg("Error marshaling event for delivery.")
		return nil, false
	}
	return raw, true
}
