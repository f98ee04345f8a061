/*
This file defines the Hub, the single event loop at the center of the
realtime system. Every connection attach/detach and every inbound frame
passes through the Run loop, so handlers never interleave: each event is
classified, validated, persisted, and fanned out to completion before the
next one is processed.
*/
package chat

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ProJug/Grunt/internal/app/store"
	"github.com/ProJug/Grunt/internal/pkg/logx"
	"github.com/ProJug/Grunt/internal/pkg/randx"
)

const inboundChannelBuffer = 1024

// inboundFrame pairs a raw client frame with its originating connection.
type inboundFrame struct {
	client *Client
	data   []byte
}

// Hub classifies every inbound realtime event, persists the resulting
// record, and fans it out to the correct subset of registered connections.
type Hub struct {
	registry *Registry
	store    *store.Store

	attach   chan *Client
	detach   chan *Client
	inbound  chan inboundFrame
	stopChan chan struct{}

	// wg waits for the Run loop during shutdown.
	wg sync.WaitGroup

	logger zerolog.Logger
}

// NewHub constructs a Hub wired to the given registry and store.
func NewHub(registry *Registry, st *store.Store) *Hub {
	return &Hub{
		registry: registry,
		store:    st,
		attach:   make(chan *Client),
		detach:   make(chan *Client),
		inbound:  make(chan inboundFrame, inboundChannelBuffer),
		stopChan: make(chan struct{}),
		logger:   logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Start launches the Run loop.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Shutdown stops the Run loop and waits for it to drain.
func (h *Hub) Shutdown() {
	select {
	case <-h.stopChan:
	default:
		close(h.stopChan)
	}
	h.wg.Wait()
	h.logger.Info().Msg("Hub shutdown complete.")
}

// Attach registers a freshly upgraded connection. The hub binds it in the
// registry and synchronously sends the full public backlog as one event.
func (h *Hub) Attach(c *Client) {
	select {
	case h.attach <- c:
	case <-h.stopChan:
		c.Kick("Server shutting down.")
	}
}

// Detach unbinds a connection; called from the read pump on close/error.
// Safe to call more than once.
func (h *Hub) Detach(c *Client) {
	select {
	case h.detach <- c:
	case <-h.stopChan:
	}
}

// Route feeds one raw inbound frame into the event loop. A full queue drops
// the frame rather than blocking the connection's read pump.
func (h *Hub) Route(c *Client, data []byte) {
	select {
	case h.inbound <- inboundFrame{client: c, data: data}:
	default:
		h.logger.Warn().Str("username", c.username).Msg("Inbound queue full, dropping frame.")
	}
}

// run is the hub's event loop. Each case runs to completion before the next
// event is serviced, which serializes all realtime mutations.
func (h *Hub) run() {
	defer h.wg.Done()

	h.logger.Info().Msg("Hub event loop started.")

	for {
		select {
		case client := <-h.attach:
			h.registry.Register(client)
			h.sendHistory(client)

		case client := <-h.detach:
			h.registry.Unregister(client)
			client.shutdown()

		case frame := <-h.inbound:
			h.dispatch(frame.client, frame.data)

		case <-h.stopChan:
			h.logger.Info().Msg("Hub event loop stopped.")
			return
		}
	}
}

// sendHistory delivers the full public-message backlog to one connection.
func (h *Hub) sendHistory(c *Client) {
	raw, err := json.Marshal(NewHistoryEvent(h.store.Posts()))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal history event.")
		return
	}
	c.enqueue(raw)
}

// dispatch classifies one inbound frame by its declared kind and runs the
// matching persist-then-fan-out handler. Malformed frames and unknown kinds
// are logged and dropped; the connection stays open either way.
func (h *Hub) dispatch(c *Client, data []byte) {
	var envelope inboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		h.logger.Warn().Err(err).
			Str("username", c.username).
			Msg("Client sent invalid JSON, dropping frame.")
		return
	}

	kind := envelope.Type
	if kind == "" {
		kind = KindPublic
	}

	switch kind {
	case KindPublic:
		h.handlePublic(c, envelope)

	case KindDM:
		h.handleDM(c, envelope)

	case KindThreadReply:
		h.handleThreadReply(c, envelope)

	default:
		h.logger.Warn().
			Str("username", c.username).
			Str("kind", string(kind)).
			Msg("Client sent unsupported event kind, dropping frame.")
	}
}

// handlePublic persists a public post and broadcasts it, then notifies every
// mentioned user that currently holds a connection.
func (h *Hub) handlePublic(c *Client, envelope inboundEnvelope) {
	if strings.TrimSpace(envelope.Message) == "" {
		return
	}

	id, err := randx.PostID()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate post id.")
		return
	}

	post := store.Post{
		ID:        id,
		Username:  c.username,
		Message:   envelope.Message,
		Timestamp: time.Now().UnixMilli(),
	}

	if err := h.store.AppendPost(post); err != nil {
		h.logger.Error().Err(err).Msg("Failed to persist public post.")
		return
	}

	h.registry.Broadcast(NewMessageEvent(post))
	h.NotifyMentions(c.username, post.Message)
}

// NotifyMentions sends one mention notification per mentioned user.
// Matching is a raw substring test on "@name", so repeated mentions still
// produce a single notification per user.
func (h *Hub) NotifyMentions(from, text string) {
	for _, name := range h.store.Usernames() {
		if strings.Contains(text, "@"+name) {
			h.registry.SendTo(name, NewNotification(SubTypeMention, from))
		}
	}
}

// handleDM persists a direct message into its pair history and delivers it
// to the sender's and target's connections only, plus a dm notification to
// the target.
func (h *Hub) handleDM(c *Client, envelope inboundEnvelope) {
	target := envelope.To
	if !h.store.UserExists(target) {
		return
	}

	entry := store.DMEntry{
		From:      c.username,
		To:        target,
		Message:   envelope.Message,
		Timestamp: time.Now().UnixMilli(),
	}

	if err := h.store.AppendDM(entry); err != nil {
		h.logger.Error().Err(err).Msg("Failed to persist direct message.")
		return
	}

	event := NewDMEvent(entry)
	h.registry.SendTo(c.username, event)
	if target != c.username {
		h.registry.SendTo(target, event)
	}
	h.registry.SendTo(target, NewNotification(SubTypeDM, c.username))
}

// handleThreadReply persists a reply into the referenced thread and
// broadcasts it to every open connection.
func (h *Hub) handleThreadReply(c *Client, envelope inboundEnvelope) {
	reply := store.Reply{
		From:      c.username,
		Message:   envelope.Message,
		Timestamp: time.Now().UnixMilli(),
	}

	if err := h.store.AppendReply(envelope.ThreadID, reply); err != nil {
		h.logger.Error().Err(err).Msg("Failed to persist thread reply.")
		return
	}

	h.registry.Broadcast(NewThreadReplyEvent(envelope.ThreadID, reply))
}
