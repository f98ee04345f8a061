/*
Package chat contains the realtime core of the Grunt server: the connection
registry, the per-connection read/write pumps, and the hub that classifies,
persists, and fans out every inbound event.

This file defines the wire-level event model. Inbound frames carry a declared
kind (defaulting to public chat); outbound events are typed per kind so the
dispatch point can match exhaustively.
*/
package chat

import "github.com/ProJug/Grunt/internal/app/store"

// Kind classifies an inbound realtime frame.
type Kind string

// Inbound event kinds. An unset kind is treated as KindPublic.
const (
	KindPublic      Kind = "public"
	KindDM          Kind = "dm"
	KindThreadReply Kind = "thread-reply"
)

// Outbound event type tags.
const (
	TypeHistory      = "history"
	TypeMessage      = "message"
	TypeDM           = "dm"
	TypeThreadReply  = "thread-reply"
	TypeNotification = "notification"
	TypeClearChat    = "clear-chat"
)

// Notification subtypes.
const (
	SubTypeMention = "mention"
	SubTypeFollow  = "follow"
	SubTypeDM      = "dm"
)

// Channel names for REST-originated group fan-out.
const (
	ChannelGroup        = "group"
	ChannelPrivateGroup = "private-group"
)

// inboundEnvelope is the shape of a client frame. Payload fields are flat;
// which ones apply depends on the declared kind.
type inboundEnvelope struct {
	Type     Kind   `json:"type"`
	Message  string `json:"message"`
	To       string `json:"to"`
	ThreadID string `json:"threadId"`
}

// HistoryEvent carries the full public backlog, sent once on connect.
type HistoryEvent struct {
	Type     string       `json:"type"`
	Messages []store.Post `json:"messages"`
}

// MessageEvent announces a new public post. Post fields are inlined.
type MessageEvent struct {
	Type string `json:"type"`
	store.Post
}

// DMEvent delivers a direct message to the two participants.
type DMEvent struct {
	Type string `json:"type"`
	store.DMEntry
}

// ThreadReplyEvent announces a new reply in a post's thread.
type ThreadReplyEvent struct {
	Type     string `json:"type"`
	ThreadID string `json:"threadId"`
	store.Reply
}

// NotificationEvent is a targeted alert (mention, follow, or dm).
type NotificationEvent struct {
	Type    string `json:"type"`
	SubType string `json:"subType"`
	From    string `json:"from"`
}

// ClearChatEvent tells every client the public feed was truncated.
type ClearChatEvent struct {
	Type string `json:"type"`
}

// GroupEvent carries one global group-chat message on its channel.
type GroupEvent struct {
	Channel string             `json:"channel"`
	Payload store.GroupMessage `json:"payload"`
}

// PrivateGroupEvent carries one private-group message on its channel.
type PrivateGroupEvent struct {
	Channel string             `json:"channel"`
	GroupID string             `json:"groupId"`
	Payload store.GroupMessage `json:"payload"`
}

// NewHistoryEvent builds the connect-time backlog event.
func NewHistoryEvent(posts []store.Post) HistoryEvent {
	return HistoryEvent{Type: TypeHistory, Messages: posts}
}

// NewMessageEvent wraps a persisted post for broadcast.
func NewMessageEvent(p store.Post) MessageEvent {
	return MessageEvent{Type: TypeMessage, Post: p}
}

// NewDMEvent wraps a persisted direct message for targeted delivery.
func NewDMEvent(e store.DMEntry) DMEvent {
	return DMEvent{Type: TypeDM, DMEntry: e}
}

// NewThreadReplyEvent wraps a persisted thread reply for broadcast.
func NewThreadReplyEvent(threadID string, r store.Reply) ThreadReplyEvent {
	return ThreadReplyEvent{Type: TypeThreadReply, ThreadID: threadID, Reply: r}
}

// NewNotification builds a targeted alert from one user to another.
func NewNotification(subType, from string) NotificationEvent {
	return NotificationEvent{Type: TypeNotification, SubType: subType, From: from}
}

// NewClearChatEvent builds the feed-truncation broadcast.
func NewClearChatEvent() ClearChatEvent {
	return ClearChatEvent{Type: TypeClearChat}
}

// NewGroupEvent wraps a global group-chat message for broadcast.
func NewGroupEvent(m store.GroupMessage) GroupEvent {
	return GroupEvent{Channel: ChannelGroup, Payload: m}
}

// NewPrivateGroupEvent wraps a private-group message for broadcast.
func NewPrivateGroupEvent(groupID string, m store.GroupMessage) PrivateGroupEvent {
	return PrivateGroupEvent{Channel: ChannelPrivateGroup, GroupID: groupID, Payload: m}
}
