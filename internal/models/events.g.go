package models

import (
	"go-groupchat/internal/collab"

	"github.com/goccy/go-json"
)

// Frame types exchanged with a websocket collaboration server.
const (
	TypeJoin             = "sync:join"
	TypeSnapshot         = "sync:snapshot"
	TypeAppend           = "log:append"
	TypeAppended         = "log:appended"
	TypeAwarenessUpdate  = "awareness:update"
	TypeAwarenessChanged = "awareness:changed"
)

// Frame is the envelope of every websocket message. Only the fields relevant
// to Type are set.
type Frame struct {
	Type  string `json:"type"`
	Room  string `json:"room,omitempty"`
	Token string `json:"token,omitempty"`

	// sync:snapshot
	ConnId  string            `json:"connId,omitempty"`
	Entries []json.RawMessage `json:"entries,omitempty"`

	// log:append, log:appended
	Index int             `json:"index,omitempty"`
	Entry json.RawMessage `json:"entry,omitempty"`

	// awareness:update (State), sync:snapshot and awareness:changed (States)
	State  collab.State  `json:"state,omitempty"`
	States collab.States `json:"states,omitempty"`
}

// Redis pub/sub payloads announcing which part of a room changed.
const (
	EventLog       = "log"
	EventAwareness = "awareness"
)

// AwarenessRecord is the value stored per connection in the redis awareness
// hash.
type AwarenessRecord struct {
	State     collab.State `json:"state"`
	UpdatedAt int64        `json:"updatedAt"` // unix millis
}

// Specific entry and field structures

// ChatMessage is one entry of the "messages" log.
type ChatMessage struct {
	ClientId  string `json:"clientId"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// UserField is the value of the "user" awareness field.
type UserField struct {
	ClientId string `json:"clientId"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	IsTyping bool   `json:"isTyping"`
	Draft    string `json:"draft,omitempty"`
}
