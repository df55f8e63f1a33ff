// Package collab describes the collaboration provider the chat view consumes:
// a shared append-only log plus an ephemeral per-connection awareness channel.
// Merge, transport and reconnection belong to the implementations.
//
//go:generate go run go.uber.org/mock/mockgen -source=collab.go -destination=../../mocks/mock_collab.go -package=mocks
package collab

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
)

var (
	ErrClosed            = errors.New("collab: provider closed")
	ErrUnsupportedScheme = errors.New("collab: unsupported provider scheme")
)

// Options identify one connection to a collaboration server.
type Options struct {
	URL   string // server address, e.g. redis://localhost:6379
	Room  string // document name
	Token string // forwarded to the server as-is
}

// State is one participant's awareness fields, keyed by field name.
type State map[string]json.RawMessage

// States is a full awareness snapshot keyed by connection id.
type States map[string]State

// Clone returns a deep copy so observers can keep snapshots around.
func (s States) Clone() States {
	out := make(States, len(s))
	for id, st := range s {
		cp := make(State, len(st))
		for k, v := range st {
			cp[k] = append(json.RawMessage(nil), v...)
		}
		out[id] = cp
	}
	return out
}

// SharedLog is an ordered, append-only sequence merged across participants.
type SharedLog interface {
	// Append pushes one entry to the end of the log. The entry shows up in
	// Snapshot only once the provider has accepted it.
	Append(ctx context.Context, entry json.RawMessage) error
	// Snapshot returns the full contents in authoritative order.
	Snapshot() []json.RawMessage
	// Observe registers fn for change notifications. The returned function
	// unsubscribes; it is safe to call more than once.
	Observe(fn func()) (unsubscribe func())
}

// Awareness is the ephemeral presence channel scoped to a connection.
type Awareness interface {
	SetLocalField(key string, value any) error
	States() States
	Observe(fn func(States)) (unsubscribe func())
}

// Provider is one live connection to a room.
type Provider interface {
	Messages() SharedLog
	Awareness() Awareness
	// Destroy disconnects. Calling it again is a no-op.
	Destroy() error
}
