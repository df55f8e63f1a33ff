// Package memory is an in-process collaboration provider. A Hub holds rooms in
// memory and every Provider connected to the same Hub and room sees the same
// log and awareness states.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"go-groupchat/internal/collab"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type room struct {
	name    string
	entries []json.RawMessage
	states  collab.States
	// Set of connected providers
	participants map[*Provider]bool
}

// Hub maintains rooms and fans out changes to the providers connected to them.
type Hub struct {
	// Map: room name -> room
	rooms map[string]*room

	// Lock for thread-safe access
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]*room),
	}
}

// Connect registers a new participant in roomName.
func (h *Hub) Connect(roomName string) *Provider {
	p := &Provider{
		hub:    h,
		room:   roomName,
		connID: uuid.NewString(),
	}
	p.log = &sharedLog{p: p}
	p.awareness = &awareness{p: p}

	h.registerProvider(p)
	return p
}

func (h *Hub) registerProvider(p *Provider) {
	h.mu.Lock()
	r := h.rooms[p.room]
	if r == nil {
		slog.Debug("[HUB] Creating new room", "room", p.room)
		r = &room{
			name:         p.room,
			states:       make(collab.States),
			participants: make(map[*Provider]bool),
		}
		h.rooms[p.room] = r
	}
	r.participants[p] = true
	count := len(r.participants)
	h.mu.Unlock()

	slog.Debug("[HUB] Participant registered", "conn", p.connID, "room", p.room, "participants", count)
}

func (h *Hub) unregisterProvider(p *Provider) {
	h.mu.Lock()
	r, ok := h.rooms[p.room]
	if !ok || !r.participants[p] {
		h.mu.Unlock()
		slog.Warn("[HUB] Attempted to unregister unknown participant", "conn", p.connID, "room", p.room)
		return
	}
	delete(r.participants, p)
	_, hadState := r.states[p.connID]
	delete(r.states, p.connID)
	count := len(r.participants)

	// The log outlives its participants; only awareness is dropped.
	var peers []*Provider
	var states collab.States
	if hadState {
		peers, states = r.peers(), r.states.Clone()
	}
	h.mu.Unlock()

	slog.Debug("[HUB] Participant unregistered", "conn", p.connID, "room", p.room, "participants", count)

	for _, peer := range peers {
		peer.awareness.observers.Notify(states.Clone())
	}
}

func (h *Hub) appendEntry(p *Provider, entry json.RawMessage) {
	h.mu.Lock()
	r := h.rooms[p.room]
	r.entries = append(r.entries, append(json.RawMessage(nil), entry...))
	peers := r.peers()
	h.mu.Unlock()

	for _, peer := range peers {
		peer.log.observers.Notify(struct{}{})
	}
}

func (h *Hub) setField(p *Provider, key string, value json.RawMessage) {
	h.mu.Lock()
	r := h.rooms[p.room]
	st := r.states[p.connID]
	if st == nil {
		st = make(collab.State)
		r.states[p.connID] = st
	}
	st[key] = value
	peers, states := r.peers(), r.states.Clone()
	h.mu.Unlock()

	for _, peer := range peers {
		peer.awareness.observers.Notify(states.Clone())
	}
}

func (h *Hub) snapshot(roomName string) []json.RawMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r, ok := h.rooms[roomName]
	if !ok {
		return nil
	}
	out := make([]json.RawMessage, len(r.entries))
	copy(out, r.entries)
	return out
}

func (h *Hub) states(roomName string) collab.States {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r, ok := h.rooms[roomName]
	if !ok {
		return collab.States{}
	}
	return r.states.Clone()
}

// GetRoomParticipants returns the connection ids currently in a room.
func (h *Hub) GetRoomParticipants(roomName string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := []string{}
	if r, ok := h.rooms[roomName]; ok {
		for p := range r.participants {
			ids = append(ids, p.connID)
		}
	}
	return ids
}

// peers must be called with h.mu held.
func (r *room) peers() []*Provider {
	out := make([]*Provider, 0, len(r.participants))
	for p := range r.participants {
		out = append(out, p)
	}
	return out
}

// Provider is one participant's connection to a Hub room.
type Provider struct {
	hub    *Hub
	room   string
	connID string

	log       *sharedLog
	awareness *awareness

	mu     sync.Mutex
	closed bool
}

var _ collab.Provider = (*Provider)(nil)

func (p *Provider) Messages() collab.SharedLog  { return p.log }
func (p *Provider) Awareness() collab.Awareness { return p.awareness }

// ConnID is the key of this participant in awareness snapshots.
func (p *Provider) ConnID() string { return p.connID }

func (p *Provider) Destroy() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.log.observers.Clear()
	p.awareness.observers.Clear()
	p.hub.unregisterProvider(p)
	return nil
}

func (p *Provider) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

type sharedLog struct {
	p         *Provider
	observers collab.Observers[struct{}]
}

func (l *sharedLog) Append(ctx context.Context, entry json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.p.isClosed() {
		return collab.ErrClosed
	}
	l.p.hub.appendEntry(l.p, entry)
	return nil
}

func (l *sharedLog) Snapshot() []json.RawMessage {
	return l.p.hub.snapshot(l.p.room)
}

func (l *sharedLog) Observe(fn func()) func() {
	return l.observers.Add(func(struct{}) { fn() })
}

type awareness struct {
	p         *Provider
	observers collab.Observers[collab.States]
}

func (a *awareness) SetLocalField(key string, value any) error {
	if a.p.isClosed() {
		return collab.ErrClosed
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	a.p.hub.setField(a.p, key, raw)
	return nil
}

func (a *awareness) States() collab.States {
	return a.p.hub.states(a.p.room)
}

func (a *awareness) Observe(fn func(collab.States)) func() {
	return a.observers.Add(fn)
}
