// Package ws is a collaboration provider that talks to a hosted server over a
// websocket. It keeps a local replica of the room's log and awareness states,
// updated only by frames from the server.
package ws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go-groupchat/internal/collab"
	"go-groupchat/internal/models"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var ErrConnectionLost = errors.New("ws: connection lost before snapshot")

// Provider is one websocket connection to a room.
type Provider struct {
	opts collab.Options
	conn *websocket.Conn
	send chan []byte

	quit      chan struct{} // closed by shutdown
	done      chan struct{} // closed when readPump returns
	ready     chan struct{} // closed on the first snapshot
	quitOnce  sync.Once
	readyOnce sync.Once

	// Lock for the replica below
	mu      sync.RWMutex
	connID  string
	entries []json.RawMessage
	states  collab.States
	local   collab.State
	closed  bool

	// Set while a re-join for a log gap awaits its snapshot
	resyncing bool

	log       *sharedLog
	awareness *awareness
}

var _ collab.Provider = (*Provider)(nil)

// Connect dials opts.URL, joins opts.Room and waits for the initial snapshot.
func Connect(ctx context.Context, opts collab.Options) (*Provider, error) {
	return ConnectWith(ctx, websocket.DefaultDialer, opts)
}

func ConnectWith(ctx context.Context, dialer *websocket.Dialer, opts collab.Options) (*Provider, error) {
	slog.Debug("[WS] Dialing collaboration server", "url", opts.URL, "room", opts.Room)

	conn, _, err := dialer.DialContext(ctx, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", opts.URL, err)
	}

	p := &Provider{
		opts:   opts,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		ready:  make(chan struct{}),
		states: collab.States{},
		local:  collab.State{},
	}
	p.log = &sharedLog{p: p}
	p.awareness = &awareness{p: p}

	go p.writePump()
	go p.readPump()

	if err := p.join(ctx); err != nil {
		p.Destroy()
		return nil, err
	}

	select {
	case <-p.ready:
		slog.Info("[WS] Joined room", "room", opts.Room, "conn", p.ConnID())
		return p, nil
	case <-p.done:
		p.Destroy()
		return nil, ErrConnectionLost
	case <-ctx.Done():
		p.Destroy()
		return nil, ctx.Err()
	}
}

func (p *Provider) Messages() collab.SharedLog  { return p.log }
func (p *Provider) Awareness() collab.Awareness { return p.awareness }

// ConnID is the id the server assigned in the last snapshot.
func (p *Provider) ConnID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connID
}

// Destroy closes the connection and waits for the read pump to stop. No
// observer is called once it returns.
func (p *Provider) Destroy() error {
	p.shutdown()
	<-p.done
	return nil
}

func (p *Provider) shutdown() {
	p.quitOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		p.log.observers.Clear()
		p.awareness.observers.Clear()
		close(p.quit)
		slog.Debug("[WS] Provider shut down", "room", p.opts.Room)
	})
}

func (p *Provider) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

func (p *Provider) join(ctx context.Context) error {
	return p.enqueue(ctx, models.Frame{Type: models.TypeJoin, Room: p.opts.Room, Token: p.opts.Token})
}

// enqueue hands a frame to writePump.
func (p *Provider) enqueue(ctx context.Context, frame models.Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		slog.Error("[WS] Failed to marshal frame", "type", frame.Type, "room", p.opts.Room, "error", err)
		return err
	}

	select {
	case p.send <- payload:
		return nil
	case <-p.quit:
		return collab.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

type sharedLog struct {
	p         *Provider
	observers collab.Observers[struct{}]
}

func (l *sharedLog) Append(ctx context.Context, entry json.RawMessage) error {
	if l.p.isClosed() {
		return collab.ErrClosed
	}
	return l.p.enqueue(ctx, models.Frame{Type: models.TypeAppend, Room: l.p.opts.Room, Entry: entry})
}

func (l *sharedLog) Snapshot() []json.RawMessage {
	l.p.mu.RLock()
	defer l.p.mu.RUnlock()

	out := make([]json.RawMessage, len(l.p.entries))
	copy(out, l.p.entries)
	return out
}

func (l *sharedLog) Observe(fn func()) func() {
	return l.observers.Add(func(struct{}) { fn() })
}

type awareness struct {
	p         *Provider
	observers collab.Observers[collab.States]
}

// SetLocalField replaces one field and publishes the whole local state.
func (a *awareness) SetLocalField(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	a.p.mu.Lock()
	if a.p.closed {
		a.p.mu.Unlock()
		return collab.ErrClosed
	}
	a.p.local[key] = raw
	state := cloneState(a.p.local)
	a.p.mu.Unlock()

	return a.p.enqueue(context.Background(), models.Frame{Type: models.TypeAwarenessUpdate, Room: a.p.opts.Room, State: state})
}

func (a *awareness) States() collab.States {
	a.p.mu.RLock()
	defer a.p.mu.RUnlock()
	return a.p.states.Clone()
}

func (a *awareness) Observe(fn func(collab.States)) func() {
	return a.observers.Add(fn)
}
