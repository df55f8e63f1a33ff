// Package redis is a collaboration provider backed by a Redis server. The log
// is a list, awareness is a hash keyed by connection id, and changes are
// announced on a pub/sub channel so every participant re-reads its replica.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go-groupchat/internal/collab"
	"go-groupchat/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	// Awareness entries not renewed within this window are treated as gone.
	outdatedTimeout = 30 * time.Second

	// Local awareness is renewed with this period (must be less than outdatedTimeout)
	renewPeriod = outdatedTimeout / 2

	// Time allowed for the cleanup writes in Destroy
	closeWait = 5 * time.Second
)

type Provider struct {
	rdb    *redis.Client
	pubsub *redis.PubSub
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	room   string
	connID string
	now    func() time.Time

	// Lock for the replica below
	mu      sync.RWMutex
	entries []json.RawMessage
	states  collab.States
	local   collab.State
	closed  bool

	log       *sharedLog
	awareness *awareness
}

var _ collab.Provider = (*Provider)(nil)

// Connect parses a redis:// URL and joins opts.Room.
func Connect(ctx context.Context, opts collab.Options) (*Provider, error) {
	opt, err := redis.ParseURL(opts.URL)
	if err != nil {
		slog.Error("[REDIS] Failed to parse Redis URL", "error", err)
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewProvider(ctx, redis.NewClient(opt), opts.Room)
}

// NewProvider joins room using rdb. The provider owns rdb and closes it in
// Destroy.
func NewProvider(ctx context.Context, rdb *redis.Client, room string) (*Provider, error) {
	return newProvider(ctx, rdb, room, time.Now)
}

func newProvider(ctx context.Context, rdb *redis.Client, room string, now func() time.Time) (*Provider, error) {
	// Test connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("[REDIS] Failed to connect to Redis", "error", err)
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	pctx, cancel := context.WithCancel(context.Background())
	p := &Provider{
		rdb:    rdb,
		ctx:    pctx,
		cancel: cancel,
		room:   room,
		connID: uuid.NewString(),
		now:    now,
		states: collab.States{},
		local:  collab.State{},
	}
	p.log = &sharedLog{p: p}
	p.awareness = &awareness{p: p}

	if err := p.subscribe(ctx); err != nil {
		cancel()
		rdb.Close()
		return nil, err
	}

	if err := p.refreshLog(ctx); err != nil {
		p.Destroy()
		return nil, err
	}
	if _, err := p.refreshAwareness(ctx); err != nil {
		p.Destroy()
		return nil, err
	}

	p.wg.Add(2)
	go p.listen()
	go p.renew()

	slog.Info("[REDIS] Joined room", "room", room, "conn", p.connID)
	return p, nil
}

func (p *Provider) Messages() collab.SharedLog  { return p.log }
func (p *Provider) Awareness() collab.Awareness { return p.awareness }

// ConnID is the key of this participant in the awareness hash.
func (p *Provider) ConnID() string { return p.connID }

// Destroy removes the local awareness entry, stops listening and closes the
// client.
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

	// Renewal must be stopped before the entry is removed.
	p.cancel()
	if p.pubsub != nil {
		p.pubsub.Close()
	}
	p.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), closeWait)
	defer cancel()
	if err := p.rdb.HDel(ctx, p.awarenessKey(), p.connID).Err(); err != nil {
		slog.Warn("[REDIS] Failed to remove awareness entry", "room", p.room, "error", err)
	} else {
		p.publishEvent(ctx, models.EventAwareness)
	}

	slog.Debug("[REDIS] Provider destroyed", "room", p.room, "conn", p.connID)
	return p.rdb.Close()
}

func (p *Provider) isClosed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

func (p *Provider) logKey() string       { return "groupchat:" + p.room + ":messages" }
func (p *Provider) awarenessKey() string { return "groupchat:" + p.room + ":awareness" }
func (p *Provider) eventsKey() string    { return "groupchat:" + p.room + ":events" }

func (p *Provider) publishEvent(ctx context.Context, event string) error {
	channel := p.eventsKey()
	if err := p.rdb.Publish(ctx, channel, event).Err(); err != nil {
		slog.Error("[REDIS] Failed to publish event", "type", event, "channel", channel, "error", err)
		return err
	}
	return nil
}

func (p *Provider) refreshLog(ctx context.Context) error {
	vals, err := p.rdb.LRange(ctx, p.logKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}

	entries := make([]json.RawMessage, len(vals))
	for i, v := range vals {
		entries[i] = json.RawMessage(v)
	}

	p.mu.Lock()
	p.entries = entries
	p.mu.Unlock()
	return nil
}

// refreshAwareness re-reads the awareness hash, dropping outdated entries. It
// reports whether the set of participants changed.
func (p *Provider) refreshAwareness(ctx context.Context) (bool, error) {
	vals, err := p.rdb.HGetAll(ctx, p.awarenessKey()).Result()
	if err != nil {
		return false, fmt.Errorf("read awareness: %w", err)
	}

	cutoff := p.now().Add(-outdatedTimeout).UnixMilli()
	states := make(collab.States, len(vals))
	var stale []string
	for id, v := range vals {
		var rec models.AwarenessRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			slog.Warn("[REDIS] Error unmarshaling awareness record", "room", p.room, "conn", id, "error", err)
			continue
		}
		if rec.UpdatedAt < cutoff && id != p.connID {
			stale = append(stale, id)
			continue
		}
		states[id] = rec.State
	}

	if len(stale) > 0 {
		slog.Debug("[REDIS] Removing outdated awareness entries", "room", p.room, "count", len(stale))
		p.rdb.HDel(ctx, p.awarenessKey(), stale...)
	}

	p.mu.Lock()
	changed := len(states) != len(p.states)
	for id := range states {
		if _, ok := p.states[id]; !ok {
			changed = true
		}
	}
	p.states = states
	p.mu.Unlock()
	return changed, nil
}

// writeLocal stores the local awareness record.
func (p *Provider) writeLocal(ctx context.Context, state collab.State) error {
	payload, err := json.Marshal(models.AwarenessRecord{State: state, UpdatedAt: p.now().UnixMilli()})
	if err != nil {
		return err
	}
	return p.rdb.HSet(ctx, p.awarenessKey(), p.connID, payload).Err()
}

type sharedLog struct {
	p         *Provider
	observers collab.Observers[struct{}]
}

// Append pushes entry and announces it. The entry reaches Snapshot once the
// announcement comes back through the subscription.
func (l *sharedLog) Append(ctx context.Context, entry json.RawMessage) error {
	if l.p.isClosed() {
		return collab.ErrClosed
	}
	if err := l.p.rdb.RPush(ctx, l.p.logKey(), []byte(entry)).Err(); err != nil {
		slog.Error("[REDIS] Failed to append entry", "room", l.p.room, "error", err)
		return err
	}
	return l.p.publishEvent(ctx, models.EventLog)
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
	state := make(collab.State, len(a.p.local))
	for k, v := range a.p.local {
		state[k] = v
	}
	a.p.mu.Unlock()

	if err := a.p.writeLocal(a.p.ctx, state); err != nil {
		slog.Error("[REDIS] Failed to write awareness", "room", a.p.room, "error", err)
		return err
	}
	return a.p.publishEvent(a.p.ctx, models.EventAwareness)
}

func (a *awareness) States() collab.States {
	a.p.mu.RLock()
	defer a.p.mu.RUnlock()
	return a.p.states.Clone()
}

func (a *awareness) Observe(fn func(collab.States)) func() {
	return a.observers.Add(fn)
}
