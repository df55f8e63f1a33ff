package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-groupchat/internal/collab"
	"go-groupchat/internal/models"
)

func (p *Provider) subscribe(ctx context.Context) error {
	channel := p.eventsKey()
	p.pubsub = p.rdb.Subscribe(p.ctx, channel)

	// Wait for subscription confirmation
	if _, err := p.pubsub.Receive(ctx); err != nil {
		slog.Error("[REDIS] Failed to receive subscription confirmation", "channel", channel, "error", err)
		p.pubsub.Close()
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}

	slog.Debug("[REDIS] Subscribed to room events", "channel", channel)
	return nil
}

// listen re-reads the part of the room named by each announcement and
// notifies observers.
func (p *Provider) listen() {
	defer p.wg.Done()

	ch := p.pubsub.Channel()
	for msg := range ch {
		switch msg.Payload {
		case models.EventLog:
			if err := p.refreshLog(p.ctx); err != nil {
				if p.ctx.Err() == nil {
					slog.Error("[REDIS] Error refreshing log", "room", p.room, "error", err)
				}
				continue
			}
			p.log.observers.Notify(struct{}{})

		case models.EventAwareness:
			if _, err := p.refreshAwareness(p.ctx); err != nil {
				if p.ctx.Err() == nil {
					slog.Error("[REDIS] Error refreshing awareness", "room", p.room, "error", err)
				}
				continue
			}
			p.awareness.observers.Notify(p.awareness.States())

		default:
			slog.Warn("[REDIS] Unknown event", "payload", msg.Payload, "channel", msg.Channel)
		}
	}

	slog.Debug("[REDIS] Room subscription closed", "room", p.room)
}

// renew keeps the local awareness entry fresh and expires peers that stopped
// renewing theirs.
func (p *Provider) renew() {
	defer p.wg.Done()

	ticker := time.NewTicker(renewPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.renewOnce(p.ctx)
		}
	}
}

func (p *Provider) renewOnce(ctx context.Context) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return
	}
	state := make(collab.State, len(p.local))
	for k, v := range p.local {
		state[k] = v
	}
	p.mu.RUnlock()

	if len(state) > 0 {
		if err := p.writeLocal(ctx, state); err != nil && ctx.Err() == nil {
			slog.Warn("[REDIS] Failed to renew awareness", "room", p.room, "error", err)
		}
	}

	changed, err := p.refreshAwareness(ctx)
	if err != nil {
		return
	}
	if changed {
		p.awareness.observers.Notify(p.awareness.States())
	}
}
