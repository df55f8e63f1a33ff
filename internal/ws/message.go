package ws

import (
	"context"
	"log/slog"

	"go-groupchat/internal/collab"
	"go-groupchat/internal/models"

	"github.com/goccy/go-json"
)

func (p *Provider) handleServerFrame(message []byte) {
	var frame models.Frame
	if err := json.Unmarshal(message, &frame); err != nil {
		slog.Error("[WS] Error unmarshaling frame", "room", p.opts.Room, "error", err)
		return
	}

	switch frame.Type {
	case models.TypeSnapshot:
		p.applySnapshot(&frame)

	case models.TypeAppended:
		p.applyAppended(&frame)

	case models.TypeAwarenessChanged:
		p.mu.Lock()
		p.states = nonNilStates(frame.States)
		states := p.states.Clone()
		p.mu.Unlock()

		p.awareness.observers.Notify(states)

	default:
		slog.Warn("[WS] Unknown frame type", "type", frame.Type, "room", p.opts.Room)
	}
}

func (p *Provider) applySnapshot(frame *models.Frame) {
	p.mu.Lock()
	p.connID = frame.ConnId
	p.resyncing = false
	p.entries = append([]json.RawMessage(nil), frame.Entries...)
	p.states = nonNilStates(frame.States)
	states := p.states.Clone()
	var local collab.State
	if len(p.local) > 0 {
		local = cloneState(p.local)
	}
	p.mu.Unlock()

	slog.Debug("[WS] Snapshot received", "room", p.opts.Room, "conn", frame.ConnId, "entries", len(frame.Entries))

	p.readyOnce.Do(func() { close(p.ready) })

	// A fresh connection id has no awareness on the server yet.
	if local != nil {
		if err := p.enqueue(context.Background(), models.Frame{Type: models.TypeAwarenessUpdate, Room: p.opts.Room, State: local}); err != nil {
			slog.Warn("[WS] Failed to restore awareness after snapshot", "room", p.opts.Room, "error", err)
		}
	}

	p.log.observers.Notify(struct{}{})
	p.awareness.observers.Notify(states)
}

func (p *Provider) applyAppended(frame *models.Frame) {
	p.mu.Lock()
	have := len(p.entries)
	switch {
	case frame.Index == have:
		p.entries = append(p.entries, frame.Entry)
	case frame.Index < have:
		p.mu.Unlock()
		slog.Debug("[WS] Dropping duplicate entry", "room", p.opts.Room, "index", frame.Index)
		return
	case p.resyncing:
		p.mu.Unlock()
		slog.Debug("[WS] Dropping entry while resyncing", "room", p.opts.Room, "index", frame.Index)
		return
	default:
		p.resyncing = true
		p.mu.Unlock()
		slog.Warn("[WS] Log gap detected, resyncing", "room", p.opts.Room, "index", frame.Index, "have", have)
		if err := p.join(context.Background()); err != nil {
			p.mu.Lock()
			p.resyncing = false
			p.mu.Unlock()
			slog.Error("[WS] Failed to resync", "room", p.opts.Room, "error", err)
		}
		return
	}
	p.mu.Unlock()

	p.log.observers.Notify(struct{}{})
}

func nonNilStates(s collab.States) collab.States {
	if s == nil {
		return collab.States{}
	}
	return s
}

func cloneState(s collab.State) collab.State {
	out := make(collab.State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
