package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go-groupchat/internal/collab"
)

// Room is the mounted chat view. It owns the provider from Mount until
// Unmount. Provider callbacks only fill a mailbox and call wake; the UI loop
// applies them with Sync.
type Room struct {
	provider collab.Provider
	session  *Session
	messages *MessageProjection
	presence *PresenceProjection
	now      func() time.Time

	unsubscribe []func()
	destroyOnce sync.Once
	destroyErr  error

	// Mailbox filled from provider goroutines
	mu            sync.Mutex
	unmounted     bool
	logDirty      bool
	pendingStates collab.States
	wake          func()
}

// Mount subscribes to the provider, publishes the local presence and loads the
// initial state. wake is called, possibly from another goroutine, whenever
// Sync has work to do; it must not block.
func Mount(provider collab.Provider, session *Session, wake func()) (*Room, error) {
	r := &Room{
		provider: provider,
		session:  session,
		messages: NewMessageProjection(provider.Messages()),
		presence: NewPresenceProjection(provider.Awareness()),
		now:      time.Now,
		wake:     wake,
	}

	r.unsubscribe = append(r.unsubscribe,
		provider.Messages().Observe(r.onLogChanged),
		provider.Awareness().Observe(r.onPresenceChanged),
	)

	r.messages.Refresh()
	r.presence.Replace(provider.Awareness().States())

	if err := r.presence.Publish(session, false); err != nil {
		r.Unmount()
		return nil, fmt.Errorf("publish presence: %w", err)
	}

	slog.Info("[ROOM] Mounted", "client", session.ClientID, "name", session.DisplayName)
	return r, nil
}

func (r *Room) onLogChanged() {
	r.mu.Lock()
	if r.unmounted {
		r.mu.Unlock()
		return
	}
	r.logDirty = true
	r.mu.Unlock()
	r.wake()
}

func (r *Room) onPresenceChanged(states collab.States) {
	r.mu.Lock()
	if r.unmounted {
		r.mu.Unlock()
		return
	}
	r.pendingStates = states
	r.mu.Unlock()
	r.wake()
}

// Sync applies the notifications received since the last call and reports
// whether anything changed.
func (r *Room) Sync() bool {
	r.mu.Lock()
	if r.unmounted {
		r.mu.Unlock()
		return false
	}
	logDirty, states := r.logDirty, r.pendingStates
	r.logDirty, r.pendingStates = false, nil
	r.mu.Unlock()

	if logDirty {
		r.messages.Refresh()
	}
	if states != nil {
		r.presence.Replace(states)
	}
	return logDirty || states != nil
}

func (r *Room) Session() *Session { return r.session }

func (r *Room) Messages() []Message      { return r.messages.Messages() }
func (r *Room) Participants() []Presence { return r.presence.Participants() }
func (r *Room) Typing() []Presence       { return r.presence.Typing(r.session.ClientID) }

// SetDraft records the input text and publishes the typing status.
func (r *Room) SetDraft(text string) error {
	if r.isUnmounted() {
		return ErrUnmounted
	}
	r.session.Draft = text
	return r.presence.Publish(r.session, text != "")
}

// Send appends the draft to the shared log. Blank drafts are ignored and
// reported as not sent. The message shows up once the log notifies.
func (r *Room) Send(ctx context.Context) (bool, error) {
	if r.isUnmounted() {
		return false, ErrUnmounted
	}
	if strings.TrimSpace(r.session.Draft) == "" {
		return false, nil
	}

	err := r.messages.Append(ctx, Message{
		ClientID:  r.session.ClientID,
		Username:  r.session.DisplayName,
		Text:      r.session.Draft,
		CreatedAt: r.now(),
	})
	if err != nil {
		return false, fmt.Errorf("append message: %w", err)
	}

	r.session.Draft = ""
	if err := r.presence.Publish(r.session, false); err != nil {
		return true, fmt.Errorf("publish presence: %w", err)
	}
	return true, nil
}

// Rename republishes the presence under a new display name.
func (r *Room) Rename(name string) error {
	if r.isUnmounted() {
		return ErrUnmounted
	}
	r.session.DisplayName = name
	return r.presence.Publish(r.session, r.session.Draft != "")
}

// Unmount unsubscribes and destroys the provider. Only the first call does
// anything; later calls return the same error.
func (r *Room) Unmount() error {
	r.destroyOnce.Do(func() {
		r.mu.Lock()
		r.unmounted = true
		r.logDirty, r.pendingStates = false, nil
		r.mu.Unlock()

		for _, unsubscribe := range r.unsubscribe {
			unsubscribe()
		}
		r.destroyErr = r.provider.Destroy()
		slog.Info("[ROOM] Unmounted", "client", r.session.ClientID)
	})
	return r.destroyErr
}

func (r *Room) isUnmounted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unmounted
}
