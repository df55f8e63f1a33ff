package memory

import (
	"context"
	"testing"

	"go-groupchat/internal/collab"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestHub_AppendIsSharedAndOrdered(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	hub := NewHub()
	alice := hub.Connect("chatroom")
	bob := hub.Connect("chatroom")

	bobNotified := 0
	bob.Messages().Observe(func() { bobNotified++ })

	req.NoError(alice.Messages().Append(ctx, json.RawMessage(`"m1"`)))
	req.NoError(bob.Messages().Append(ctx, json.RawMessage(`"m2"`)))

	want := []json.RawMessage{json.RawMessage(`"m1"`), json.RawMessage(`"m2"`)}
	req.Equal(want, alice.Messages().Snapshot())
	req.Equal(want, bob.Messages().Snapshot())
	req.Equal(2, bobNotified)
}

func TestHub_RoomsAreIsolated(t *testing.T) {
	hub := NewHub()
	a := hub.Connect("one")
	b := hub.Connect("two")

	require.NoError(t, a.Messages().Append(context.Background(), json.RawMessage(`1`)))

	require.Len(t, a.Messages().Snapshot(), 1)
	require.Empty(t, b.Messages().Snapshot())
}

func TestHub_AwarenessSnapshotAndLeave(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	alice := hub.Connect("chatroom")
	bob := hub.Connect("chatroom")

	var last collab.States
	alice.Awareness().Observe(func(s collab.States) { last = s })

	req.NoError(bob.Awareness().SetLocalField("user", map[string]any{"name": "Bob"}))
	req.Contains(last, bob.ConnID())
	req.JSONEq(`{"name":"Bob"}`, string(last[bob.ConnID()]["user"]))

	req.NoError(bob.Destroy())
	req.NotContains(last, bob.ConnID())
	req.NotContains(alice.Awareness().States(), bob.ConnID())
	req.Equal([]string{alice.ConnID()}, hub.GetRoomParticipants("chatroom"))
}

func TestProvider_DestroyIsIdempotentAndStopsNotifications(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	alice := hub.Connect("chatroom")
	bob := hub.Connect("chatroom")

	notified := 0
	bob.Messages().Observe(func() { notified++ })

	req.NoError(bob.Destroy())
	req.NoError(bob.Destroy())
	req.NoError(alice.Messages().Append(context.Background(), json.RawMessage(`"late"`)))

	req.Zero(notified)
	req.ErrorIs(bob.Messages().Append(context.Background(), json.RawMessage(`"x"`)), collab.ErrClosed)
	req.ErrorIs(bob.Awareness().SetLocalField("user", 1), collab.ErrClosed)
}
