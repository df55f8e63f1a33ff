package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-groupchat/internal/collab"
	"go-groupchat/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func connectTest(t *testing.T, mr *miniredis.Miniredis) *Provider {
	t.Helper()
	p, err := Connect(context.Background(), collab.Options{URL: "redis://" + mr.Addr(), Room: "chatroom"})
	require.NoError(t, err)
	t.Cleanup(func() { p.Destroy() })
	return p
}

func TestProvider_AppendVisibleToAll(t *testing.T) {
	mr := miniredis.RunT(t)
	alice := connectTest(t, mr)
	bob := connectTest(t, mr)

	var mu sync.Mutex
	bobNotified := 0
	bob.Messages().Observe(func() {
		mu.Lock()
		bobNotified++
		mu.Unlock()
	})

	ctx := context.Background()
	require.NoError(t, alice.Messages().Append(ctx, json.RawMessage(`"m1"`)))
	require.NoError(t, bob.Messages().Append(ctx, json.RawMessage(`"m2"`)))

	want := []json.RawMessage{json.RawMessage(`"m1"`), json.RawMessage(`"m2"`)}
	for _, p := range []*Provider{alice, bob} {
		require.Eventually(t, func() bool { return len(p.Messages().Snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
		require.Equal(t, want, p.Messages().Snapshot())
	}
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return bobNotified > 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProvider_LateJoinerReadsHistory(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RPush("groupchat:chatroom:messages", `"early"`)

	late := connectTest(t, mr)
	require.Equal(t, []json.RawMessage{json.RawMessage(`"early"`)}, late.Messages().Snapshot())
}

func TestProvider_AwarenessLifecycle(t *testing.T) {
	req := require.New(t)
	mr := miniredis.RunT(t)
	alice := connectTest(t, mr)
	bob := connectTest(t, mr)

	req.NoError(bob.Awareness().SetLocalField("user", models.UserField{Name: "Bob", IsTyping: true}))
	req.Eventually(func() bool {
		_, ok := alice.Awareness().States()[bob.ConnID()]
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	var user models.UserField
	req.NoError(json.Unmarshal(alice.Awareness().States()[bob.ConnID()]["user"], &user))
	req.Equal("Bob", user.Name)

	bobID := bob.ConnID()
	req.NoError(bob.Destroy())
	req.Eventually(func() bool {
		_, ok := alice.Awareness().States()[bobID]
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
	req.Empty(mr.HGet("groupchat:chatroom:awareness", bobID))
}

func TestProvider_OutdatedAwarenessExpires(t *testing.T) {
	req := require.New(t)
	mr := miniredis.RunT(t)
	alice := connectTest(t, mr)

	old := models.AwarenessRecord{
		State:     collab.State{"user": json.RawMessage(`{"name":"Ghost"}`)},
		UpdatedAt: time.Now().Add(-time.Minute).UnixMilli(),
	}
	payload, err := json.Marshal(old)
	req.NoError(err)
	mr.HSet("groupchat:chatroom:awareness", "ghost", string(payload))

	changed, err := alice.refreshAwareness(context.Background())
	req.NoError(err)
	req.False(changed)
	req.NotContains(alice.Awareness().States(), "ghost")
	req.Empty(mr.HGet("groupchat:chatroom:awareness", "ghost"))
}

func TestProvider_RenewKeepsLocalEntryFresh(t *testing.T) {
	req := require.New(t)
	mr := miniredis.RunT(t)

	var skew atomic.Int64
	clock := func() time.Time { return time.Now().Add(time.Duration(skew.Load())) }
	alice, err := newProvider(context.Background(), redis.NewClient(&redis.Options{Addr: mr.Addr()}), "chatroom", clock)
	req.NoError(err)
	t.Cleanup(func() { alice.Destroy() })

	req.NoError(alice.Awareness().SetLocalField("user", models.UserField{Name: "Alice"}))

	skew.Store(int64(time.Hour))
	alice.renewOnce(context.Background())

	var rec models.AwarenessRecord
	req.NoError(json.Unmarshal([]byte(mr.HGet("groupchat:chatroom:awareness", alice.ConnID())), &rec))
	req.Greater(rec.UpdatedAt, time.Now().Add(30*time.Minute).UnixMilli())
	req.Contains(alice.Awareness().States(), alice.ConnID())
}

func TestProvider_RenewAfterDestroyLeavesNoEntry(t *testing.T) {
	req := require.New(t)
	mr := miniredis.RunT(t)
	alice, err := NewProvider(context.Background(), redis.NewClient(&redis.Options{Addr: mr.Addr()}), "chatroom")
	req.NoError(err)

	req.NoError(alice.Awareness().SetLocalField("user", models.UserField{Name: "Alice", IsTyping: true}))
	req.NotEmpty(mr.HGet("groupchat:chatroom:awareness", alice.ConnID()))
	req.NoError(alice.Destroy())

	// A live client, so only the closed check can keep the write out.
	alice.rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { alice.rdb.Close() })

	alice.renewOnce(context.Background())
	req.Empty(mr.HGet("groupchat:chatroom:awareness", alice.ConnID()))
}

func TestProvider_DestroyIsIdempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	p, err := NewProvider(context.Background(), redis.NewClient(&redis.Options{Addr: mr.Addr()}), "chatroom")
	require.NoError(t, err)

	require.NoError(t, p.Destroy())
	require.NoError(t, p.Destroy())
	require.ErrorIs(t, p.Messages().Append(context.Background(), json.RawMessage(`1`)), collab.ErrClosed)
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect(context.Background(), collab.Options{URL: "://nope", Room: "chatroom"})
	require.Error(t, err)
}
