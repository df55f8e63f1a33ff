package render

import (
	"strings"
	"testing"
	"time"

	"go-groupchat/internal/chat"

	"github.com/stretchr/testify/require"
)

func TestTypingText(t *testing.T) {
	alice := chat.Presence{Name: "Alice"}
	bob := chat.Presence{Name: "Bob"}
	cat := chat.Presence{Name: "Cat"}

	require.Equal(t, "", typingText(nil))
	require.Equal(t, "Alice is typing…", typingText([]chat.Presence{alice}))
	require.Equal(t, "Alice and Bob are typing…", typingText([]chat.Presence{alice, bob}))
	require.Equal(t, "3 people are typing…", typingText([]chat.Presence{alice, bob, cat}))
	require.Equal(t, "", TypingLine(nil))
}

func TestMessageList_KeepsOrder(t *testing.T) {
	now := time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)
	msgs := []chat.Message{
		{ClientID: "a", Username: "Alice", Text: "first", CreatedAt: now},
		{ClientID: "b", Username: "Bob", Text: "second", CreatedAt: now},
		{ClientID: "a", Username: "Alice", Text: "third"},
	}

	out := MessageList("a", msgs, 60)

	first, second, third := strings.Index(out, "first"), strings.Index(out, "second"), strings.Index(out, "third")
	require.True(t, first >= 0 && first < second && second < third, out)
	require.Contains(t, out, "Bob")
	require.Contains(t, out, now.Local().Format(time.Kitchen))
}

func TestMessageList_Empty(t *testing.T) {
	require.Contains(t, MessageList("a", nil, 40), "No messages yet.")
}

func TestRoster(t *testing.T) {
	out := Roster("self-client-id", []chat.Presence{
		{ClientID: "self-client-id", Name: "Me"},
		{ClientID: "other", Name: "Bob", IsTyping: true},
	})

	require.Contains(t, out, "Me (you)")
	require.Contains(t, out, "Bob")
	require.Contains(t, out, "typing")
	require.Contains(t, out, "self-cli")
}

func TestScreens(t *testing.T) {
	require.Contains(t, Start(), "Start Chat")

	prompt := NamePrompt("> Al", "display name must be 1-64 printable characters")
	require.Contains(t, prompt, "> Al")
	require.Contains(t, prompt, "printable characters")

	screen := Chat(Frame{
		Self:         &chat.Session{DisplayName: "Alice"},
		Participants: 2,
		List:         "LIST",
		Typing:       []chat.Presence{{Name: "Bob"}},
		Input:        "INPUT",
	})
	for _, want := range []string{"Group chat", "Alice", "2 online", "LIST", "Bob is typing…", "INPUT"} {
		require.Contains(t, screen, want)
	}
	require.Less(t, strings.Index(screen, "LIST"), strings.Index(screen, "INPUT"))
}
