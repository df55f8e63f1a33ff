// Package render turns chat state into terminal markup. Every function is
// pure: same input, same string.
package render

import (
	"fmt"
	"strings"
	"time"

	"go-groupchat/internal/chat"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 3).
			Border(lipgloss.RoundedBorder())

	bubbleStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#1a1a1a"))

	metaStyle   = lipgloss.NewStyle().Faint(true)
	typingStyle = lipgloss.NewStyle().Italic(true).Faint(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const ownBubble = "#ffffff"

// Frame is what the chat screen shows at one instant.
type Frame struct {
	Self         *chat.Session
	Participants int
	List         string // rendered message list, usually a viewport
	Typing       []chat.Presence
	Input        string // rendered input field
	Notice       string
}

// Start is the screen shown before a display name is confirmed.
func Start() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		buttonStyle.Render("Start Chat"),
		metaStyle.Render("enter to start · esc to quit"),
	)
}

// NamePrompt asks for a display name.
func NamePrompt(input, notice string) string {
	var b strings.Builder
	b.WriteString("Please enter your username\n\n")
	b.WriteString(input)
	b.WriteString("\n\n")
	if notice != "" {
		b.WriteString(noticeStyle.Render(notice))
		b.WriteString("\n")
	}
	b.WriteString(metaStyle.Render("enter to confirm · esc to cancel"))
	return b.String()
}

// Chat lays out the full chat screen.
func Chat(f Frame) string {
	parts := []string{
		Header(f.Self.DisplayName, f.Participants),
		f.List,
		TypingLine(f.Typing),
		f.Input,
	}
	if f.Notice != "" {
		parts = append(parts, noticeStyle.Render(f.Notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func Header(name string, participants int) string {
	return headerStyle.Render(fmt.Sprintf("Group chat · %s · %d online", name, participants))
}

// MessageList renders msgs in order. Messages from selfID sit on a white
// bubble at the right edge; everybody else gets their name's color.
func MessageList(selfID string, msgs []chat.Message, width int) string {
	if len(msgs) == 0 {
		return metaStyle.Render("No messages yet.")
	}

	blocks := make([]string, 0, len(msgs))
	for _, m := range msgs {
		mine := m.ClientID == selfID
		background := ownBubble
		if !mine {
			background = chat.ColorFor(m.Username).Hex()
		}

		meta := m.Username
		if !m.CreatedAt.IsZero() {
			meta += "  " + m.CreatedAt.Local().Format(time.Kitchen)
		}
		bubble := bubbleStyle.Background(lipgloss.Color(background)).
			Render(m.Text + "\n" + metaStyle.Render(meta))

		if mine && width > 0 {
			bubble = lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
		}
		blocks = append(blocks, bubble)
	}
	return strings.Join(blocks, "\n")
}

// TypingLine renders the "is typing" indicator, empty when nobody types.
func TypingLine(typing []chat.Presence) string {
	text := typingText(typing)
	if text == "" {
		return ""
	}
	return typingStyle.Render(text)
}

func typingText(typing []chat.Presence) string {
	switch len(typing) {
	case 0:
		return ""
	case 1:
		return typing[0].Name + " is typing…"
	case 2:
		return typing[0].Name + " and " + typing[1].Name + " are typing…"
	default:
		return fmt.Sprintf("%d people are typing…", len(typing))
	}
}

// Roster renders the participant table.
func Roster(selfID string, participants []chat.Presence) string {
	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Name", "Status", "Client"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, p := range participants {
		name := p.Name
		if p.ClientID == selfID {
			name += " (you)"
		}
		status := "idle"
		if p.IsTyping {
			status = "typing"
		}
		table.Append([]string{name, status, shortID(p.ClientID)})
	}
	table.Render()
	return buf.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
