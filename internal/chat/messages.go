package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-groupchat/internal/collab"
	"go-groupchat/internal/models"

	"github.com/goccy/go-json"
)

// Message is one decoded entry of the shared log.
type Message struct {
	ClientID  string
	Username  string
	Text      string
	CreatedAt time.Time
}

// MessageProjection mirrors the shared log. Its contents only ever come from a
// full Snapshot, never from local appends.
type MessageProjection struct {
	log      collab.SharedLog
	messages []Message
}

func NewMessageProjection(log collab.SharedLog) *MessageProjection {
	return &MessageProjection{log: log}
}

// Refresh replaces the local sequence with the log's current contents.
func (p *MessageProjection) Refresh() {
	entries := p.log.Snapshot()
	messages := make([]Message, 0, len(entries))
	for i, raw := range entries {
		var m models.ChatMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			slog.Warn("[ROOM] Skipping undecodable log entry", "index", i, "error", err)
			continue
		}
		createdAt, err := time.Parse(time.RFC3339Nano, m.Timestamp)
		if err != nil {
			slog.Debug("[ROOM] Log entry has no usable timestamp", "index", i, "timestamp", m.Timestamp, "error", err)
		}
		messages = append(messages, Message{
			ClientID:  m.ClientId,
			Username:  m.Username,
			Text:      m.Text,
			CreatedAt: createdAt,
		})
	}
	p.messages = messages
}

func (p *MessageProjection) Messages() []Message {
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Append pushes m to the end of the shared log.
func (p *MessageProjection) Append(ctx context.Context, m Message) error {
	entry, err := json.Marshal(models.ChatMessage{
		ClientId:  m.ClientID,
		Username:  m.Username,
		Text:      m.Text,
		Timestamp: m.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return p.log.Append(ctx, entry)
}
