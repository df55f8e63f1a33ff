package chat

import (
	"log/slog"
	"sort"

	"go-groupchat/internal/collab"
	"go-groupchat/internal/models"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
)

// UserField is the awareness field holding a participant's presence.
const UserField = "user"

// Presence is one connected participant.
type Presence struct {
	ConnID   string
	ClientID string
	Name     string
	Color    string
	IsTyping bool
	Draft    string
}

// PresenceProjection mirrors the awareness channel, keyed by connection id.
type PresenceProjection struct {
	awareness collab.Awareness
	byConn    map[string]Presence
}

func NewPresenceProjection(awareness collab.Awareness) *PresenceProjection {
	return &PresenceProjection{awareness: awareness, byConn: map[string]Presence{}}
}

// Replace rebuilds the mapping from a full snapshot. Connections that have not
// published a user field yet are left out.
func (p *PresenceProjection) Replace(states collab.States) {
	byConn := make(map[string]Presence, len(states))
	for connID, state := range states {
		raw, ok := state[UserField]
		if !ok {
			continue
		}
		var u models.UserField
		if err := json.Unmarshal(raw, &u); err != nil {
			slog.Warn("[ROOM] Skipping undecodable presence", "conn", connID, "error", err)
			continue
		}
		byConn[connID] = Presence{
			ConnID:   connID,
			ClientID: u.ClientId,
			Name:     u.Name,
			Color:    u.Color,
			IsTyping: u.IsTyping,
			Draft:    u.Draft,
		}
	}
	p.byConn = byConn
}

// Participants lists everybody, ordered by name.
func (p *PresenceProjection) Participants() []Presence {
	return sortPresence(lo.Values(p.byConn))
}

// Typing lists the participants typing right now, never including self.
func (p *PresenceProjection) Typing(self string) []Presence {
	return sortPresence(lo.Filter(lo.Values(p.byConn), func(pr Presence, _ int) bool {
		return pr.IsTyping && pr.ClientID != self
	}))
}

// Publish writes the local presence as a single field replacement.
func (p *PresenceProjection) Publish(s *Session, typing bool) error {
	return p.awareness.SetLocalField(UserField, models.UserField{
		ClientId: s.ClientID,
		Name:     s.DisplayName,
		Color:    ColorFor(s.DisplayName).CSS(),
		IsTyping: typing,
		Draft:    s.Draft,
	})
}

func sortPresence(ps []Presence) []Presence {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Name != ps[j].Name {
			return ps[i].Name < ps[j].Name
		}
		if ps[i].ClientID != ps[j].ClientID {
			return ps[i].ClientID < ps[j].ClientID
		}
		return ps[i].ConnID < ps[j].ConnID
	})
	return ps
}
