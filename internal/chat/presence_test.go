package chat

import (
	"testing"

	"go-groupchat/internal/collab"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestPresenceProjection_Replace(t *testing.T) {
	req := require.New(t)
	p := NewPresenceProjection(nil)

	p.Replace(collab.States{
		"c1": {UserField: json.RawMessage(`{"clientId":"a","name":"Zoe","isTyping":true}`)},
		"c2": {UserField: json.RawMessage(`{"clientId":"b","name":"Adam","isTyping":true}`)},
		"c3": {"other": json.RawMessage(`1`)},
		"c4": {UserField: json.RawMessage(`not json`)},
	})

	participants := p.Participants()
	req.Len(participants, 2)
	req.Equal("Adam", participants[0].Name)
	req.Equal("c2", participants[0].ConnID)
	req.Equal("Zoe", participants[1].Name)

	p.Replace(collab.States{})
	req.Empty(p.Participants())
}

func TestPresenceProjection_TypingExcludesSelf(t *testing.T) {
	p := NewPresenceProjection(nil)
	p.Replace(collab.States{
		"c1": {UserField: json.RawMessage(`{"clientId":"self","name":"Me","isTyping":true}`)},
		"c2": {UserField: json.RawMessage(`{"clientId":"b","name":"Bob","isTyping":true}`)},
		"c3": {UserField: json.RawMessage(`{"clientId":"c","name":"Cat","isTyping":false}`)},
	})

	typing := p.Typing("self")

	require.Len(t, typing, 1)
	require.Equal(t, "Bob", typing[0].Name)
	for _, id := range []string{"self", "b", "c"} {
		for _, pr := range p.Typing(id) {
			require.NotEqual(t, id, pr.ClientID)
		}
	}
}
