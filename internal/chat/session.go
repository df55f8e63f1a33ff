// Package chat projects a shared message log and a presence channel into the
// local state of one chat participant. Nothing in here is safe for concurrent
// use: a Room belongs to the UI loop that mounted it.
package chat

import "github.com/google/uuid"

// Session is the local participant.
type Session struct {
	ClientID    string // generated once per process
	DisplayName string
	Draft       string
}

func NewSession() *Session {
	return &Session{ClientID: uuid.NewString()}
}
