package chat

import "errors"

var (
	ErrInvalidDisplayName = errors.New("display name must be 1-64 printable characters")
	ErrInvalidTransition  = errors.New("invalid identity transition")
	ErrUnmounted          = errors.New("room is unmounted")
)
