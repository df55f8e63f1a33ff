package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentity_HappyPath(t *testing.T) {
	req := require.New(t)
	var id Identity
	req.Equal(NotReady, id.Stage())

	req.NoError(id.Begin())
	req.Equal(Validating, id.Stage())

	name, err := id.Submit("  Alice  ")
	req.NoError(err)
	req.Equal("Alice", name)
	req.Equal(Ready, id.Stage())
	req.Equal("Alice", id.Name())
}

func TestIdentity_InvalidNamesKeepPromptOpen(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "whitespace", input: "   \t "},
		{name: "control character", input: "Al\x07ice"},
		{name: "too long", input: strings.Repeat("é", 65)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id Identity
			require.NoError(t, id.Begin())

			_, err := id.Submit(tt.input)

			require.ErrorIs(t, err, ErrInvalidDisplayName)
			require.Equal(t, Validating, id.Stage())
		})
	}
}

func TestIdentity_AcceptsUnicodeUpToLimit(t *testing.T) {
	var id Identity
	require.NoError(t, id.Begin())

	name, err := id.Submit(strings.Repeat("猫", 64))

	require.NoError(t, err)
	require.Equal(t, 64, len([]rune(name)))
}

func TestIdentity_Cancel(t *testing.T) {
	t.Run("from not ready", func(t *testing.T) {
		var id Identity
		require.NoError(t, id.Cancel())
		require.Equal(t, Cancelled, id.Stage())
	})

	t.Run("from validating", func(t *testing.T) {
		var id Identity
		require.NoError(t, id.Begin())
		require.NoError(t, id.Cancel())
		require.Equal(t, Cancelled, id.Stage())
		require.ErrorIs(t, id.Begin(), ErrInvalidTransition)
	})

	t.Run("not from ready", func(t *testing.T) {
		var id Identity
		require.NoError(t, id.Begin())
		_, err := id.Submit("Alice")
		require.NoError(t, err)
		require.ErrorIs(t, id.Cancel(), ErrInvalidTransition)
		require.Equal(t, Ready, id.Stage())
	})
}

func TestIdentity_InvalidTransitions(t *testing.T) {
	var id Identity
	_, err := id.Submit("Alice")
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = id.Rename("Alice")
	require.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, id.Begin())
	require.ErrorIs(t, id.Begin(), ErrInvalidTransition)
}

func TestIdentity_RenameKeepsReady(t *testing.T) {
	req := require.New(t)
	var id Identity
	req.NoError(id.Begin())
	_, err := id.Submit("Alice")
	req.NoError(err)

	_, err = id.Rename(" ")
	req.ErrorIs(err, ErrInvalidDisplayName)
	req.Equal("Alice", id.Name())

	name, err := id.Rename("Alicia")
	req.NoError(err)
	req.Equal("Alicia", name)
	req.Equal(Ready, id.Stage())
}

func TestStage_String(t *testing.T) {
	require.Equal(t, "NOT_READY", NotReady.String())
	require.Equal(t, "VALIDATING", Validating.String())
	require.Equal(t, "READY", Ready.String())
	require.Equal(t, "CANCELLED", Cancelled.String())
}
