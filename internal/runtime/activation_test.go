package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mlactions/pkg/types"
)

func TestActivationLog_EvictsOldest(t *testing.T) {
	l, err := NewActivationLog(2)
	require.NoError(t, err)
	first := l.Record(types.Activation{Action: "a"})
	l.Record(types.Activation{Action: "b"})
	third := l.Record(types.Activation{Action: "c"})
	require.Equal(t, 2, l.Len())
	_, ok := l.Get(first)
	require.False(t, ok)
	got, ok := l.Get(third)
	require.True(t, ok)
	require.Equal(t, "c", got.Action)
	require.Equal(t, third, got.ID)
}

func TestActivationLog_KeepsGivenID(t *testing.T) {
	l, err := NewActivationLog(0)
	require.NoError(t, err)
	require.Equal(t, "fixed", l.Record(types.Activation{ID: "fixed"}))
}

func TestNewActivationID_Format(t *testing.T) {
	id := newActivationID()
	require.Len(t, id, activationIDLen)
	for _, r := range id {
		require.Contains(t, activationAlphabet, string(r))
	}
	require.NotEqual(t, id, newActivationID())
}
