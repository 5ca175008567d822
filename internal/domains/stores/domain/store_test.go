package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStoreStartsPending(t *testing.T) {
	store, err := NewStore("s1", "u1", "  Lamp Shop ", "lamps")
	require.NoError(t, err)
	require.Equal(t, StatusPending, store.Status)
	require.Equal(t, "Lamp Shop", store.Name)
	require.False(t, store.CanList())
}

func TestStoreTransitionsOnlyFromPending(t *testing.T) {
	store, err := NewStore("s1", "u1", "Lamp Shop", "")
	require.NoError(t, err)

	require.NoError(t, store.Approve())
	require.True(t, store.CanList())
	require.ErrorIs(t, store.Reject(), ErrInvalidTransition)
	require.ErrorIs(t, store.Approve(), ErrInvalidTransition)

	rejected, err := NewStore("s2", "u2", "Other", "")
	require.NoError(t, err)
	require.NoError(t, rejected.Reject())
	require.ErrorIs(t, rejected.Approve(), ErrInvalidTransition)
}

func TestNewStoreValidation(t *testing.T) {
	_, err := NewStore("s1", "", "Lamp Shop", "")
	require.ErrorIs(t, err, ErrEmptyOwner)

	_, err = NewStore("s1", "u1", " ", "")
	require.ErrorIs(t, err, ErrEmptyName)
}
