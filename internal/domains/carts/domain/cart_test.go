package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSumsQuantitiesByProduct(t *testing.T) {
	cart, err := NewCart("c1", "u1")
	require.NoError(t, err)
	require.NoError(t, cart.Replace([]Item{{ProductID: "p1", Quantity: 2, StoreID: "s1"}}))

	require.NoError(t, cart.Merge([]Item{
		{ProductID: "p2", Quantity: 1, StoreID: "s2"},
		{ProductID: "p1", Quantity: 3, StoreID: "s1"},
	}))

	assert.Equal(t, []Item{
		{ProductID: "p1", Quantity: 5, StoreID: "s1"},
		{ProductID: "p2", Quantity: 1, StoreID: "s2"},
	}, cart.Items)
}

func TestMergeTwiceDoubles(t *testing.T) {
	cart, err := NewCart("c1", "u1")
	require.NoError(t, err)
	local := []Item{{ProductID: "p1", Quantity: 1, StoreID: "s1"}}

	require.NoError(t, cart.Merge(local))
	require.NoError(t, cart.Merge(local))

	assert.Equal(t, []Item{{ProductID: "p1", Quantity: 2, StoreID: "s1"}}, cart.Items)
}

func TestMergeRejectsInvalidItemsWithoutMutation(t *testing.T) {
	cart, err := NewCart("c1", "u1")
	require.NoError(t, err)
	require.NoError(t, cart.Replace([]Item{{ProductID: "p1", Quantity: 1}}))

	err = cart.Merge([]Item{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 0}})
	require.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestNewCartRequiresUser(t *testing.T) {
	_, err := NewCart("c1", " ")
	require.ErrorIs(t, err, ErrEmptyUser)
}
