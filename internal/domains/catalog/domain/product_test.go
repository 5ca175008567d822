package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewProductValidates(t *testing.T) {
	_, err := NewProduct("p1", "", "Lamp", decimal.NewFromInt(10), 1)
	require.ErrorIs(t, err, ErrEmptyStore)

	_, err = NewProduct("p1", "s1", " ", decimal.NewFromInt(10), 1)
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewProduct("p1", "s1", "Lamp", decimal.NewFromInt(-1), 1)
	require.ErrorIs(t, err, ErrNegativePrice)

	_, err = NewProduct("p1", "s1", "Lamp", decimal.NewFromInt(10), -1)
	require.ErrorIs(t, err, ErrNegativeStock)

	p, err := NewProduct("p1", "s1", "Lamp", decimal.Zero, 0)
	require.NoError(t, err)
	require.False(t, p.CanFulfil(1))
}

func TestCloneIsDeep(t *testing.T) {
	p, err := NewProduct("p1", "s1", "Lamp", decimal.NewFromInt(10), 3)
	require.NoError(t, err)
	require.NoError(t, p.ReplaceImages([]string{"https://img/1.png"}))

	clone := p.Clone()
	clone.ImageURLs[0] = "changed"
	require.Equal(t, "https://img/1.png", p.ImageURLs[0])
}

func TestReplaceImagesRejectsBlank(t *testing.T) {
	p, err := NewProduct("p1", "s1", "Lamp", decimal.NewFromInt(10), 3)
	require.NoError(t, err)
	require.ErrorIs(t, p.ReplaceImages([]string{"ok", " "}), ErrEmptyImageURL)
}
