package security

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/go-marketplace-api/internal/domains/users/ports"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)

	require.NoError(t, hasher.Compare(hash, "secret1"))
	require.ErrorIs(t, hasher.Compare(hash, "secret2"), ports.ErrInvalidCredentials)
}
