package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksync/internal/pkg/crypto"
)

func TestHashPassword(t *testing.T) {
	hash, err := crypto.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, crypto.CheckPassword("password123", hash))
	assert.False(t, crypto.CheckPassword("password124", hash))
	assert.False(t, crypto.CheckPassword("password123", "not-a-hash"))
}

func TestNewResetToken(t *testing.T) {
	raw, digest, err := crypto.NewResetToken()
	require.NoError(t, err)

	assert.Len(t, raw, 64)
	assert.Len(t, digest, 64)
	assert.NotEqual(t, raw, digest)
	assert.Equal(t, digest, crypto.DigestToken(raw))

	other, _, err := crypto.NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, other)
}
