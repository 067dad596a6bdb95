package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("p1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "p1", hash)

	assert.True(t, CheckPasswordHash("p1", hash))
	assert.False(t, CheckPasswordHash("p2", hash))
}

func TestCheckPasswordHashPrefixMatch(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)

	// A near-miss sharing a long prefix must still fail.
	assert.False(t, CheckPasswordHash("correct-horse-batterx", hash))
	assert.False(t, CheckPasswordHash("correct-horse", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestCheckPasswordHashEmptyHash(t *testing.T) {
	// Externally-authenticated accounts have no stored hash.
	assert.False(t, CheckPasswordHash("anything", ""))
}
