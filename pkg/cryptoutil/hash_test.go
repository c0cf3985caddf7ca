package cryptoutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	password := "SecureP@ssw0rd!"
	hash, err := HashPassword(password)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v="))

	ok, err := VerifyPassword(password, hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	ok, err := VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "each hash call must use a fresh random salt")
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	_, err := VerifyPassword("pw", "not-a-valid-hash")
	assert.Error(t, err)
}

func TestDeriveKeyPBKDF2_DeterministicAndKeyed(t *testing.T) {
	secret := []byte("team-signing-secret")
	salt := []byte("fixed-salt-value")

	k1 := DeriveKeyPBKDF2(secret, salt)
	k2 := DeriveKeyPBKDF2(secret, salt)
	assert.Equal(t, k1, k2, "same secret+salt must derive the same key")
	assert.Len(t, k1, 32)

	k3 := DeriveKeyPBKDF2([]byte("different-secret"), salt)
	assert.NotEqual(t, k1, k3)
}

func TestDeriveKeyPBKDF2Hex_RoundTrip(t *testing.T) {
	secret := []byte("team-signing-secret")
	keyHex, err := DeriveKeyPBKDF2Hex(secret, "deadbeef")
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{64}$`, keyHex)
}

func TestDeriveKeyPBKDF2Hex_RejectsBadSaltHex(t *testing.T) {
	_, err := DeriveKeyPBKDF2Hex([]byte("secret"), "not-hex")
	assert.Error(t, err)
}
