package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword("correct horse battery staple", hash))
	assert.False(t, CheckPassword("wrong password", hash))
	assert.False(t, CheckPassword("correct horse battery staple", "not-a-hash"))
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, err := tm.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := tm.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	tm := NewTokenManager(testSecret, -time.Minute)

	token, err := tm.Generate("user-123")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager(testSecret, time.Hour).Generate("user-123")
	require.NoError(t, err)

	other := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnsignedAlg(t *testing.T) {
	// alg=none tokens must never verify
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tm := NewTokenManager(testSecret, time.Hour)
	_, err = tm.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
