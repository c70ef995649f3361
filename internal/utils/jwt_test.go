package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken(testSecret, "2f9e4a10-8a5d-4a33-9a75-31cf0c6a6f01", []string{"user", "admin"}, 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)

	claims, err := DecodeAccessToken(testSecret, at.Token)
	require.NoError(t, err)
	assert.Equal(t, "2f9e4a10-8a5d-4a33-9a75-31cf0c6a6f01", claims.UserID)
	assert.Equal(t, []string{"user", "admin"}, claims.Roles)
}

func TestDecodeAccessTokenExpired(t *testing.T) {
	at, err := NewAccessToken(testSecret, "user-1", []string{"user"}, -1)
	require.NoError(t, err)

	_, err = DecodeAccessToken(testSecret, at.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestDecodeAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken(testSecret, "user-1", []string{"user"}, 15)
	require.NoError(t, err)

	_, err = DecodeAccessToken("another-secret", at.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeAccessTokenRejectsForeignAlgorithm(t *testing.T) {
	// an unsigned token must never pass, even with matching claims
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1"})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = DecodeAccessToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeAccessTokenMissingSubject(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"roles": []string{"user"}})
	raw, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = DecodeAccessToken(testSecret, raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeAccessTokenGarbage(t *testing.T) {
	_, err := DecodeAccessToken(testSecret, "definitely.not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewRefreshToken(t *testing.T) {
	r1, err := NewRefreshToken(30)
	require.NoError(t, err)
	r2, err := NewRefreshToken(30)
	require.NoError(t, err)

	assert.Len(t, r1.Raw, 64) // 32 bytes hex encoded
	assert.NotEqual(t, r1.Raw, r2.Raw)
	assert.True(t, r1.Exp.After(time.Now().UTC().Add(29*24*time.Hour)))
}

func TestHashRefreshRaw(t *testing.T) {
	h := HashRefreshRaw("some-raw-token")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshRaw("some-raw-token")) // deterministic
	assert.NotEqual(t, h, HashRefreshRaw("some-raw-token2"))
	assert.NotContains(t, h, "some-raw-token")
}
