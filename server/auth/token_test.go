package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	secret := []byte("test-secret")
	expires := time.Now().Add(AccessTokenDuration)

	tokenString, err := GenerateAccessToken("alice", 7, expires, secret)
	require.NoError(t, err)

	claims := &ClaimsMessage{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithAudience(AccessTokenAudienceName))
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, "alice", claims.Name)
	require.Equal(t, "7", claims.Subject)
	require.Equal(t, Issuer, claims.Issuer)
	require.Equal(t, KeyID, token.Header["kid"])
}

func TestGenerateAccessTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	tokenString, err := GenerateAccessToken("alice", 7, time.Now().Add(-time.Hour), secret)
	require.NoError(t, err)

	claims := &ClaimsMessage{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)
	require.True(t, CheckPassword(hash, "s3cret"))
	require.False(t, CheckPassword(hash, "wrong"))
}
