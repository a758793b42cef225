package security

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenClaims(t *testing.T) {
	InitJWT([]byte("test-secret"), time.Hour)

	tokenString, err := GenerateToken(42, "alice", "admin")
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	require.NoError(t, err)
	raw, err := token.AsMap(context.Background())
	require.NoError(t, err)
	claims := jwt.MapClaims(raw)

	username, err := GetUsernameFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	id, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	role, err := GetUserRoleFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	assert.WithinDuration(t, time.Now().Add(time.Hour), token.Expiration(), time.Minute)
}

func TestTokenFromOtherKeyRejected(t *testing.T) {
	InitJWT([]byte("key-one"), 0)
	tokenString, err := GenerateToken(1, "bob", "student")
	require.NoError(t, err)

	InitJWT([]byte("key-two"), 0)
	_, err = jwtauth.VerifyToken(TokenAuth, tokenString)
	assert.Error(t, err)
}

func TestClaimHelpersRejectBadInput(t *testing.T) {
	_, err := GetUsernameFromClaims(jwt.MapClaims{})
	assert.Error(t, err)
	_, err = GetUserIDFromClaims(jwt.MapClaims{"user_id": "abc"})
	assert.Error(t, err)
	_, err = GetUserIDFromClaims(jwt.MapClaims{"user_id": 7.0})
	assert.Error(t, err)
	_, err = GetUserRoleFromClaims(jwt.MapClaims{"role": 1})
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("hunter3", hash))
}
