package session_test

import (
	"codecourse/internal/client"
	"codecourse/internal/session"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, sub, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     sub,
		"role":    role,
		"user_id": 1,
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestDecodeUser(t *testing.T) {
	user, err := session.DecodeUser(signToken(t, "alice", "admin"))
	require.NoError(t, err)
	assert.Equal(t, session.User{Username: "alice", Role: "admin"}, user)
	assert.True(t, user.IsAdmin())

	_, err = session.DecodeUser("not-a-token")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestLoginLogout(t *testing.T) {
	store := &session.MemoryStore{}
	sess := session.New(store, zerolog.Nop())
	assert.False(t, sess.IsAuthenticated())

	token := signToken(t, "bob", "student")
	require.NoError(t, sess.Login(token))
	user, ok := sess.User()
	require.True(t, ok)
	assert.Equal(t, "bob", user.Username)
	assert.False(t, user.IsAdmin())
	assert.Equal(t, token, sess.Token())

	saved, _ := store.Load()
	assert.Equal(t, token, saved)

	require.NoError(t, sess.Logout())
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, sess.Token())
	saved, _ = store.Load()
	assert.Empty(t, saved)
}

func TestLoginWithInvalidTokenClearsSession(t *testing.T) {
	store := &session.MemoryStore{}
	sess := session.New(store, zerolog.Nop())
	require.NoError(t, sess.Login(signToken(t, "carol", "student")))

	err := sess.Login("garbage")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
	assert.False(t, sess.IsAuthenticated())
	saved, _ := store.Load()
	assert.Empty(t, saved)
}

func TestRestoreFromViperStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	token := signToken(t, "dave", "admin")

	store, err := session.NewViperStore(viper.New(), path)
	require.NoError(t, err)
	require.NoError(t, session.New(store, zerolog.Nop()).Login(token))

	reopened, err := session.NewViperStore(viper.New(), path)
	require.NoError(t, err)
	sess := session.New(reopened, zerolog.Nop())
	require.NoError(t, sess.Restore())

	user, ok := sess.User()
	require.True(t, ok)
	assert.Equal(t, "dave", user.Username)
	assert.Equal(t, token, sess.Token())
}

func TestRestoreEmptyStore(t *testing.T) {
	sess := session.New(&session.MemoryStore{}, zerolog.Nop())
	require.NoError(t, sess.Restore())
	assert.False(t, sess.IsAuthenticated())
}

func TestClientStopsSendingTokenAfterLogout(t *testing.T) {
	var authHeaders []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	sess := session.New(&session.MemoryStore{}, zerolog.Nop())
	api := client.New(srv.URL, sess.Token, zerolog.Nop())
	token := signToken(t, "erin", "student")
	require.NoError(t, sess.Login(token))

	_, err := api.ListCourses(context.Background())
	require.NoError(t, err)

	require.NoError(t, sess.Logout())
	_, err = api.ListCourses(context.Background())
	require.NoError(t, err)

	require.Len(t, authHeaders, 2)
	assert.Equal(t, "Bearer "+token, authHeaders[0])
	assert.Empty(t, authHeaders[1])
}
