package client

import (
	"codecourse/internal/domain/model"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, func() string { return "tok" }, zerolog.Nop())
}

func TestErrorDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Course not found"}`))
	})

	_, err := c.GetCourse(context.Background(), "9")
	require.Error(t, err)
	assert.Equal(t, "Course not found", err.Error())
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusBadRequest))
}

func TestErrorFallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := c.ListCourses(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Request failed (HTTP 502)", err.Error())
}

func TestConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil, zerolog.Nop())
	_, err := c.Run(context.Background(), model.RunRequest{Code: "print(1)"})
	assert.ErrorIs(t, err, ErrConnection)
}

func TestLoginSendsForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "abc", TokenType: "bearer"})
	})

	token, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestRunSendsBearerAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var req model.RunRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "rust", req.Language)
		_, _ = w.Write([]byte(`{"exit_code":1,"stdout":"","stderr":"panic"}`))
	})

	res, err := c.Run(context.Background(), model.RunRequest{Code: "fn main(){}", Language: "rust"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "panic", res.Stderr)
}

func TestUpdateExerciseSendsOnlySetFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/courses/1/exercises/4", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{"title": "New"}, body)
		_, _ = w.Write([]byte(`{"id":4,"course_id":1,"title":"New"}`))
	})

	title := "New"
	ex, err := c.UpdateExercise(context.Background(), 1, 4, ExercisePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", ex.Title)
}

func TestDeleteNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.DeleteCourse(context.Background(), 3))
}
