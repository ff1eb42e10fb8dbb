package hub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, validToken string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/whoami-v2" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type":"user","name":"alice","fullname":"Alice","orgs":[{"name":"acme"}],"extra":1}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestWhoAmI_NoToken(t *testing.T) {
	c := NewClient(Options{Endpoint: "http://127.0.0.1:1", Log: zerolog.Nop()})
	_, err := c.WhoAmI(context.Background())
	require.ErrorIs(t, err, ErrNoToken)
}

func TestWhoAmI_ValidToken(t *testing.T) {
	ts := newHubServer(t, "good")
	c := NewClient(Options{Endpoint: ts.URL, Token: "good", Log: zerolog.Nop()})
	id, err := c.WhoAmI(context.Background())
	require.NoError(t, err)
	require.Equal(t, "alice", id.Name)
	require.Equal(t, "acme", id.Orgs[0].Name)
	raw, ok := id.Body().(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(1), raw["extra"])
}

func TestWhoAmI_Unauthorized(t *testing.T) {
	ts := newHubServer(t, "good")
	c := NewClient(Options{Endpoint: ts.URL, Token: "bad", Log: zerolog.Nop()})
	_, err := c.WhoAmI(context.Background())
	require.Error(t, err)
	require.True(t, IsUnauthorized(err))
}

func TestLogin_PersistsToken(t *testing.T) {
	ts := newHubServer(t, "good")
	path := filepath.Join(t.TempDir(), "hf", "token")
	c := NewClient(Options{Endpoint: ts.URL, TokenPath: path, Log: zerolog.Nop()})
	require.Equal(t, "", c.Token())

	require.NoError(t, c.Login(context.Background(), " good "))
	require.Equal(t, "good", c.Token())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "good", string(b))

	// A new client picks the token up from the file.
	c2 := NewClient(Options{Endpoint: ts.URL, TokenPath: path, Log: zerolog.Nop()})
	_, err = c2.WhoAmI(context.Background())
	require.NoError(t, err)
}

func TestLogin_RejectedTokenKeepsSession(t *testing.T) {
	ts := newHubServer(t, "good")
	c := NewClient(Options{Endpoint: ts.URL, Token: "good", Log: zerolog.Nop()})
	err := c.Login(context.Background(), "bad")
	require.True(t, IsUnauthorized(err))
	require.Equal(t, "good", c.Token())
}

func TestLogin_EmptyToken(t *testing.T) {
	c := NewClient(Options{Endpoint: "http://127.0.0.1:1", Log: zerolog.Nop()})
	require.True(t, errors.Is(c.Login(context.Background(), ""), ErrNoToken))
}

func TestWhoAmI_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()
	c := NewClient(Options{Endpoint: ts.URL, Token: "x", Log: zerolog.Nop()})
	_, err := c.WhoAmI(context.Background())
	require.Error(t, err)
	require.False(t, IsUnauthorized(err))
}

func TestLogin_UnsavableTokenKeepsSession(t *testing.T) {
	ts := newHubServer(t, "good")
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	c := NewClient(Options{Endpoint: ts.URL, TokenPath: filepath.Join(blocker, "token"), Log: zerolog.Nop()})

	err := c.Login(context.Background(), "good")
	require.Error(t, err)
	require.Equal(t, "", c.Token())
	_, err = c.WhoAmI(context.Background())
	require.ErrorIs(t, err, ErrNoToken)
}
