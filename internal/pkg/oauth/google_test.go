package oauth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGenerateState(t *testing.T) {
	svc := NewGoogleService("client-id", "client-secret", "http://localhost:8080/callback", []string{"email"})

	first, err := svc.GenerateState()
	require.NoError(t, err)
	second, err := svc.GenerateState()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	decoded, err := base64.RawURLEncoding.DecodeString(first)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)
}

func TestRedirectURL(t *testing.T) {
	svc := NewGoogleService("client-id", "client-secret", "http://localhost:8080/callback", []string{"email", "profile"})

	raw := svc.RedirectURL("state-123")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "http://localhost:8080/callback", q.Get("redirect_uri"))
	assert.Equal(t, "email profile", q.Get("scope"))
}

func TestVerifyUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer google-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-1","email":"ana@example.com","name":"Ana","verified_email":true}`))
	}))
	defer srv.Close()

	svc := &GoogleServiceImpl{config: &oauth2.Config{}, userInfoURL: srv.URL}

	info, err := svc.VerifyUser(context.Background(), &oauth2.Token{AccessToken: "google-token", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, GoogleInformation{GoogleID: "g-1", Email: "ana@example.com", Name: "Ana", VerifiedEmail: true}, info)
}

func TestVerifyUser_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := &GoogleServiceImpl{config: &oauth2.Config{}, userInfoURL: srv.URL}

	_, err := svc.VerifyUser(context.Background(), &oauth2.Token{AccessToken: "expired", TokenType: "Bearer"})
	assert.Error(t, err)
}

func TestVerifyUser_NormalizesEmailAndRequiresID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/no-id" {
			_, _ = w.Write([]byte(`{"email":"budi@example.com"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"g-2","email":"  Budi@Example.COM ","verified_email":true}`))
	}))
	defer srv.Close()

	token := &oauth2.Token{AccessToken: "google-token", TokenType: "Bearer"}

	svc := &GoogleServiceImpl{config: &oauth2.Config{}, userInfoURL: srv.URL + "/ok"}
	info, err := svc.VerifyUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "budi@example.com", info.Email)

	svc.userInfoURL = srv.URL + "/no-id"
	_, err = svc.VerifyUser(context.Background(), token)
	assert.Error(t, err)
}
