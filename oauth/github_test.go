package oauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arvellum/go-session-auth/internal/random/randomfakes"
	"github.com/arvellum/go-session-auth/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type githubFixture struct {
	client *oauth.GithubClient

	gotUserAgent  string
	gotAuthHeader string
}

func newGithubFixture(t *testing.T, user map[string]any, emails []map[string]any) *githubFixture {
	t.Helper()

	f := &githubFixture{}

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"access_token": "gho_testtoken",
			"token_type":   "bearer",
		}))
	}))
	t.Cleanup(tokenSrv.Close)

	userSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.gotUserAgent = r.Header.Get("User-Agent")
		f.gotAuthHeader = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(user))
	}))
	t.Cleanup(userSrv.Close)

	emailsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(emails))
	}))
	t.Cleanup(emailsSrv.Close)

	rnd := randomfakes.NewFakeSource()
	rnd.UUIDValue = fixtureUUID

	f.client = oauth.NewGithub("github-client", "github-secret", "https://example.com/callback/github", rnd,
		oauth.WithGithubEndpoints("https://github.com/login/oauth/authorize", tokenSrv.URL, userSrv.URL, emailsSrv.URL),
	)

	return f
}

func TestGithubExchangeCode(t *testing.T) {
	t.Run("public_email", func(t *testing.T) {
		f := newGithubFixture(t, map[string]any{
			"id":    int64(583231),
			"login": "octocat",
			"name":  "Mona Lisa",
			"email": "mona@example.com",
		}, nil)

		account, err := f.client.ExchangeCode(context.Background(), "auth-code", "")
		require.NoError(t, err)

		assert.Equal(t, fixtureUUID, account.ID)
		assert.Equal(t, oauth.ProviderGithub, account.Provider)
		assert.Equal(t, "583231", account.ExternalUserID)
		assert.Equal(t, "Mona Lisa", account.ExternalUserName)
		assert.Equal(t, "mona@example.com", account.ExternalUserEmail)

		assert.Equal(t, "Bearer gho_testtoken", f.gotAuthHeader)
		assert.NotEmpty(t, f.gotUserAgent)
	})

	t.Run("name_falls_back_to_login", func(t *testing.T) {
		f := newGithubFixture(t, map[string]any{
			"id":    int64(583231),
			"login": "octocat",
			"name":  nil,
			"email": "mona@example.com",
		}, nil)

		account, err := f.client.ExchangeCode(context.Background(), "auth-code", "")
		require.NoError(t, err)
		assert.Equal(t, "octocat", account.ExternalUserName)
	})

	t.Run("private_email_resolved_from_emails_endpoint", func(t *testing.T) {
		f := newGithubFixture(t, map[string]any{
			"id":    int64(583231),
			"login": "octocat",
		}, []map[string]any{
			{"email": "secondary@example.com", "primary": false},
			{"email": "primary@example.com", "primary": true},
		})

		account, err := f.client.ExchangeCode(context.Background(), "auth-code", "")
		require.NoError(t, err)
		assert.Equal(t, "primary@example.com", account.ExternalUserEmail)
	})

	t.Run("no_primary_email", func(t *testing.T) {
		f := newGithubFixture(t, map[string]any{
			"id":    int64(583231),
			"login": "octocat",
		}, []map[string]any{
			{"email": "secondary@example.com", "primary": false},
		})

		_, err := f.client.ExchangeCode(context.Background(), "auth-code", "")
		assert.ErrorIs(t, err, oauth.ErrMissingEmail)
	})

	t.Run("token_endpoint_failure", func(t *testing.T) {
		broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		t.Cleanup(broken.Close)

		client := oauth.NewGithub("github-client", "github-secret", "https://example.com/callback/github", randomfakes.NewFakeSource(),
			oauth.WithGithubEndpoints("https://github.com/login/oauth/authorize", broken.URL, broken.URL, broken.URL),
		)

		_, err := client.ExchangeCode(context.Background(), "auth-code", "")
		assert.ErrorIs(t, err, oauth.ErrExchange)
	})

	t.Run("user_endpoint_failure", func(t *testing.T) {
		brokenUser := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		t.Cleanup(brokenUser.Close)

		tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
				"access_token": "gho_testtoken",
				"token_type":   "bearer",
			}))
		}))
		t.Cleanup(tokenSrv.Close)

		client := oauth.NewGithub("github-client", "github-secret", "https://example.com/callback/github", randomfakes.NewFakeSource(),
			oauth.WithGithubEndpoints("https://github.com/login/oauth/authorize", tokenSrv.URL, brokenUser.URL, brokenUser.URL),
		)

		_, err := client.ExchangeCode(context.Background(), "auth-code", "")
		assert.ErrorIs(t, err, oauth.ErrUnexpectedStatus)
	})
}
