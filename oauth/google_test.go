package oauth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arvellum/go-session-auth/internal/random/randomfakes"
	"github.com/arvellum/go-session-auth/oauth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	googleClientID = "google-client"
	testKID        = "test-key-1"
	fixtureUUID    = "11111111-2222-3333-4444-555555555555"
)

type googleFixture struct {
	key     *rsa.PrivateKey
	jwks    *httptest.Server
	token   *httptest.Server
	client  *oauth.GoogleClient
	idToken string

	gotBasicUser string
	gotVerifier  string
	gotCode      string
}

// newGoogleFixture wires a GoogleClient against httptest token and
// JWKS endpoints. mutateClaims can rewrite the ID token claims before
// signing; mutateResponse can rewrite the token endpoint JSON.
func newGoogleFixture(t *testing.T, mutateClaims func(jwt.MapClaims), mutateResponse func(map[string]any), signOpts ...func(*jwt.Token)) *googleFixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := &googleFixture{key: key}

	claims := jwt.MapClaims{
		"sub":   "google-user-1",
		"aud":   googleClientID,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"name":  "Jane Doe",
		"email": "jane@example.com",
	}
	if mutateClaims != nil {
		mutateClaims(claims)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKID
	for _, opt := range signOpts {
		opt(token)
	}
	f.idToken, err = token.SignedString(key)
	require.NoError(t, err)

	f.jwks = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jwks := oauth.JWKS{Keys: []oauth.JWK{{
			Kty: "RSA",
			Kid: testKID,
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}}
		require.NoError(t, json.NewEncoder(w).Encode(jwks))
	}))
	t.Cleanup(f.jwks.Close)

	f.token = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.gotBasicUser, _, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		f.gotCode = r.PostFormValue("code")
		f.gotVerifier = r.PostFormValue("code_verifier")

		resp := map[string]any{
			"access_token": "google-access-token",
			"token_type":   "Bearer",
			"id_token":     f.idToken,
		}
		if mutateResponse != nil {
			mutateResponse(resp)
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(f.token.Close)

	rnd := randomfakes.NewFakeSource()
	rnd.UUIDValue = fixtureUUID

	f.client = oauth.NewGoogle(googleClientID, "google-secret", "https://example.com/callback/google", rnd,
		oauth.WithGoogleEndpoints("https://accounts.google.com/o/oauth2/v2/auth", f.token.URL, f.jwks.URL),
	)

	return f
}

func TestGoogleExchangeCode(t *testing.T) {
	t.Run("happy_path", func(t *testing.T) {
		f := newGoogleFixture(t, nil, nil)

		account, err := f.client.ExchangeCode(context.Background(), "auth-code", rfcCodeVerifier)
		require.NoError(t, err)

		assert.Equal(t, fixtureUUID, account.ID)
		assert.Equal(t, oauth.ProviderGoogle, account.Provider)
		assert.Equal(t, "google-user-1", account.ExternalUserID)
		assert.Equal(t, "Jane Doe", account.ExternalUserName)
		assert.Equal(t, "jane@example.com", account.ExternalUserEmail)
		assert.Empty(t, account.UserID)

		assert.Equal(t, googleClientID, f.gotBasicUser)
		assert.Equal(t, "auth-code", f.gotCode)
		assert.Equal(t, rfcCodeVerifier, f.gotVerifier)
	})

	t.Run("missing_id_token", func(t *testing.T) {
		f := newGoogleFixture(t, nil, func(resp map[string]any) {
			delete(resp, "id_token")
		})

		_, err := f.client.ExchangeCode(context.Background(), "auth-code", rfcCodeVerifier)
		assert.ErrorIs(t, err, oauth.ErrMissingIDToken)
	})

	t.Run("missing_kid", func(t *testing.T) {
		f := newGoogleFixture(t, nil, nil, func(token *jwt.Token) {
			delete(token.Header, "kid")
		})

		_, err := f.client.ExchangeCode(context.Background(), "auth-code", rfcCodeVerifier)
		assert.ErrorIs(t, err, oauth.ErrMissingKID)
	})

	t.Run("no_matching_jwks_key", func(t *testing.T) {
		f := newGoogleFixture(t, nil, nil, func(token *jwt.Token) {
			token.Header["kid"] = "unknown-key"
		})

		_, err := f.client.ExchangeCode(context.Background(), "auth-code", rfcCodeVerifier)
		assert.ErrorIs(t, err, oauth.ErrNoMatchingJWKS)
	})

	t.Run("wrong_audience", func(t *testing.T) {
		f := newGoogleFixture(t, func(claims jwt.MapClaims) {
			claims["aud"] = "some-other-client"
		}, nil)

		_, err := f.client.ExchangeCode(context.Background(), "auth-code", rfcCodeVerifier)
		assert.ErrorIs(t, err, oauth.ErrTokenVerification)
	})

	t.Run("expired_id_token", func(t *testing.T) {
		f := newGoogleFixture(t, func(claims jwt.MapClaims) {
			claims["exp"] = time.Now().Add(-time.Hour).Unix()
		}, nil)

		_, err := f.client.ExchangeCode(context.Background(), "auth-code", rfcCodeVerifier)
		assert.ErrorIs(t, err, oauth.ErrTokenVerification)
	})

	t.Run("bad_signature", func(t *testing.T) {
		otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		f := newGoogleFixture(t, nil, nil)

		// Re-sign the same claims with a key the JWKS does not hold,
		// keeping the advertised kid.
		forged := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"sub": "google-user-1",
			"aud": googleClientID,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		forged.Header["kid"] = testKID
		f.idToken, err = forged.SignedString(otherKey)
		require.NoError(t, err)

		_, err = f.client.ExchangeCode(context.Background(), "auth-code", rfcCodeVerifier)
		assert.ErrorIs(t, err, oauth.ErrTokenVerification)
	})

	t.Run("token_endpoint_failure", func(t *testing.T) {
		broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		t.Cleanup(broken.Close)

		client := oauth.NewGoogle(googleClientID, "google-secret", "https://example.com/callback/google", randomfakes.NewFakeSource(),
			oauth.WithGoogleEndpoints("https://accounts.google.com/o/oauth2/v2/auth", broken.URL, broken.URL),
		)

		_, err := client.ExchangeCode(context.Background(), "auth-code", rfcCodeVerifier)
		assert.ErrorIs(t, err, oauth.ErrExchange)
	})
}
