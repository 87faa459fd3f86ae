package oauth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// JWKS is a provider-published JSON Web Key Set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK is a single RSA public key from a key set.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Kid string `json:"kid,omitempty"`
	Alg string `json:"alg,omitempty"`
	N   string `json:"n,omitempty"`
	E   string `json:"e,omitempty"`
}

// RSAPublicKey reconstructs the rsa.PublicKey from the base64url
// modulus and exponent components.
func (k JWK) RSAPublicKey() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, errors.Wrap(err, "[JWK.RSAPublicKey] decode modulus")
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, errors.Wrap(err, "[JWK.RSAPublicKey] decode exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}

// idTokenClaims are the OIDC claims this service consumes from a
// verified ID token.
type idTokenClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
}

// verifyIDToken checks an OIDC ID token against the provider's JWKS:
// the key is selected by the kid from the unverified header, the
// signature must be RS256, and the audience must equal the client id.
func verifyIDToken(ctx context.Context, client *http.Client, jwksURL, rawToken, clientID string) (*idTokenClaims, error) {
	unverified, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return nil, errors.Wrapf(ErrTokenVerification, "parse header: %v", err)
	}

	kid, ok := unverified.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, ErrMissingKID
	}

	jwks, err := fetchJWKS(ctx, client, jwksURL)
	if err != nil {
		return nil, err
	}

	var key *JWK
	for i := range jwks.Keys {
		if jwks.Keys[i].Kid == kid {
			key = &jwks.Keys[i]
			break
		}
	}
	if key == nil {
		return nil, ErrNoMatchingJWKS
	}

	publicKey, err := key.RSAPublicKey()
	if err != nil {
		return nil, err
	}

	claims := &idTokenClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(clientID),
		jwt.WithExpirationRequired(),
	)
	if _, err := parser.ParseWithClaims(rawToken, claims, func(*jwt.Token) (interface{}, error) {
		return publicKey, nil
	}); err != nil {
		return nil, errors.Wrapf(ErrTokenVerification, "verify: %v", err)
	}

	return claims, nil
}

func fetchJWKS(ctx context.Context, client *http.Client, jwksURL string) (*JWKS, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[fetchJWKS] build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[fetchJWKS] fetch key set")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrUnexpectedStatus, "jwks endpoint returned %d", resp.StatusCode)
	}

	jwks := &JWKS{}
	if err := json.NewDecoder(resp.Body).Decode(jwks); err != nil {
		return nil, errors.Wrap(err, "[fetchJWKS] decode key set")
	}

	return jwks, nil
}
