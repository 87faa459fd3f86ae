package server

import (
	"net/http"

	interrors "github.com/arvellum/go-session-auth/internal/errors"
	"github.com/arvellum/go-session-auth/oauth"
)

// StartOauthLoginHandler begins a login flow: it mints the state (and,
// for PKCE providers, a code verifier) and builds the authorization
// redirect URL. The caller persists state and verifier client-side
// until the callback.
func (s *Server) StartOauthLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartOauthLoginRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, errMalformedBody)
			return
		}

		provider, client, err := s.providerClient(req.Provider)
		if err != nil {
			s.writeError(w, err)
			return
		}

		state := oauth.GenerateState(s.random)

		var verifier, challenge string
		if provider.UsesPKCE() {
			verifier = oauth.GenerateCodeVerifier(s.random)
			challenge = oauth.S256Challenge(verifier)
		}

		authURL, err := client.AuthorizationURL(state, challenge)
		if err != nil {
			s.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, StartOauthLoginResponse{
			AuthorizationURL: authURL,
			State:            state,
			CodeVerifier:     verifier,
		})
	}
}

// HandleOauthCallbackHandler completes a login flow: it exchanges the
// authorization code, verifies the provider identity, and upserts the
// account row. The state check against the caller's stored value
// happens before this endpoint is called.
func (s *Server) HandleOauthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req HandleOauthCallbackRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, errMalformedBody)
			return
		}

		_, client, err := s.providerClient(req.Provider)
		if err != nil {
			s.writeError(w, err)
			return
		}

		account, err := client.ExchangeCode(r.Context(), req.Code, req.CodeVerifier)
		s.metrics.ObserveOauthLogin(req.Provider, err)
		if err != nil {
			s.writeError(w, err)
			return
		}

		merged, err := s.accounts.Upsert(r.Context(), account)
		if err != nil {
			s.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, oauthAccountResponse(merged))
	}
}

// LinkOauthAccountHandler attaches an authenticated external account to
// an internal user, overwriting any previous link.
func (s *Server) LinkOauthAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LinkOauthAccountRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, errMalformedBody)
			return
		}

		if req.AccountID == "" {
			s.writeError(w, interrors.ErrMissingAccountID)
			return
		}
		if err := validateUserID(req.UserID); err != nil {
			s.writeError(w, err)
			return
		}

		if err := s.accounts.UpdateUserLink(r.Context(), req.AccountID, req.UserID); err != nil {
			s.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, LinkOauthAccountResponse{})
	}
}

// GetOauthAccountHandler returns the account linked to a user for a
// provider.
func (s *Server) GetOauthAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GetOauthAccountRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, errMalformedBody)
			return
		}

		if err := validateUserID(req.UserID); err != nil {
			s.writeError(w, err)
			return
		}
		provider, _, err := s.providerClient(req.Provider)
		if err != nil {
			s.writeError(w, err)
			return
		}

		account, err := s.accounts.Get(r.Context(), req.UserID, provider)
		if err != nil {
			s.writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, oauthAccountResponse(account))
	}
}
