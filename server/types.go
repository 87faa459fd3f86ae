package server

import (
	"time"

	"github.com/arvellum/go-session-auth/oauth"
)

type CreateSessionRequest struct {
	UserID string `json:"user_id"`
}

type CreateSessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ValidateSessionRequest struct {
	Token string `json:"token"`
}

type ValidateSessionResponse struct {
	UserID              string `json:"user_id"`
	ShouldRefreshCookie bool   `json:"should_refresh_cookie"`
}

type DeleteSessionRequest struct {
	Token string `json:"token"`
}

type DeleteSessionResponse struct{}

type StartOauthLoginRequest struct {
	Provider string `json:"provider"`
}

type StartOauthLoginResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`

	// CodeVerifier is set only for providers that use PKCE; the caller
	// holds it until the callback.
	CodeVerifier string `json:"code_verifier,omitempty"`
}

type HandleOauthCallbackRequest struct {
	Provider     string `json:"provider"`
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier,omitempty"`
}

type OauthAccountResponse struct {
	AccountID         string `json:"account_id"`
	Provider          string `json:"provider"`
	ExternalUserID    string `json:"external_user_id"`
	ExternalUserName  string `json:"external_user_name,omitempty"`
	ExternalUserEmail string `json:"external_user_email,omitempty"`
	UserID            string `json:"user_id,omitempty"`
}

type LinkOauthAccountRequest struct {
	AccountID string `json:"account_id"`
	UserID    string `json:"user_id"`
}

type LinkOauthAccountResponse struct{}

type GetOauthAccountRequest struct {
	UserID   string `json:"user_id"`
	Provider string `json:"provider"`
}

func oauthAccountResponse(account *oauth.Account) OauthAccountResponse {
	return OauthAccountResponse{
		AccountID:         account.ID,
		Provider:          account.Provider.String(),
		ExternalUserID:    account.ExternalUserID,
		ExternalUserName:  account.ExternalUserName,
		ExternalUserEmail: account.ExternalUserEmail,
		UserID:            account.UserID,
	}
}
