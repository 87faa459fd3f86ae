package oauthfakes

import (
	"context"
	"sync"

	"github.com/arvellum/go-session-auth/oauth"
)

var _ oauth.Client = (*FakeClient)(nil)

// FakeClient is a canned oauth.Client for handler tests. It records
// the arguments it was called with and returns the configured results.
type FakeClient struct {
	AuthorizationURLResult string
	AuthorizationURLErr    error
	ExchangeCodeResult     *oauth.Account
	ExchangeCodeErr        error

	GotState         string
	GotCodeChallenge string
	GotCode          string
	GotCodeVerifier  string

	lock sync.Mutex
}

func (c *FakeClient) AuthorizationURL(state, codeChallenge string) (string, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.GotState = state
	c.GotCodeChallenge = codeChallenge
	if c.AuthorizationURLErr != nil {
		return "", c.AuthorizationURLErr
	}
	return c.AuthorizationURLResult, nil
}

func (c *FakeClient) ExchangeCode(_ context.Context, code, codeVerifier string) (*oauth.Account, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.GotCode = code
	c.GotCodeVerifier = codeVerifier
	if c.ExchangeCodeErr != nil {
		return nil, c.ExchangeCodeErr
	}
	cp := *c.ExchangeCodeResult
	return &cp, nil
}
