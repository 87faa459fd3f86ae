package repofakes

import (
	"context"
	"sync"

	interrors "github.com/arvellum/go-session-auth/internal/errors"
	"github.com/arvellum/go-session-auth/oauth"
)

var _ oauth.AccountStore = (*FakeAccountStore)(nil)

type accountKey struct {
	provider       oauth.Provider
	externalUserID string
}

// FakeAccountStore is an in-memory oauth.AccountStore for tests,
// implementing the same merge semantics as the Postgres store.
type FakeAccountStore struct {
	Accounts map[accountKey]*oauth.Account

	UpsertErr     error
	UpdateLinkErr error
	GetErr        error

	lock sync.Mutex
}

func NewFakeAccountStore() *FakeAccountStore {
	return &FakeAccountStore{
		Accounts: make(map[accountKey]*oauth.Account),
	}
}

func (s *FakeAccountStore) Upsert(_ context.Context, account *oauth.Account) (*oauth.Account, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.UpsertErr != nil {
		return nil, s.UpsertErr
	}

	key := accountKey{provider: account.Provider, externalUserID: account.ExternalUserID}
	existing, ok := s.Accounts[key]
	if !ok {
		cp := *account
		s.Accounts[key] = &cp
		merged := cp
		return &merged, nil
	}

	existing.ExternalUserName = account.ExternalUserName
	existing.ExternalUserEmail = account.ExternalUserEmail
	existing.AccessToken = account.AccessToken
	existing.AccessTokenExpiresAt = account.AccessTokenExpiresAt
	existing.RefreshToken = account.RefreshToken
	if existing.UserID == "" {
		existing.UserID = account.UserID
	}

	merged := *existing
	return &merged, nil
}

func (s *FakeAccountStore) UpdateUserLink(_ context.Context, accountID, userID string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.UpdateLinkErr != nil {
		return s.UpdateLinkErr
	}

	for _, account := range s.Accounts {
		if account.ID == accountID {
			account.UserID = userID
			return nil
		}
	}
	return interrors.ErrNotFound
}

func (s *FakeAccountStore) Get(_ context.Context, userID string, provider oauth.Provider) (*oauth.Account, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.GetErr != nil {
		return nil, s.GetErr
	}

	for _, account := range s.Accounts {
		if account.UserID == userID && account.Provider == provider {
			cp := *account
			return &cp, nil
		}
	}
	return nil, interrors.ErrNotFound
}
