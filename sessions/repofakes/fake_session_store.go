package repofakes

import (
	"context"
	"sync"
	"time"

	interrors "github.com/arvellum/go-session-auth/internal/errors"
	"github.com/arvellum/go-session-auth/sessions"
)

var _ sessions.Store = (*FakeSessionStore)(nil)

// FakeSessionStore is an in-memory sessions.Store for tests. Each
// operation can be forced to fail via the corresponding error field,
// and call counts are recorded for asserting best-effort behavior.
type FakeSessionStore struct {
	Sessions map[string]*sessions.Session

	InsertErr       error
	GetErr          error
	DeleteErr       error
	UpdateExpiryErr error

	InsertCalls       int
	DeleteCalls       int
	UpdateExpiryCalls int

	lock sync.Mutex
}

func NewFakeSessionStore() *FakeSessionStore {
	return &FakeSessionStore{
		Sessions: make(map[string]*sessions.Session),
	}
}

func (s *FakeSessionStore) Insert(_ context.Context, session *sessions.Session) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.InsertCalls++
	if s.InsertErr != nil {
		return s.InsertErr
	}

	cp := *session
	s.Sessions[session.ID] = &cp
	return nil
}

func (s *FakeSessionStore) Get(_ context.Context, id string) (*sessions.Session, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.GetErr != nil {
		return nil, s.GetErr
	}

	session, ok := s.Sessions[id]
	if !ok {
		return nil, interrors.ErrNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *FakeSessionStore) Delete(_ context.Context, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.DeleteCalls++
	if s.DeleteErr != nil {
		return s.DeleteErr
	}

	delete(s.Sessions, id)
	return nil
}

func (s *FakeSessionStore) UpdateExpiry(_ context.Context, id string, expiresAt time.Time) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.UpdateExpiryCalls++
	if s.UpdateExpiryErr != nil {
		return s.UpdateExpiryErr
	}

	session, ok := s.Sessions[id]
	if !ok {
		return interrors.ErrNotFound
	}
	session.ExpiresAt = expiresAt
	return nil
}
