package sessions

import (
	"context"
	"time"

	interrors "github.com/arvellum/go-session-auth/internal/errors"
	"github.com/arvellum/go-session-auth/internal/random"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultTTL is the session lifetime applied when no override is
// configured.
const DefaultTTL = 7 * 24 * time.Hour

// Manager orchestrates the session lifecycle against a Store.
type Manager struct {
	store   Store
	random  random.Source
	nowTime func() time.Time
	ttl     time.Duration
	logger  zerolog.Logger
}

// ManagerOption modifies a Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithTTL overrides the session lifetime.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithLogger sets the logger used for best-effort failures.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager initializes a Manager with required dependencies.
// Optional configuration can be provided via options (e.g.,
// WithNowTime for testing).
func NewManager(store Store, randomSource random.Source, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] store is required")
	}
	if randomSource == nil {
		return nil, errors.New("[NewManager] random source is required")
	}

	m := &Manager{
		store:   store,
		random:  randomSource,
		nowTime: time.Now,
		ttl:     DefaultTTL,
		logger:  zerolog.Nop(),
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Create issues a new session for the given user and returns the wire
// token alongside the persisted record. The secret half never touches
// the store; only its hash does.
func (m *Manager) Create(ctx context.Context, userID string) (string, *Session, error) {
	id := m.random.Alphanumeric(TokenPartLength)
	secret := m.random.Alphanumeric(TokenPartLength)

	now := m.nowTime()
	session := &Session{
		ID:         id,
		SecretHash: HashSecret(secret),
		UserID:     userID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(m.ttl),
	}

	if err := m.store.Insert(ctx, session); err != nil {
		return "", nil, errors.Wrap(err, "[Manager.Create] insert session")
	}

	return FormatToken(id, secret), session, nil
}

// Validate checks a wire token and returns the owning user id and
// whether the caller should re-issue its cookie with a fresh expiry.
//
// Expiry is checked before the secret comparison so that an expired
// session is pruned regardless of secret correctness, and so a wrong
// secret on an unexpired session is not distinguishable from an
// expired one by timing.
func (m *Manager) Validate(ctx context.Context, token string) (string, bool, error) {
	id, secret, err := ParseToken(token)
	if err != nil {
		return "", false, err
	}

	session, err := m.store.Get(ctx, id)
	if err != nil {
		if interrors.Is(err, interrors.ErrNotFound) {
			return "", false, interrors.ErrSessionNotFound
		}
		return "", false, errors.Wrap(err, "[Manager.Validate] get session")
	}

	now := m.nowTime()
	if !now.Before(session.ExpiresAt) {
		if err := m.store.Delete(ctx, session.ID); err != nil {
			return "", false, errors.Wrap(err, "[Manager.Validate] delete expired session")
		}
		return "", false, interrors.ErrTokenExpired
	}

	shouldRefreshCookie := false
	if session.ExpiresAt.Sub(now) < m.ttl/2 {
		// Best-effort: a lost refresh only means a later validation
		// triggers it again. Expiry is only ever extended.
		if err := m.store.UpdateExpiry(ctx, session.ID, now.Add(m.ttl)); err != nil {
			m.logger.Warn().Err(err).Msg("session expiry refresh failed")
		}
		shouldRefreshCookie = true
	}

	if !ConstantTimeEqual(HashSecret(secret), session.SecretHash) {
		return "", false, interrors.ErrSecretMismatch
	}

	return session.UserID, shouldRefreshCookie, nil
}

// Delete removes the session named by the token. Only the id half is
// used; logout stays idempotent and does not require a valid secret.
func (m *Manager) Delete(ctx context.Context, token string) error {
	id, _, err := ParseToken(token)
	if err != nil {
		return err
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "[Manager.Delete] delete session")
	}

	return nil
}
