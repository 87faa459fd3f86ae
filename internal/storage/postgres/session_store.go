package postgres

import (
	"context"
	"database/sql"
	"time"

	interrors "github.com/arvellum/go-session-auth/internal/errors"
	"github.com/arvellum/go-session-auth/sessions"
	"github.com/pkg/errors"
)

var _ sessions.Store = (*SessionStore)(nil)

// SessionStore persists session rows keyed by the public token id.
type SessionStore struct {
	db               *sql.DB
	insertStmt       *sql.Stmt
	getStmt          *sql.Stmt
	deleteStmt       *sql.Stmt
	updateExpiryStmt *sql.Stmt
}

// NewSessionStore prepares the session statements up front so query
// errors surface at startup rather than on the first request.
func NewSessionStore(db *sql.DB) (*SessionStore, error) {
	store := &SessionStore{db: db}

	var err error
	store.insertStmt, err = db.Prepare(`
		INSERT INTO sessions (id, secret_hash, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "[NewSessionStore] prepare insert")
	}

	store.getStmt, err = db.Prepare(`
		SELECT id, secret_hash, user_id, created_at, expires_at
		FROM sessions
		WHERE id = $1
	`)
	if err != nil {
		return nil, errors.Wrap(err, "[NewSessionStore] prepare get")
	}

	store.deleteStmt, err = db.Prepare(`DELETE FROM sessions WHERE id = $1`)
	if err != nil {
		return nil, errors.Wrap(err, "[NewSessionStore] prepare delete")
	}

	store.updateExpiryStmt, err = db.Prepare(`UPDATE sessions SET expires_at = $2 WHERE id = $1`)
	if err != nil {
		return nil, errors.Wrap(err, "[NewSessionStore] prepare update expiry")
	}

	return store, nil
}

func (s *SessionStore) Insert(ctx context.Context, session *sessions.Session) error {
	_, err := s.insertStmt.ExecContext(ctx,
		session.ID,
		session.SecretHash,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return errors.Wrap(err, "[SessionStore.Insert] exec")
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*sessions.Session, error) {
	session := &sessions.Session{}
	err := s.getStmt.QueryRowContext(ctx, id).Scan(
		&session.ID,
		&session.SecretHash,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[SessionStore.Get] query")
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.deleteStmt.ExecContext(ctx, id); err != nil {
		return errors.Wrap(err, "[SessionStore.Delete] exec")
	}
	return nil
}

func (s *SessionStore) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	if _, err := s.updateExpiryStmt.ExecContext(ctx, id, expiresAt); err != nil {
		return errors.Wrap(err, "[SessionStore.UpdateExpiry] exec")
	}
	return nil
}
