package postgres

import (
	"context"
	"database/sql"
	"time"

	interrors "github.com/arvellum/go-session-auth/internal/errors"
	"github.com/arvellum/go-session-auth/oauth"
	"github.com/pkg/errors"
)

var _ oauth.AccountStore = (*AccountStore)(nil)

// AccountStore persists oauth account rows keyed by the
// (provider, external_user_id) pair.
type AccountStore struct {
	db             *sql.DB
	upsertStmt     *sql.Stmt
	updateLinkStmt *sql.Stmt
	getStmt        *sql.Stmt
}

func NewAccountStore(db *sql.DB) (*AccountStore, error) {
	store := &AccountStore{db: db}

	var err error
	store.upsertStmt, err = db.Prepare(`
		INSERT INTO oauth_accounts
			(id, provider, external_user_id, external_user_name, external_user_email,
			 access_token, access_token_expires_at, refresh_token, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (provider, external_user_id) DO UPDATE SET
			external_user_name = EXCLUDED.external_user_name,
			external_user_email = EXCLUDED.external_user_email,
			access_token = EXCLUDED.access_token,
			access_token_expires_at = EXCLUDED.access_token_expires_at,
			refresh_token = EXCLUDED.refresh_token,
			user_id = COALESCE(oauth_accounts.user_id, EXCLUDED.user_id)
		RETURNING id, provider, external_user_id, external_user_name, external_user_email,
			access_token, access_token_expires_at, refresh_token, user_id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "[NewAccountStore] prepare upsert")
	}

	store.updateLinkStmt, err = db.Prepare(`UPDATE oauth_accounts SET user_id = $2 WHERE id = $1`)
	if err != nil {
		return nil, errors.Wrap(err, "[NewAccountStore] prepare update link")
	}

	store.getStmt, err = db.Prepare(`
		SELECT id, provider, external_user_id, external_user_name, external_user_email,
			access_token, access_token_expires_at, refresh_token, user_id
		FROM oauth_accounts
		WHERE user_id = $1 AND provider = $2
	`)
	if err != nil {
		return nil, errors.Wrap(err, "[NewAccountStore] prepare get")
	}

	return store, nil
}

// Upsert inserts the account, or refreshes the profile and token fields
// of the existing row with the same (provider, external_user_id). An
// existing user link wins over the incoming one; the merged row is
// returned as stored.
func (s *AccountStore) Upsert(ctx context.Context, account *oauth.Account) (*oauth.Account, error) {
	row := s.upsertStmt.QueryRowContext(ctx,
		account.ID,
		account.Provider.String(),
		account.ExternalUserID,
		account.ExternalUserName,
		account.ExternalUserEmail,
		account.AccessToken,
		nullTime(account.AccessTokenExpiresAt),
		nullString(account.RefreshToken),
		nullString(account.UserID),
	)

	merged, err := scanAccount(row)
	if err != nil {
		return nil, errors.Wrap(err, "[AccountStore.Upsert] scan")
	}
	return merged, nil
}

// UpdateUserLink overwrites the user link on an existing row.
func (s *AccountStore) UpdateUserLink(ctx context.Context, accountID, userID string) error {
	result, err := s.updateLinkStmt.ExecContext(ctx, accountID, userID)
	if err != nil {
		return errors.Wrap(err, "[AccountStore.UpdateUserLink] exec")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[AccountStore.UpdateUserLink] rows affected")
	}
	if affected == 0 {
		return interrors.ErrNotFound
	}
	return nil
}

func (s *AccountStore) Get(ctx context.Context, userID string, provider oauth.Provider) (*oauth.Account, error) {
	row := s.getStmt.QueryRowContext(ctx, userID, provider.String())

	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, interrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[AccountStore.Get] scan")
	}
	return account, nil
}

func scanAccount(row *sql.Row) (*oauth.Account, error) {
	var (
		account      oauth.Account
		providerName string
		expiresAt    sql.NullTime
		refreshToken sql.NullString
		userID       sql.NullString
	)

	err := row.Scan(
		&account.ID,
		&providerName,
		&account.ExternalUserID,
		&account.ExternalUserName,
		&account.ExternalUserEmail,
		&account.AccessToken,
		&expiresAt,
		&refreshToken,
		&userID,
	)
	if err != nil {
		return nil, err
	}

	provider, err := oauth.ParseProvider(providerName)
	if err != nil {
		return nil, err
	}
	account.Provider = provider
	account.AccessTokenExpiresAt = expiresAt.Time
	account.RefreshToken = refreshToken.String
	account.UserID = userID.String

	return &account, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
