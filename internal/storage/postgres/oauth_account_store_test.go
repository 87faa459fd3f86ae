package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	interrors "github.com/arvellum/go-session-auth/internal/errors"
	"github.com/arvellum/go-session-auth/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountColumns = []string{
	"id", "provider", "external_user_id", "external_user_name", "external_user_email",
	"access_token", "access_token_expires_at", "refresh_token", "user_id",
}

func setupAccountStoreMocks(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare("INSERT INTO oauth_accounts")
	mock.ExpectPrepare("UPDATE oauth_accounts SET user_id")
	mock.ExpectPrepare("SELECT (.+) FROM oauth_accounts")
}

func newAccountStore(t *testing.T) (*AccountStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	setupAccountStoreMocks(mock)

	store, err := NewAccountStore(db)
	require.NoError(t, err)

	return store, mock
}

func TestAccountStoreUpsert(t *testing.T) {
	expiry := time.Now().Add(time.Hour).UTC()
	account := &oauth.Account{
		ID:                   "11111111-2222-3333-4444-555555555555",
		Provider:             oauth.ProviderGoogle,
		ExternalUserID:       "google-user-1",
		ExternalUserName:     "Jane Doe",
		ExternalUserEmail:    "jane@example.com",
		AccessToken:          "access-token",
		AccessTokenExpiresAt: expiry,
	}

	t.Run("returns_merged_row", func(t *testing.T) {
		store, mock := newAccountStore(t)

		// The database already holds a user link; the merged row keeps
		// it even though the incoming account has none.
		rows := sqlmock.NewRows(accountColumns).AddRow(
			"99999999-8888-7777-6666-555555555555", "google", "google-user-1",
			"Jane Doe", "jane@example.com", "access-token", expiry, nil,
			"550e8400-e29b-41d4-a716-446655440000",
		)

		mock.ExpectQuery("INSERT INTO oauth_accounts").
			WithArgs(
				account.ID, "google", account.ExternalUserID,
				account.ExternalUserName, account.ExternalUserEmail,
				account.AccessToken, sql.NullTime{Time: expiry, Valid: true},
				sql.NullString{}, sql.NullString{},
			).
			WillReturnRows(rows)

		merged, err := store.Upsert(context.Background(), account)
		require.NoError(t, err)
		assert.Equal(t, "99999999-8888-7777-6666-555555555555", merged.ID)
		assert.Equal(t, oauth.ProviderGoogle, merged.Provider)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", merged.UserID)
		assert.Empty(t, merged.RefreshToken)
	})

	t.Run("database_error", func(t *testing.T) {
		store, mock := newAccountStore(t)

		mock.ExpectQuery("INSERT INTO oauth_accounts").WillReturnError(errors.New("connection lost"))

		_, err := store.Upsert(context.Background(), account)
		assert.Error(t, err)
	})
}

func TestAccountStoreUpdateUserLink(t *testing.T) {
	t.Run("updates_row", func(t *testing.T) {
		store, mock := newAccountStore(t)

		mock.ExpectExec("UPDATE oauth_accounts SET user_id").
			WithArgs("11111111-2222-3333-4444-555555555555", "550e8400-e29b-41d4-a716-446655440000").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.UpdateUserLink(context.Background(),
			"11111111-2222-3333-4444-555555555555",
			"550e8400-e29b-41d4-a716-446655440000")
		require.NoError(t, err)
	})

	t.Run("missing_account", func(t *testing.T) {
		store, mock := newAccountStore(t)

		mock.ExpectExec("UPDATE oauth_accounts SET user_id").
			WithArgs("missing", "550e8400-e29b-41d4-a716-446655440000").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.UpdateUserLink(context.Background(), "missing", "550e8400-e29b-41d4-a716-446655440000")
		assert.ErrorIs(t, err, interrors.ErrNotFound)
	})
}

func TestAccountStoreGet(t *testing.T) {
	t.Run("returns_row", func(t *testing.T) {
		store, mock := newAccountStore(t)

		rows := sqlmock.NewRows(accountColumns).AddRow(
			"11111111-2222-3333-4444-555555555555", "github", "583231",
			"Mona Lisa", "mona@example.com", "gho_token", nil, nil,
			"550e8400-e29b-41d4-a716-446655440000",
		)

		mock.ExpectQuery("SELECT (.+) FROM oauth_accounts").
			WithArgs("550e8400-e29b-41d4-a716-446655440000", "github").
			WillReturnRows(rows)

		account, err := store.Get(context.Background(), "550e8400-e29b-41d4-a716-446655440000", oauth.ProviderGithub)
		require.NoError(t, err)
		assert.Equal(t, oauth.ProviderGithub, account.Provider)
		assert.Equal(t, "583231", account.ExternalUserID)
		assert.True(t, account.AccessTokenExpiresAt.IsZero())
	})

	t.Run("not_found", func(t *testing.T) {
		store, mock := newAccountStore(t)

		mock.ExpectQuery("SELECT (.+) FROM oauth_accounts").
			WithArgs("550e8400-e29b-41d4-a716-446655440000", "google").
			WillReturnRows(sqlmock.NewRows(accountColumns))

		_, err := store.Get(context.Background(), "550e8400-e29b-41d4-a716-446655440000", oauth.ProviderGoogle)
		assert.ErrorIs(t, err, interrors.ErrNotFound)
	})
}
