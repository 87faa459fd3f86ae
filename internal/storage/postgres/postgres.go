// Package postgres provides the PostgreSQL persistence layer: a
// connection opener, embedded goose migrations, and prepared-statement
// stores for sessions and oauth accounts.
package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// Open connects to PostgreSQL and verifies the connection with a ping.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[postgres.Open] open")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "[postgres.Open] ping")
	}

	return db, nil
}
