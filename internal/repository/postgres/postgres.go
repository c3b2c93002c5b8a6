// Package postgres backs the relational account API. The document-store
// repositories live in the memory and firestore packages; only accounts are
// relational.
package postgres

import (
	"database/sql"

	"relief-coordination-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.AccountRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		AccountRepository: NewAccountRepository(db),
	}
}
