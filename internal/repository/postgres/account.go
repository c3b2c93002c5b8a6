package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/repository"
)

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (name, email, password_hash, birth_date)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, a.Name, a.Email, a.PasswordHash, a.BirthDate).Scan(&a.ID)
}

func (r *accountRepository) GetByID(ctx context.Context, id int32) (*domain.Account, error) {
	a := &domain.Account{}
	query := `SELECT id, name, email, password_hash, birth_date FROM accounts WHERE id = $1`
	var birthDate time.Time
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &birthDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.BirthDate = birthDate.Format("2006-01-02")
	return a, nil
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT id, name, email, password_hash, birth_date FROM accounts ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		var birthDate time.Time
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &birthDate); err != nil {
			return nil, err
		}
		a.BirthDate = birthDate.Format("2006-01-02")
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
