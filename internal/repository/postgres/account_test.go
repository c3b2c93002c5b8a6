package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relief-coordination-backend/internal/domain"
)

func TestAccountCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs("Ana", "ana@test.com", "hashed", "1990-05-01").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	a := &domain.Account{Name: "Ana", Email: "ana@test.com", PasswordHash: "hashed", BirthDate: "1990-05-01"}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, int32(3), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)
	birth := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, email, password_hash, birth_date FROM accounts WHERE id").
			WithArgs(int32(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "birth_date"}).
				AddRow(3, "Ana", "ana@test.com", "hashed", birth))

		a, err := repo.GetByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, "Ana", a.Name)
		assert.Equal(t, "1990-05-01", a.BirthDate)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, email, password_hash, birth_date FROM accounts WHERE id").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "birth_date"}))

		_, err := repo.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)
	birth := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, name, email, password_hash, birth_date FROM accounts ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "birth_date"}).
			AddRow(1, "Ana", "ana@test.com", "h1", birth).
			AddRow(2, "Bruno", "bruno@test.com", "h2", birth))

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Bruno", accounts[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
