package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// PostgreSQL unique_violation.
const uniqueViolationCode = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account and returns it with the store-assigned ID and
// timestamps. A username collision surfaces as common.ErrorAlreadyExists,
// whether detected here or raced in by a concurrent insert.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (username, password_hash)
         VALUES ($1, $2)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Username, account.PasswordHash).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, password_hash, created_at, updated_at FROM accounts
		 WHERE username = $1
		 `

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&account.ID, &account.Username, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query :=
		`SELECT id, username, password_hash, created_at, updated_at FROM accounts
		 WHERE id = $1
		 `

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.Username, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}
