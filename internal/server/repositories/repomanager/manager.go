package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/accounts"
)

// RepositoryManager vends repositories bound to a DBTX (a *sql.DB or a
// *sql.Tx), so services can run several repository calls inside one
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
