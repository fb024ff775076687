package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/stakr/internal/dbx"
	"github.com/dmitrijs2005/stakr/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either a pool or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
