package repomanager

import (
	"context"
	"database/sql"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/dbx"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/repositories/attributes"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Attributes(db dbx.DBTX) attributes.Repository
}
