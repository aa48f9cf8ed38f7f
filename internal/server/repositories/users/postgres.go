package users

import (
	"context"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/dbx"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO app_users (id, name, username, password_hash, is_active)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.UserName, user.PasswordHash, user.IsActive).Scan(&user.CreatedAt)

	if err != nil {
		return nil, dbx.WrapError(err)
	}

	return user, nil
}

// GetCredentialsByUsername returns common.ErrorNotFound when no account has
// that username. Inactive accounts are returned as well.
func (r *PostgresRepository) GetCredentialsByUsername(ctx context.Context, username string) (*models.CredentialRecord, error) {
	query :=
		`SELECT id, username, password_hash, is_active FROM app_users
		 WHERE username = $1
		 `

	rec := &models.CredentialRecord{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&rec.ID, &rec.UserName, &rec.PasswordHash, &rec.IsActive)

	if err != nil {
		return nil, dbx.WrapError(err)
	}

	return rec, nil
}

func (r *PostgresRepository) GetActiveUser(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, name, username, password_hash, is_active, created_at FROM app_users
		 WHERE id = $1 AND is_active = TRUE
		 `

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Name, &u.UserName, &u.PasswordHash, &u.IsActive, &u.CreatedAt)

	if err != nil {
		return nil, dbx.WrapError(err)
	}

	return u, nil
}
