package users

import (
	"context"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
)

// Repository is the account store.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetCredentialsByUsername(ctx context.Context, username string) (*models.CredentialRecord, error)
	GetActiveUser(ctx context.Context, id string) (*models.User, error)
}
