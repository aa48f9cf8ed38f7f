package attributes

import (
	"context"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
)

// Repository stores account attributes.
type Repository interface {
	InsertBatch(ctx context.Context, attrs []models.Attribute) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]models.Attribute, error)
}
