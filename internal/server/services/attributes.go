package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/common"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/dbx"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/config"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/repositories/repomanager"
)

// AttributeService writes attribute batches.
type AttributeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	dbTimeout   time.Duration
	maxBatch    int
}

func NewAttributeService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AttributeService {
	return &AttributeService{
		db:          db,
		repomanager: m,
		dbTimeout:   cfg.DBTimeout,
		maxBatch:    cfg.MaxAttributeBatch,
	}
}

// WriteAttributes inserts rows with a single statement and returns how many
// were written. Every row gets a fresh id; ids set by the caller are ignored.
//
// Batches larger than the configured limit are rejected with
// common.ErrBatchTooLarge rather than truncated. A store failure writes
// nothing.
func (s *AttributeService) WriteAttributes(ctx context.Context, rows []models.Attribute) (int64, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: empty attribute batch", common.ErrValidation)
	}
	if len(rows) > s.maxBatch {
		return 0, fmt.Errorf("%w: %w: %d attributes, limit %d", common.ErrValidation, common.ErrBatchTooLarge, len(rows), s.maxBatch)
	}

	batch, err := assignIDs("", rows)
	if err != nil {
		return 0, err
	}

	ctx, cancel := dbx.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	n, err := s.repomanager.Attributes(s.db).InsertBatch(ctx, batch)
	if err != nil {
		return 0, storeError(err)
	}
	return n, nil
}

// assignIDs copies rows with new ids. A non-empty owner overrides the
// rows' user id.
func assignIDs(owner string, rows []models.Attribute) ([]models.Attribute, error) {
	out := make([]models.Attribute, len(rows))
	for i, r := range rows {
		if owner != "" {
			r.UserID = owner
		}
		if strings.TrimSpace(r.Key) == "" || r.UserID == "" {
			return nil, fmt.Errorf("%w: attribute %d needs key and user_id", common.ErrValidation, i)
		}
		r.ID = uuid.NewString()
		out[i] = r
	}
	return out, nil
}
