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
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/auth"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/config"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/repositories/repomanager"
)

// UserService handles account registration and lookup.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
	dbTimeout   time.Duration
	maxBatch    int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.Hasher, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		dbTimeout:   cfg.DBTimeout,
		maxBatch:    cfg.MaxAttributeBatch,
	}
}

// Register creates an active account and its initial attributes in one
// transaction. A taken username yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, name, username, password string, attrs []models.Attribute) (*models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name and username are required", common.ErrValidation)
	}
	if len(attrs) > s.maxBatch {
		return nil, fmt.Errorf("%w: %w: %d attributes, limit %d", common.ErrValidation, common.ErrBatchTooLarge, len(attrs), s.maxBatch)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		UserName:     username,
		PasswordHash: hash,
		IsActive:     true,
	}
	rows, err := assignIDs(user.ID, attrs)
	if err != nil {
		return nil, err
	}

	ctx, cancel := dbx.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		if _, err := s.repomanager.Attributes(tx).InsertBatch(ctx, rows); err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return created, nil
}

// GetActiveUser returns an active account with its attributes. Missing and
// inactive accounts both yield common.ErrorNotFound.
func (s *UserService) GetActiveUser(ctx context.Context, id string) (*models.UserDetails, error) {
	ctx, cancel := dbx.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	u, err := s.repomanager.Users(s.db).GetActiveUser(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}

	attrs, err := s.repomanager.Attributes(s.db).ListByUser(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	for i := range attrs {
		attrs[i].UserID = ""
	}

	return &models.UserDetails{
		ID:         u.ID,
		Name:       u.Name,
		UserName:   u.UserName,
		Attributes: attrs,
	}, nil
}
