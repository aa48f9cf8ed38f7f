package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/dbx"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/auth"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/config"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
	attributesrepo "github.com/mahaztechenterprise/lunar-auth-provider/internal/server/repositories/attributes"
	usersrepo "github.com/mahaztechenterprise/lunar-auth-provider/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		DBTimeout:                   time.Second,
		MaxAttributeBatch:           5,
	}
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	created   *models.User

	credsOut *models.CredentialRecord
	credsErr error
	credsFor string
	hasDL    bool

	activeOut *models.User
	activeErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetCredentialsByUsername(ctx context.Context, username string) (*models.CredentialRecord, error) {
	f.credsFor = username
	_, f.hasDL = ctx.Deadline()
	if f.credsErr != nil {
		return nil, f.credsErr
	}
	return f.credsOut, nil
}

func (f *fakeUsersRepo) GetActiveUser(ctx context.Context, id string) (*models.User, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.activeOut, nil
}

type fakeAttributesRepo struct {
	inserted  [][]models.Attribute
	insertErr error

	listOut []models.Attribute
	listErr error
}

func (f *fakeAttributesRepo) InsertBatch(ctx context.Context, attrs []models.Attribute) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, attrs)
	return int64(len(attrs)), nil
}

func (f *fakeAttributesRepo) ListByUser(ctx context.Context, userID string) ([]models.Attribute, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	a *fakeAttributesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository           { return m.u }
func (m *fakeRepoManager) Attributes(db dbx.DBTX) attributesrepo.Repository { return m.a }

// countingHasher wraps a real hasher and records how often each side runs.
type countingHasher struct {
	inner    *auth.Hasher
	hashes   int
	verifies int
}

func (c *countingHasher) Hash(p string) (string, error) {
	c.hashes++
	return c.inner.Hash(p)
}

func (c *countingHasher) Verify(p, hash string) bool {
	c.verifies++
	return c.inner.Verify(p, hash)
}
