package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/common"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/auth"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}, a: &fakeAttributesRepo{}}
	hasher := auth.NewHasher(bcrypt.MinCost)
	s := NewUserService(db, rm, hasher, testConfig())

	u, err := s.Register(context.Background(), "Alice", "alice", "pw", []models.Attribute{
		{Key: "color", Value: "blue"},
		{Key: "size", Value: "L", UserID: "someone-else"},
	})
	require.NoError(t, err)

	_, err = uuid.Parse(u.ID)
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.True(t, hasher.Verify("pw", u.PasswordHash))

	require.Len(t, rm.a.inserted, 1)
	for _, a := range rm.a.inserted[0] {
		assert.Equal(t, u.ID, a.UserID)
		assert.NotEmpty(t, a.ID)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_DuplicateRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	dup := fmt.Errorf("%w: app_users_username_key", common.ErrAlreadyExists)
	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: dup}, a: &fakeAttributesRepo{}}
	s := NewUserService(db, rm, auth.NewHasher(bcrypt.MinCost), testConfig())

	_, err := s.Register(context.Background(), "Alice", "alice", "pw", nil)
	require.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.NotErrorIs(t, err, common.ErrStore)
	assert.Empty(t, rm.a.inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_AttributeFailureRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}, a: &fakeAttributesRepo{insertErr: errors.New("db error: boom")}}
	s := NewUserService(db, rm, auth.NewHasher(bcrypt.MinCost), testConfig())

	_, err := s.Register(context.Background(), "Alice", "alice", "pw", []models.Attribute{{Key: "k", Value: "v"}})
	require.ErrorIs(t, err, common.ErrStore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, a: &fakeAttributesRepo{}}
	s := NewUserService(db, rm, auth.NewHasher(bcrypt.MinCost), testConfig())
	ctx := context.Background()

	_, err := s.Register(ctx, "", "alice", "pw", nil)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Register(ctx, "Alice", "alice", "", nil)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Register(ctx, "Alice", "alice", "pw", []models.Attribute{{Key: " ", Value: "v"}})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Register(ctx, "Alice", "alice", "pw", make([]models.Attribute, 6))
	assert.ErrorIs(t, err, common.ErrBatchTooLarge)

	assert.Nil(t, rm.u.created, "nothing may reach the store")
}

func TestGetActiveUser(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{activeOut: &models.User{ID: "u1", Name: "Alice", UserName: "alice", PasswordHash: "h", IsActive: true}},
		a: &fakeAttributesRepo{listOut: []models.Attribute{{ID: "a1", UserID: "u1", Key: "color", Value: "blue"}}},
	}
	s := NewUserService(db, rm, auth.NewHasher(bcrypt.MinCost), testConfig())

	got, err := s.GetActiveUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, &models.UserDetails{
		ID:         "u1",
		Name:       "Alice",
		UserName:   "alice",
		Attributes: []models.Attribute{{ID: "a1", Key: "color", Value: "blue"}},
	}, got)
}

func TestGetActiveUser_Errors(t *testing.T) {
	db, _ := newSQLMockDB(t)

	rm := &fakeRepoManager{u: &fakeUsersRepo{activeErr: common.ErrorNotFound}, a: &fakeAttributesRepo{}}
	s := NewUserService(db, rm, auth.NewHasher(bcrypt.MinCost), testConfig())
	_, err := s.GetActiveUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	rm.u.activeErr = nil
	rm.u.activeOut = &models.User{ID: "u1"}
	rm.a.listErr = errors.New("db error: timeout")
	_, err = s.GetActiveUser(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrStore)
}
