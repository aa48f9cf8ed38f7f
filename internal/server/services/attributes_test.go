package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/common"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttributeService(t *testing.T, repo *fakeAttributesRepo) *AttributeService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	return NewAttributeService(db, &fakeRepoManager{u: &fakeUsersRepo{}, a: repo}, testConfig())
}

func TestWriteAttributes_ThreeRowsDistinctIDs(t *testing.T) {
	repo := &fakeAttributesRepo{}
	s := newAttributeService(t, repo)

	in := []models.Attribute{
		{Key: "a", Value: "1", UserID: "u1"},
		{Key: "b", Value: "2", UserID: "u1"},
		{Key: "c", Value: "3", UserID: "u1", ID: "caller-chosen"},
	}
	n, err := s.WriteAttributes(context.Background(), in)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	require.Len(t, repo.inserted, 1, "one statement per batch")
	batch := repo.inserted[0]
	require.Len(t, batch, 3)

	seen := map[string]bool{}
	for i, a := range batch {
		assert.NotEmpty(t, a.ID)
		assert.NotEqual(t, "caller-chosen", a.ID)
		assert.Equal(t, in[i].Key, a.Key)
		assert.Equal(t, "u1", a.UserID)
		seen[a.ID] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, "caller-chosen", in[2].ID, "input must not be mutated")
}

func TestWriteAttributes_Rejects(t *testing.T) {
	repo := &fakeAttributesRepo{}
	s := newAttributeService(t, repo)
	ctx := context.Background()

	_, err := s.WriteAttributes(ctx, nil)
	assert.ErrorIs(t, err, common.ErrValidation)

	big := make([]models.Attribute, 6)
	for i := range big {
		big[i] = models.Attribute{Key: "k", Value: "v", UserID: "u1"}
	}
	_, err = s.WriteAttributes(ctx, big)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorIs(t, err, common.ErrBatchTooLarge)

	_, err = s.WriteAttributes(ctx, []models.Attribute{{Key: "k", Value: "v"}})
	assert.ErrorIs(t, err, common.ErrValidation)

	assert.Empty(t, repo.inserted)
}

func TestWriteAttributes_StoreErrors(t *testing.T) {
	rows := []models.Attribute{{Key: "k", Value: "v", UserID: "u1"}}

	s := newAttributeService(t, &fakeAttributesRepo{insertErr: errors.New("db error: down")})
	_, err := s.WriteAttributes(context.Background(), rows)
	assert.ErrorIs(t, err, common.ErrStore)

	fk := fmt.Errorf("%w: user_attributes_user_id_fkey", common.ErrConstraint)
	s = newAttributeService(t, &fakeAttributesRepo{insertErr: fk})
	_, err = s.WriteAttributes(context.Background(), rows)
	assert.ErrorIs(t, err, common.ErrConstraint)
	assert.NotErrorIs(t, err, common.ErrStore)
}
