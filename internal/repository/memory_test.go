package repository

import (
	"context"
	"testing"

	"user_accounts/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryUserRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &model.User{Email: "a@x.com", PasswordHash: "hash", Subscription: model.SubscriptionStarter}
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.ID.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestMemoryUserRepository_FindAbsentReturnsNil(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	byEmail, err := repo.FindByEmail(ctx, "missing@x.com")
	assert.NoError(t, err)
	assert.Nil(t, byEmail)

	byID, err := repo.FindByID(ctx, primitive.NewObjectID())
	assert.NoError(t, err)
	assert.Nil(t, byID)
}

func TestMemoryUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Email: "a@x.com"}))
	err := repo.Create(ctx, &model.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryUserRepository_UpdateFields(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &model.User{Email: "a@x.com", Subscription: model.SubscriptionStarter}
	require.NoError(t, repo.Create(ctx, user))

	updated, err := repo.UpdateFields(ctx, user.ID, bson.M{"subscription": model.SubscriptionPro})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, model.SubscriptionPro, updated.Subscription)
	assert.Equal(t, "a@x.com", updated.Email)

	// Unknown id merges nothing and reports absence as nil
	missing, err := repo.UpdateFields(ctx, primitive.NewObjectID(), bson.M{"subscription": model.SubscriptionPro})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryUserRepository_SetToken(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := &model.User{Email: "a@x.com"}
	require.NoError(t, repo.Create(ctx, user))

	token := "sometoken"
	require.NoError(t, repo.SetToken(ctx, user.ID, &token))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Token)
	assert.Equal(t, token, *got.Token)

	require.NoError(t, repo.SetToken(ctx, user.ID, nil))
	got, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Token)
}

func TestMemoryUserRepository_ListAll(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Email: "a@x.com"}))
	require.NoError(t, repo.Create(ctx, &model.User{Email: "b@x.com"}))

	users, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
