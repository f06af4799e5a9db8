package repository

import (
	"context"
	"testing"

	"myarc/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := GetUserRepo(db)
	ctx := context.Background()

	user := &model.User{Name: "Sam", Email: " Sam@Example.com ", Password: "hash", ThemePreference: model.DefaultTheme}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, "sam@example.com", user.Email)

	assert.ErrorIs(t, repo.Create(ctx, &model.User{Name: "Dup", Email: "sam@example.com"}), ErrDuplicate)

	t.Run("find", func(t *testing.T) {
		byEmail, err := repo.FindByEmail(ctx, "SAM@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		_, err = repo.FindByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("UpdateProfile only touches given fields", func(t *testing.T) {
		focus := "Consistency"
		updated, err := repo.UpdateProfile(ctx, user.ID, model.ProfileUpdate{CurrentFocus: &focus})
		require.NoError(t, err)
		assert.Equal(t, "Consistency", updated.CurrentFocus)
		assert.Equal(t, "Sam", updated.Name)
		assert.Equal(t, model.DefaultTheme, updated.ThemePreference)
	})

	t.Run("SetPIN", func(t *testing.T) {
		require.NoError(t, repo.SetPIN(ctx, user.ID, "pinhash"))
		got, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, got.HasPIN())
		assert.ErrorIs(t, repo.SetPIN(ctx, primitive.NewObjectID(), "x"), ErrNotFound)
	})

	t.Run("categories", func(t *testing.T) {
		require.NoError(t, repo.AddCategory(ctx, user.ID, "Books"))
		assert.ErrorIs(t, repo.AddCategory(ctx, user.ID, "books"), ErrDuplicate)
		assert.ErrorIs(t, repo.AddCategory(ctx, primitive.NewObjectID(), "Books"), ErrNotFound)

		got, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Books"}, got.ShortsCategories)

		require.NoError(t, repo.RemoveCategory(ctx, user.ID, "Books"))
		got, err = repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, got.ShortsCategories)
	})
}
