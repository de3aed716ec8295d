package repository

import (
	"context"
	"testing"

	"gavel/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	t.Run("lookup by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.FirstName)
	})

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "Ada@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("email exists", func(t *testing.T) {
		exists, err := repo.EmailExists(ctx, "ADA@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.EmailExists(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
