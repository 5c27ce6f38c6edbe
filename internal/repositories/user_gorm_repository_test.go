package repositories_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"accountd/internal/database"
	"accountd/internal/models"
	"accountd/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dir, err := os.MkdirTemp("", "accountd-repo")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	target, err := database.ParseURL("sqlite:///" + filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.MigrateUp(target))

	db, err := database.Open(context.Background(), target)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func newUser(username string) *models.User {
	return &models.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "$2a$04$placeholder",
		IsActive:       true,
	}
}

func TestGORMUserRepository_CreateAndFind(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()

	fullName := "Demo User"
	user := newUser("demo")
	user.FullName = &fullName
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "demo", byID.Username)
	require.NotNil(t, byID.FullName)
	assert.Equal(t, fullName, *byID.FullName)

	byName, err := repo.FindByUsername(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.FindByEmail(ctx, "demo@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGORMUserRepository_CreateInactiveIsStored(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()

	user := newUser("sleepy")
	user.IsActive = false
	require.NoError(t, repo.Create(ctx, user))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestGORMUserRepository_CreateDuplicate(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("demo")))

	sameUsername := newUser("demo")
	sameUsername.Email = "other@example.com"
	assert.ErrorIs(t, repo.Create(ctx, sameUsername), models.ErrConflict)

	sameEmail := newUser("other")
	sameEmail.Email = "demo@example.com"
	assert.ErrorIs(t, repo.Create(ctx, sameEmail), models.ErrConflict)

	users, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGORMUserRepository_UpdatePartial(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()

	user := newUser("alex")
	require.NoError(t, repo.Create(ctx, user))

	updated, err := repo.Update(ctx, user.ID, map[string]interface{}{"full_name": "Alex Dev"})
	require.NoError(t, err)
	require.NotNil(t, updated.FullName)
	assert.Equal(t, "Alex Dev", *updated.FullName)
	assert.Equal(t, "alex@example.com", updated.Email)
	assert.Equal(t, user.HashedPassword, updated.HashedPassword)
	assert.True(t, updated.IsActive)

	updated, err = repo.Update(ctx, user.ID, map[string]interface{}{"is_active": false})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Alex Dev", *updated.FullName)

	unchanged, err := repo.Update(ctx, user.ID, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, updated.Email, unchanged.Email)
}

func TestGORMUserRepository_UpdateMissingAndConflict(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Update(ctx, 999, map[string]interface{}{"full_name": "Nobody"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	first := newUser("first")
	second := newUser("second")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	_, err = repo.Update(ctx, second.ID, map[string]interface{}{"email": first.Email})
	assert.ErrorIs(t, err, models.ErrConflict)

	stored, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", stored.Email)
}

func TestGORMUserRepository_Delete(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()

	user := newUser("gone")
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err := repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, user.ID), models.ErrNotFound)
}

func TestGORMUserRepository_List(t *testing.T) {
	repo := repositories.NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, newUser(fmt.Sprintf("user%d", i))))
	}

	all, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}

	page, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "user1", page[0].Username)
	assert.Equal(t, "user2", page[1].Username)

	beyond, err := repo.List(ctx, 10, 5)
	require.NoError(t, err)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)
}
