package database

import (
	"context"
	"testing"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := &models.User{Name: "Ann", Email: "ann@example.com"}
	require.NoError(t, db.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "ann@example.com", got.Email)

	exists, err := db.UserExists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.UserExists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)

	got.Name = "Anna"
	require.NoError(t, db.UpdateUser(ctx, got))
	got, err = db.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)

	require.NoError(t, db.DeleteUser(ctx, user.ID))
	_, err = db.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUser_NotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.GetUserByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "user 42")

	err = db.DeleteUser(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = db.UpdateUser(ctx, &models.User{ID: 42, Name: "x", Email: "x@example.com"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUser_EmailConflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ann := createTestUser(t, db, "ann")
	bob := createTestUser(t, db, "bob")

	err := db.CreateUser(ctx, &models.User{Name: "Other", Email: ann.Email})
	assert.ErrorIs(t, err, domain.ErrConflict)

	bob.Email = ann.Email
	err = db.UpdateUser(ctx, bob)
	assert.ErrorIs(t, err, domain.ErrConflict)

	taken, err := db.EmailTaken(ctx, ann.Email, bob.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = db.EmailTaken(ctx, ann.Email, ann.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestGetAllUsers_OrderedByID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	users, err := db.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	createTestUser(t, db, "c")
	createTestUser(t, db, "a")
	createTestUser(t, db, "b")

	users, err = db.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "c", users[0].Name)
	assert.Less(t, users[0].ID, users[1].ID)
	assert.Less(t, users[1].ID, users[2].ID)
}
