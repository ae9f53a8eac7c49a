package database

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createTestItem(t *testing.T, db *DB, owner *models.User, name string, available bool) *models.Item {
	t.Helper()
	item := &models.Item{Name: name, Description: name + " description", Available: available, Owner: *owner}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func createTestBooking(
	t *testing.T,
	db *DB,
	booker *models.User,
	item *models.Item,
	start, end time.Time,
	status models.BookingStatus,
) *models.Booking {
	t.Helper()
	b := &models.Booking{Start: start, End: end, Status: status, Booker: *booker, Item: *item}
	require.NoError(t, db.CreateBooking(context.Background(), b))
	return b
}

func TestNewDB_DirectoryCreation(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "nested", "dir", "test.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)
}

func TestNewDB_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "twice.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	createTestUser(t, db, "ann")
	require.NoError(t, db.Close())

	db, err = NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	users, err := db.GetAllUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestNewDB_BadPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	logger := zerolog.Nop()

	_, err := NewDB(filepath.Join(file, "sub", "db.sqlite"), &logger)
	assert.Error(t, err)
}

func TestDB_Ready(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.Ready(context.Background()))
}

func TestDeleteUser_Cascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	booker := createTestUser(t, db, "booker")
	item := createTestItem(t, db, owner, "drill", true)
	now := time.Now().UTC()
	b := createTestBooking(t, db, booker, item, now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StatusApproved)
	require.NoError(t, db.CreateComment(ctx, &models.Comment{Text: "ok", ItemID: item.ID, Author: *booker}))
	require.NoError(t, db.CreateRequest(ctx, &models.ItemRequest{Description: "saw", Requester: *owner}))

	require.NoError(t, db.DeleteUser(ctx, owner.ID))

	_, err := db.GetItemByID(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = db.GetBooking(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	comments, err := db.GetCommentsByItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	reqs, err := db.GetRequestsByRequester(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, reqs)

	// the booker survives
	_, err = db.GetUserByID(ctx, booker.ID)
	assert.NoError(t, err)
}

func TestTimeRoundTrip(t *testing.T) {
	in := time.Date(2025, 3, 4, 5, 6, 7, 890, time.FixedZone("X", 3*3600))
	out, err := parseTime(formatTime(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	assert.Equal(t, time.UTC, out.Location())

	_, err = parseTime("not a time")
	assert.Error(t, err)
}
