package database

import (
	"context"
	"io"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDB_ErrorPaths(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	assert.NoError(t, err)
	db.Close() // Close the DB to trigger errors

	ctx := context.Background()
	now := time.Now()

	t.Run("GetUser_NotTranslated", func(t *testing.T) {
		_, err := db.GetUserByID(ctx, 1)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("CreateUser_Error", func(t *testing.T) {
		err := db.CreateUser(ctx, &models.User{Name: "a", Email: "a@example.com"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("UserExists_Error", func(t *testing.T) {
		_, err := db.UserExists(ctx, 1)
		assert.Error(t, err)
	})

	t.Run("CreateBooking_Error", func(t *testing.T) {
		err := db.CreateBooking(ctx, &models.Booking{})
		assert.Error(t, err)
	})

	t.Run("ListBookings_Error", func(t *testing.T) {
		_, err := db.GetBookerBookings(ctx, 1, models.StateAll, now, models.Unpaged)
		assert.Error(t, err)
	})

	t.Run("LastBookingEnd_Error", func(t *testing.T) {
		_, err := db.LastBookingEnd(ctx, 1, now)
		assert.Error(t, err)
	})

	t.Run("SearchItems_Error", func(t *testing.T) {
		_, err := db.SearchAvailableItems(ctx, "x", models.Unpaged)
		assert.Error(t, err)
	})

	t.Run("GetRequests_Error", func(t *testing.T) {
		_, err := db.GetRequestsExcept(ctx, 1, models.Unpaged)
		assert.Error(t, err)
	})

	t.Run("Ready_Error", func(t *testing.T) {
		assert.Error(t, db.Ready(ctx))
	})
}
