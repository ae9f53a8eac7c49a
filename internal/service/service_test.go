package service

import (
	"context"
	"io"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type testEnv struct {
	db        *database.DB
	now       time.Time
	bus       *events.EventBus
	validator *Validator
	bookings  *BookingService
	users     *UserService
	items     *ItemService
	requests  *RequestService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := fixedClock{t: time.Now().UTC().Truncate(time.Second)}
	bus := events.NewEventBus()
	validator := NewValidator(db, db, db, db, clock)
	bookings := NewBookingService(db, db, validator, bus, clock, &logger)

	return &testEnv{
		db:        db,
		now:       clock.t,
		bus:       bus,
		validator: validator,
		bookings:  bookings,
		users:     NewUserService(db, &logger),
		items:     NewItemService(db, db, db, bookings, validator, &logger),
		requests:  NewRequestService(db, db, validator, &logger),
	}
}

func (e *testEnv) user(t *testing.T, name string) int64 {
	t.Helper()
	v, err := e.users.Create(context.Background(), name, name+"@example.com")
	require.NoError(t, err)
	return v.ID
}

func (e *testEnv) item(t *testing.T, ownerID int64, name string, available bool) int64 {
	t.Helper()
	v, err := e.items.Create(context.Background(), ownerID, CreateItemInput{
		Name: name, Description: name + " for rent", Available: available,
	})
	require.NoError(t, err)
	return v.ID
}

// booking persists a booking directly so tests can place it anywhere in time.
func (e *testEnv) booking(
	t *testing.T,
	bookerID, itemID int64,
	start, end time.Time,
	status models.BookingStatus,
) int64 {
	t.Helper()
	b := &models.Booking{
		Start:  start,
		End:    end,
		Status: status,
		Booker: models.User{ID: bookerID},
		Item:   models.Item{ID: itemID},
	}
	require.NoError(t, e.db.CreateBooking(context.Background(), b))
	return b.ID
}
