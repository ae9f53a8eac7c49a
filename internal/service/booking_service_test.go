package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBookingService_CreateAndConfirm(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	itemID := env.item(t, owner, "Drill", true)
	day := 24 * time.Hour

	var published []string
	for _, ev := range events.BookingEvents {
		env.bus.Subscribe(ev, func(e *events.Event) error {
			published = append(published, e.Type)
			return nil
		})
	}

	in := CreateBookingInput{ItemID: itemID, Start: env.now.Add(day), End: env.now.Add(2 * day)}
	created, err := env.bookings.Create(ctx, booker, in)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, created.Status)
	assert.False(t, created.Approved)
	assert.Equal(t, booker, created.Booker.ID)
	assert.Equal(t, "booker", created.Booker.Name)
	assert.Equal(t, itemID, created.Item.ID)
	assert.Equal(t, "Drill", created.Item.Name)

	// the item stays available after booking
	item, err := env.db.GetItemByID(ctx, itemID)
	require.NoError(t, err)
	assert.True(t, item.Available)

	approved, err := env.bookings.Confirm(ctx, owner, created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.True(t, approved.Approved)

	second, err := env.bookings.Create(ctx, booker, in)
	require.NoError(t, err)
	rejected, err := env.bookings.Confirm(ctx, owner, second.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
	assert.False(t, rejected.Approved)

	assert.Equal(t, []string{
		events.EventBookingCreated,
		events.EventBookingApproved,
		events.EventBookingCreated,
		events.EventBookingRejected,
	}, published)
}

func TestBookingService_CreateGuards(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	closed := env.item(t, owner, "Saw", false)
	open := env.item(t, owner, "Drill", true)
	in := func(itemID int64) CreateBookingInput {
		return CreateBookingInput{ItemID: itemID, Start: env.now.Add(time.Hour), End: env.now.Add(2 * time.Hour)}
	}

	_, err := env.bookings.Create(ctx, 999, in(open))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.bookings.Create(ctx, booker, in(999))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.bookings.Create(ctx, booker, in(closed))
	assert.ErrorIs(t, err, domain.ErrValidation)

	// no booking was persisted by the failed attempts
	all, err := env.bookings.ListForBooker(ctx, booker, models.StateAll, models.Unpaged)
	require.NoError(t, err)
	assert.Empty(t, all)

	// booking one's own item is allowed
	_, err = env.bookings.Create(ctx, owner, in(open))
	assert.NoError(t, err)
}

func TestBookingService_ConfirmGuards(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	itemID := env.item(t, owner, "Drill", true)
	bookingID := env.booking(t, booker, itemID, env.now.Add(time.Hour), env.now.Add(2*time.Hour), models.StatusWaiting)

	_, err := env.bookings.Confirm(ctx, booker, bookingID, true)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.bookings.Confirm(ctx, owner, 999, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	view, err := env.bookings.Get(ctx, owner, bookingID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, view.Status)
}

func TestBookingService_ReconfirmOverwrites(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	itemID := env.item(t, owner, "Drill", true)
	bookingID := env.booking(t, booker, itemID, env.now.Add(time.Hour), env.now.Add(2*time.Hour), models.StatusWaiting)

	for _, approved := range []bool{true, false, true, true} {
		view, err := env.bookings.Confirm(ctx, owner, bookingID, approved)
		require.NoError(t, err)
		assert.NotEqual(t, models.StatusWaiting, view.Status)
		assert.Equal(t, approved, view.Approved)
	}
}

func TestBookingService_GetSymmetry(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	stranger := env.user(t, "stranger")
	itemID := env.item(t, owner, "Drill", true)
	bookingID := env.booking(t, booker, itemID, env.now.Add(time.Hour), env.now.Add(2*time.Hour), models.StatusWaiting)

	byBooker, err := env.bookings.Get(ctx, booker, bookingID)
	require.NoError(t, err)
	byOwner, err := env.bookings.Get(ctx, owner, bookingID)
	require.NoError(t, err)
	assert.Equal(t, byBooker, byOwner)

	_, err = env.bookings.Get(ctx, stranger, bookingID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.bookings.Get(ctx, booker, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_ViewPartition(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	itemID := env.item(t, owner, "Drill", true)
	day := 24 * time.Hour

	env.booking(t, booker, itemID, env.now.Add(-4*day), env.now.Add(-3*day), models.StatusApproved)
	env.booking(t, booker, itemID, env.now.Add(-day), env.now.Add(day), models.StatusApproved)
	env.booking(t, booker, itemID, env.now.Add(2*day), env.now.Add(3*day), models.StatusApproved)
	env.booking(t, booker, itemID, env.now.Add(4*day), env.now.Add(5*day), models.StatusWaiting)
	env.booking(t, booker, itemID, env.now.Add(5*day), env.now.Add(6*day), models.StatusRejected)
	// pending booking whose window has already begun
	startedWaiting := env.booking(t, booker, itemID, env.now.Add(-2*day), env.now.Add(day), models.StatusWaiting)

	all, err := env.bookings.ListForBooker(ctx, booker, models.StateAll, models.Unpaged)
	require.NoError(t, err)
	require.Len(t, all, 6)

	seen := make(map[int64]int)
	for _, st := range models.AllBookingStates[1:] {
		views, err := env.bookings.ListForBooker(ctx, booker, st, models.Unpaged)
		require.NoError(t, err)
		for _, v := range views {
			seen[v.ID]++
		}
		for i := 1; i < len(views); i++ {
			assert.False(t, views[i].Start.After(views[i-1].Start), "state %s not ordered", st)
		}
	}
	for _, v := range all {
		assert.Equal(t, 1, seen[v.ID], "booking %d", v.ID)
	}

	for _, st := range []models.BookingState{models.StateCurrent, models.StatePast, models.StateFuture} {
		views, err := env.bookings.ListForBooker(ctx, booker, st, models.Unpaged)
		require.NoError(t, err)
		for _, v := range views {
			assert.NotEqual(t, startedWaiting, v.ID, "started WAITING booking leaked into %s", st)
		}
	}

	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Start.After(all[i-1].Start))
	}
}

func TestBookingService_ListForOwner(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	itemID := env.item(t, owner, "Drill", true)
	otherOwner := env.user(t, "other")
	otherItem := env.item(t, otherOwner, "Tent", true)

	env.booking(t, booker, itemID, env.now.Add(time.Hour), env.now.Add(2*time.Hour), models.StatusWaiting)
	env.booking(t, booker, otherItem, env.now.Add(time.Hour), env.now.Add(2*time.Hour), models.StatusWaiting)

	views, err := env.bookings.ListForOwner(ctx, owner, models.StateWaiting, models.Page{Size: 10})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, itemID, views[0].Item.ID)

	_, err = env.bookings.ListForOwner(ctx, booker, models.StateAll, models.Unpaged)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.bookings.ListForOwner(ctx, 999, models.StateAll, models.Unpaged)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.bookings.ListForBooker(ctx, 999, models.StateAll, models.Unpaged)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	full, err := env.bookings.OwnerBookings(ctx, owner, models.StateAll)
	require.NoError(t, err)
	require.Len(t, full, 1)
	assert.Equal(t, "booker", full[0].Booker.Name)
}

func TestBookingService_LastAndNext(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	itemID := env.item(t, owner, "Drill", true)
	emptyID := env.item(t, owner, "Saw", true)
	day := 24 * time.Hour

	env.booking(t, booker, itemID, env.now.Add(-2*day), env.now.Add(-day), models.StatusApproved)
	env.booking(t, booker, itemID, env.now.Add(day), env.now.Add(2*day), models.StatusApproved)

	last, err := env.bookings.LastBookingDate(ctx, itemID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, env.now.Add(-day).Equal(*last))

	next, err := env.bookings.NextBookingDate(ctx, itemID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.True(t, env.now.Add(day).Equal(*next))

	last, err = env.bookings.LastBookingDate(ctx, emptyID)
	require.NoError(t, err)
	assert.Nil(t, last)
	next, err = env.bookings.NextBookingDate(ctx, emptyID)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestBookingService_ConcurrentOverlappingCreates(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	itemID := env.item(t, owner, "Drill", true)

	const n = 8
	bookers := make([]int64, n)
	for i := range bookers {
		bookers[i] = env.user(t, "booker"+string(rune('a'+i)))
	}

	in := CreateBookingInput{ItemID: itemID, Start: env.now.Add(time.Hour), End: env.now.Add(3 * time.Hour)}
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, id := range bookers {
		wg.Add(1)
		go func(bookerID int64) {
			defer wg.Done()
			_, err := env.bookings.Create(ctx, bookerID, in)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	views, err := env.bookings.ListForOwner(ctx, owner, models.StateWaiting, models.Unpaged)
	require.NoError(t, err)
	assert.Len(t, views, n)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}

func TestBookingService_PublishFailureDoesNotFailCreate(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	booker := env.user(t, "booker")
	itemID := env.item(t, owner, "Drill", true)

	pub := new(mockPublisher)
	pub.On("PublishJSON", events.EventBookingCreated, mock.AnythingOfType("events.BookingEventPayload")).
		Return(errors.New("subscriber failed")).Once()

	logger := zerolog.New(io.Discard)
	svc := NewBookingService(env.db, env.db, env.validator, pub, fixedClock{t: env.now}, &logger)

	view, err := svc.Create(ctx, booker, CreateBookingInput{
		ItemID: itemID, Start: env.now.Add(time.Hour), End: env.now.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.NotZero(t, view.ID)
	pub.AssertExpectations(t)
}
