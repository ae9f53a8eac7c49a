package service

import (
	"context"
	"time"

	"shareit/internal/domain"
	"shareit/internal/dto"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type CreateBookingInput struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

type BookingService struct {
	bookings  domain.BookingRepository
	users     domain.UserRepository
	validator *Validator
	eventBus  domain.EventPublisher
	clock     domain.Clock
	logger    *zerolog.Logger
}

func NewBookingService(
	bookings domain.BookingRepository,
	users domain.UserRepository,
	validator *Validator,
	eventBus domain.EventPublisher,
	clock domain.Clock,
	logger *zerolog.Logger,
) *BookingService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &BookingService{
		bookings:  bookings,
		users:     users,
		validator: validator,
		eventBus:  eventBus,
		clock:     clock,
		logger:    logger,
	}
}

// Create books an available item for bookerID. The booking starts WAITING;
// the item stays available and overlapping bookings are not rejected.
func (s *BookingService) Create(ctx context.Context, bookerID int64, in CreateBookingInput) (dto.BookingView, error) {
	if err := s.validator.UserExists(ctx, bookerID); err != nil {
		return dto.BookingView{}, err
	}
	if err := s.validator.ItemExists(ctx, in.ItemID); err != nil {
		return dto.BookingView{}, err
	}
	item, err := s.validator.ItemAvailable(ctx, in.ItemID)
	if err != nil {
		return dto.BookingView{}, err
	}
	booker, err := s.users.GetUserByID(ctx, bookerID)
	if err != nil {
		return dto.BookingView{}, err
	}

	booking := &models.Booking{
		Start:  in.Start,
		End:    in.End,
		Status: models.StatusWaiting,
		Booker: *booker,
		Item:   *item,
	}
	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return dto.BookingView{}, err
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", item.ID).
		Int64("booker_id", bookerID).
		Msg("Booking created")
	s.publishEvent(events.EventBookingCreated, *booking, bookerID)

	return dto.NewBookingView(*booking), nil
}

// Confirm approves or rejects a booking on behalf of the item owner.
// A booking that was already decided is overwritten; WAITING is never written.
func (s *BookingService) Confirm(ctx context.Context, ownerID, bookingID int64, approved bool) (dto.BookingView, error) {
	booking, err := s.validator.IsBookingItemOwner(ctx, bookingID, ownerID)
	if err != nil {
		return dto.BookingView{}, err
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if booking.Status.IsTerminal() {
		s.logger.Warn().
			Int64("booking_id", bookingID).
			Str("from", string(booking.Status)).
			Str("to", string(status)).
			Msg("Overwriting decided booking")
	}

	if err := s.bookings.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return dto.BookingView{}, err
	}
	booking.Status = status

	s.publishEvent(eventType, *booking, ownerID)
	return dto.NewBookingView(*booking), nil
}

// Get returns a booking to its booker or to the owner of the booked item.
func (s *BookingService) Get(ctx context.Context, userID, bookingID int64) (dto.BookingView, error) {
	booking, err := s.validator.IsBookerOrOwner(ctx, bookingID, userID)
	if err != nil {
		return dto.BookingView{}, err
	}
	return dto.NewBookingView(*booking), nil
}

// ListForBooker returns the caller's own bookings in the given view, newest start first.
func (s *BookingService) ListForBooker(
	ctx context.Context,
	userID int64,
	state models.BookingState,
	page models.Page,
) ([]dto.BookingView, error) {
	if err := s.validator.UserExists(ctx, userID); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.GetBookerBookings(ctx, userID, state, s.clock.Now(), page)
	if err != nil {
		return nil, err
	}
	return dto.NewBookingViews(bookings), nil
}

// ListForOwner returns bookings of the caller's items in the given view, newest start first.
func (s *BookingService) ListForOwner(
	ctx context.Context,
	ownerID int64,
	state models.BookingState,
	page models.Page,
) ([]dto.BookingView, error) {
	bookings, err := s.ownerBookings(ctx, ownerID, state, page)
	if err != nil {
		return nil, err
	}
	return dto.NewBookingViews(bookings), nil
}

// OwnerBookings is ListForOwner without shaping, for exports that need the full graph.
func (s *BookingService) OwnerBookings(ctx context.Context, ownerID int64, state models.BookingState) ([]*models.Booking, error) {
	return s.ownerBookings(ctx, ownerID, state, models.Unpaged)
}

func (s *BookingService) ownerBookings(
	ctx context.Context,
	ownerID int64,
	state models.BookingState,
	page models.Page,
) ([]*models.Booking, error) {
	if err := s.validator.UserExists(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := s.validator.OwnsAnyItem(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.bookings.GetOwnerBookings(ctx, ownerID, state, s.clock.Now(), page)
}

// LastBookingDate is the end of the item's most recent finished approved booking, or nil.
func (s *BookingService) LastBookingDate(ctx context.Context, itemID int64) (*time.Time, error) {
	return s.bookings.LastBookingEnd(ctx, itemID, s.clock.Now())
}

// NextBookingDate is the start of the item's nearest upcoming approved booking, or nil.
func (s *BookingService) NextBookingDate(ctx context.Context, itemID int64) (*time.Time, error) {
	return s.bookings.NextBookingStart(ctx, itemID, s.clock.Now())
}

func (s *BookingService) publishEvent(eventType string, booking models.Booking, actorID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		BookerID:  booking.Booker.ID,
		ItemID:    booking.Item.ID,
		OwnerID:   booking.Item.Owner.ID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
		ActorID:   actorID,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
