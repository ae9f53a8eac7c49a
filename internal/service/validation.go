package service

import (
	"context"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// Validator holds the read-only precondition checks shared by every service.
// A failed check returns an error wrapping domain.ErrNotFound or
// domain.ErrValidation; no check writes.
type Validator struct {
	users    domain.UserRepository
	items    domain.ItemRepository
	bookings domain.BookingRepository
	requests domain.RequestRepository
	clock    domain.Clock
}

func NewValidator(
	users domain.UserRepository,
	items domain.ItemRepository,
	bookings domain.BookingRepository,
	requests domain.RequestRepository,
	clock domain.Clock,
) *Validator {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Validator{users: users, items: items, bookings: bookings, requests: requests, clock: clock}
}

func (v *Validator) UserExists(ctx context.Context, userID int64) error {
	ok, err := v.users.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user %d not found", domain.ErrNotFound, userID)
	}
	return nil
}

func (v *Validator) ItemExists(ctx context.Context, itemID int64) error {
	ok, err := v.items.ItemExists(ctx, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: item %d not found", domain.ErrNotFound, itemID)
	}
	return nil
}

func (v *Validator) RequestExists(ctx context.Context, requestID int64) error {
	ok, err := v.requests.RequestExists(ctx, requestID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: request %d not found", domain.ErrNotFound, requestID)
	}
	return nil
}

// ItemAvailable returns the item when it is open for booking.
func (v *Validator) ItemAvailable(ctx context.Context, itemID int64) (*models.Item, error) {
	item, err := v.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, fmt.Errorf("%w: item %d is not available for booking", domain.ErrValidation, itemID)
	}
	return item, nil
}

// IsItemOwner returns the item when userID owns it.
func (v *Validator) IsItemOwner(ctx context.Context, itemID, userID int64) (*models.Item, error) {
	item, err := v.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Owner.ID != userID {
		return nil, fmt.Errorf("%w: user %d is not the owner of item %d", domain.ErrValidation, userID, itemID)
	}
	return item, nil
}

// IsBookingItemOwner returns the booking when userID exists and owns the booked item.
func (v *Validator) IsBookingItemOwner(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	booking, err := v.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := v.userKnown(ctx, userID); err != nil {
		return nil, err
	}
	if booking.Item.Owner.ID != userID {
		return nil, fmt.Errorf("%w: user %d is not the owner of the item in booking %d",
			domain.ErrValidation, userID, bookingID)
	}
	return booking, nil
}

// IsBookerOrOwner returns the booking when userID exists and is its booker or the item owner.
func (v *Validator) IsBookerOrOwner(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	booking, err := v.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := v.userKnown(ctx, userID); err != nil {
		return nil, err
	}
	if booking.Booker.ID != userID && booking.Item.Owner.ID != userID {
		return nil, fmt.Errorf("%w: user %d is neither the booker nor the owner of booking %d",
			domain.ErrValidation, userID, bookingID)
	}
	return booking, nil
}

func (v *Validator) OwnsAnyItem(ctx context.Context, ownerID int64) error {
	count, err := v.items.CountItemsByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: user %d does not own any items", domain.ErrValidation, ownerID)
	}
	return nil
}

// HasCompletedBooking requires an approved booking of the item by the user that has already ended.
func (v *Validator) HasCompletedBooking(ctx context.Context, userID, itemID int64) error {
	count, err := v.bookings.CountCompletedBookings(ctx, userID, itemID, v.clock.Now())
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: user %d has no completed booking of item %d", domain.ErrValidation, userID, itemID)
	}
	return nil
}

// userKnown is the user check used inside booking guards, where an unknown
// caller is a rule violation rather than a missing resource.
func (v *Validator) userKnown(ctx context.Context, userID int64) error {
	ok, err := v.users.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user %d is not registered", domain.ErrValidation, userID)
	}
	return nil
}
