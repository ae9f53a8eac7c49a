package models

import (
	"fmt"
	"strings"
	"time"
)

// BookingState names one of the temporal/status views over a booking set.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

var AllBookingStates = []BookingState{
	StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected,
}

// ErrUnknownState is returned by ParseBookingState for unsupported names.
type ErrUnknownState struct {
	Raw string
}

func (e *ErrUnknownState) Error() string {
	return fmt.Sprintf("Unknown state: %s", e.Raw)
}

// ParseBookingState accepts a view name case-insensitively. Empty input means ALL.
func ParseBookingState(raw string) (BookingState, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return StateAll, nil
	}
	for _, st := range AllBookingStates {
		if st == BookingState(s) {
			return st, nil
		}
	}
	return "", &ErrUnknownState{Raw: raw}
}

// Matches reports whether b belongs to the view at instant now.
// The bookings repository expresses the same predicates in SQL.
func (s BookingState) Matches(b Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return b.Status == StatusApproved && b.Start.Before(now) && !b.End.Before(now)
	case StatePast:
		return b.Status == StatusApproved && !b.End.After(now)
	case StateFuture:
		return b.Status == StatusApproved && !b.Start.Before(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}
