package models

import "time"

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

func (s BookingStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Booking is a persisted booking with its booker and item (including the
// item's owner) already resolved.
type Booking struct {
	ID        int64         `json:"id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Status    BookingStatus `json:"status"`
	Booker    User          `json:"booker"`
	Item      Item          `json:"item"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// IsCompleted reports whether the booking was approved and has already ended.
func (b Booking) IsCompleted(now time.Time) bool {
	return b.Status == StatusApproved && b.End.Before(now)
}
