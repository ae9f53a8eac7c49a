package dto

import (
	"time"

	"shareit/internal/models"
)

// CreateBookingRequest is the ingress shape of POST /bookings.
// The end > start rule is enforced here and not re-checked by the service.
type CreateBookingRequest struct {
	ItemID int64     `json:"item_id" binding:"required,gt=0"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required,gtfield=Start"`
}

type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingView is the wire representation of a booking.
type BookingView struct {
	ID       int64                `json:"id"`
	Start    time.Time            `json:"start"`
	End      time.Time            `json:"end"`
	Status   models.BookingStatus `json:"status"`
	Approved bool                 `json:"approved"`
	Booker   UserSummary          `json:"booker"`
	Item     ItemSummary          `json:"item"`
}

// NewBookingView shapes b without any lookups; Booker and Item must already be resolved.
func NewBookingView(b models.Booking) BookingView {
	return BookingView{
		ID:       b.ID,
		Start:    b.Start,
		End:      b.End,
		Status:   b.Status,
		Approved: b.Status == models.StatusApproved,
		Booker:   UserSummary{ID: b.Booker.ID, Name: b.Booker.Name},
		Item:     ItemSummary{ID: b.Item.ID, Name: b.Item.Name},
	}
}

func NewBookingViews(bookings []*models.Booking) []BookingView {
	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, NewBookingView(*b))
	}
	return views
}

// ListQuery carries the view name and pagination of booking and request listings.
type ListQuery struct {
	State string `form:"state"`
	From  int    `form:"from" binding:"min=0"`
	Size  *int   `form:"size" binding:"omitempty,min=1"`
}

// Page converts the query into a page, using defaultSize when size is absent
// and clamping to maxSize.
func (q ListQuery) Page(defaultSize, maxSize int) models.Page {
	size := defaultSize
	if q.Size != nil {
		size = *q.Size
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return models.Page{From: q.From, Size: size}
}
