package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
}

type ItemRepository interface {
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	ItemExists(ctx context.Context, id int64) (bool, error)
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	CountItemsByOwner(ctx context.Context, ownerID int64) (int, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error)
	SearchAvailableItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error)
}

type BookingRepository interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error
	DeleteBooking(ctx context.Context, id int64) error
	GetBookerBookings(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, page models.Page) ([]*models.Booking, error)
	GetOwnerBookings(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, page models.Page) ([]*models.Booking, error)
	LastBookingEnd(ctx context.Context, itemID int64, now time.Time) (*time.Time, error)
	NextBookingStart(ctx context.Context, itemID int64, now time.Time) (*time.Time, error)
	CountCompletedBookings(ctx context.Context, bookerID, itemID int64, now time.Time) (int, error)
}

type RequestRepository interface {
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	RequestExists(ctx context.Context, id int64) (bool, error)
	CreateRequest(ctx context.Context, req *models.ItemRequest) error
	GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	GetRequestsExcept(ctx context.Context, requesterID int64, page models.Page) ([]*models.ItemRequest, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimitStore counts requests per key inside a fixed window.
type RateLimitStore interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// Clock abstracts the current instant so temporal views can be tested.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
