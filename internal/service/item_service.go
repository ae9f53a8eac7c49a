package service

import (
	"context"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/dto"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type CreateItemInput struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

type ItemService struct {
	items     domain.ItemRepository
	users     domain.UserRepository
	comments  domain.CommentRepository
	bookings  *BookingService
	validator *Validator
	logger    *zerolog.Logger
}

func NewItemService(
	items domain.ItemRepository,
	users domain.UserRepository,
	comments domain.CommentRepository,
	bookings *BookingService,
	validator *Validator,
	logger *zerolog.Logger,
) *ItemService {
	return &ItemService{
		items:     items,
		users:     users,
		comments:  comments,
		bookings:  bookings,
		validator: validator,
		logger:    logger,
	}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, in CreateItemInput) (dto.ItemView, error) {
	if err := s.validator.UserExists(ctx, ownerID); err != nil {
		return dto.ItemView{}, err
	}
	if in.RequestID != nil {
		if err := s.validator.RequestExists(ctx, *in.RequestID); err != nil {
			return dto.ItemView{}, err
		}
	}
	owner, err := s.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return dto.ItemView{}, err
	}

	item := &models.Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   in.Available,
		Owner:       *owner,
		RequestID:   in.RequestID,
	}
	if err := s.items.CreateItem(ctx, item); err != nil {
		return dto.ItemView{}, err
	}
	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("Item created")
	return dto.NewItemView(*item), nil
}

// Update applies a partial update by the owner. Blank strings keep their value;
// availability is applied whenever it is present.
func (s *ItemService) Update(ctx context.Context, userID, itemID int64, patch models.ItemPatch) (dto.ItemView, error) {
	if err := s.validator.ItemExists(ctx, itemID); err != nil {
		return dto.ItemView{}, err
	}
	item, err := s.validator.IsItemOwner(ctx, itemID, userID)
	if err != nil {
		return dto.ItemView{}, err
	}

	if name, ok := models.NonBlank(patch.Name); ok {
		item.Name = name
	}
	if desc, ok := models.NonBlank(patch.Description); ok {
		item.Description = desc
	}
	if available, ok := patch.Available.Get(); ok {
		item.Available = available
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return dto.ItemView{}, err
	}
	return dto.NewItemView(*item), nil
}

// Get returns the item with its comments. Last and next booking dates are
// filled only when the caller owns the item.
func (s *ItemService) Get(ctx context.Context, userID, itemID int64) (dto.ItemDetailView, error) {
	if err := s.validator.UserExists(ctx, userID); err != nil {
		return dto.ItemDetailView{}, err
	}
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return dto.ItemDetailView{}, err
	}
	return s.detail(ctx, item, item.Owner.ID == userID)
}

// ListOwned returns the caller's items ordered by id, each with booking dates and comments.
func (s *ItemService) ListOwned(ctx context.Context, ownerID int64) ([]dto.ItemDetailView, error) {
	if err := s.validator.UserExists(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.items.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]dto.ItemDetailView, 0, len(items))
	for _, item := range items {
		v, err := s.detail(ctx, item, true)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Search finds available items whose name or description contains text,
// ignoring case. Blank text matches nothing.
func (s *ItemService) Search(ctx context.Context, text string, page models.Page) ([]dto.ItemView, error) {
	if strings.TrimSpace(text) == "" {
		return []dto.ItemView{}, nil
	}
	items, err := s.items.SearchAvailableItems(ctx, text, page)
	if err != nil {
		return nil, err
	}
	return dto.NewItemViews(items), nil
}

// AddComment records a comment by a user who has completed a booking of the item.
func (s *ItemService) AddComment(ctx context.Context, userID, itemID int64, text string) (dto.CommentView, error) {
	if err := s.validator.UserExists(ctx, userID); err != nil {
		return dto.CommentView{}, err
	}
	if err := s.validator.ItemExists(ctx, itemID); err != nil {
		return dto.CommentView{}, err
	}
	if err := s.validator.HasCompletedBooking(ctx, userID, itemID); err != nil {
		return dto.CommentView{}, err
	}
	author, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return dto.CommentView{}, err
	}

	comment := &models.Comment{Text: text, ItemID: itemID, Author: *author}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return dto.CommentView{}, err
	}
	return dto.NewCommentView(*comment), nil
}

func (s *ItemService) detail(ctx context.Context, item *models.Item, withBookings bool) (dto.ItemDetailView, error) {
	comments, err := s.comments.GetCommentsByItem(ctx, item.ID)
	if err != nil {
		return dto.ItemDetailView{}, err
	}
	if !withBookings {
		return dto.NewItemDetailView(*item, comments, nil, nil), nil
	}

	last, err := s.bookings.LastBookingDate(ctx, item.ID)
	if err != nil {
		return dto.ItemDetailView{}, err
	}
	next, err := s.bookings.NextBookingDate(ctx, item.ID)
	if err != nil {
		return dto.ItemDetailView{}, err
	}
	return dto.NewItemDetailView(*item, comments, last, next), nil
}
