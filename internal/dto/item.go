package dto

import (
	"time"

	"shareit/internal/models"
)

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"request_id,omitempty" binding:"omitempty,gt=0"`
}

type UpdateItemRequest struct {
	Name        models.Optional[string] `json:"name"`
	Description models.Optional[string] `json:"description"`
	Available   models.Optional[bool]   `json:"available"`
}

func (r UpdateItemRequest) Patch() models.ItemPatch {
	return models.ItemPatch{Name: r.Name, Description: r.Description, Available: r.Available}
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type SearchQuery struct {
	Text string `form:"text"`
	From int    `form:"from" binding:"min=0"`
	Size *int   `form:"size" binding:"omitempty,min=1"`
}

func (q SearchQuery) Page(defaultSize, maxSize int) models.Page {
	return ListQuery{From: q.From, Size: q.Size}.Page(defaultSize, maxSize)
}

type ItemView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"owner_id"`
	RequestID   *int64 `json:"request_id,omitempty"`
}

func NewItemView(it models.Item) ItemView {
	return ItemView{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.Owner.ID,
		RequestID:   it.RequestID,
	}
}

func NewItemViews(items []*models.Item) []ItemView {
	views := make([]ItemView, 0, len(items))
	for _, it := range items {
		views = append(views, NewItemView(*it))
	}
	return views
}

type CommentView struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

func NewCommentView(c models.Comment) CommentView {
	return CommentView{ID: c.ID, Text: c.Text, AuthorName: c.Author.Name, Created: c.Created}
}

func NewCommentViews(comments []*models.Comment) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, NewCommentView(*c))
	}
	return views
}

// ItemDetailView is an item with its comments and, for the owner only,
// the surrounding approved booking dates.
type ItemDetailView struct {
	ItemView
	LastBooking *time.Time    `json:"last_booking"`
	NextBooking *time.Time    `json:"next_booking"`
	Comments    []CommentView `json:"comments"`
}

func NewItemDetailView(it models.Item, comments []*models.Comment, last, next *time.Time) ItemDetailView {
	return ItemDetailView{
		ItemView:    NewItemView(it),
		LastBooking: last,
		NextBooking: next,
		Comments:    NewCommentViews(comments),
	}
}
